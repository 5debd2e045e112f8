package domain

import (
	"errors"
	"time"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is one entry in a wizard session transcript.
type ChatTurn struct {
	Role      ChatRole  `json:"role" bson:"role"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

var ErrNotAssistantTurn = errors.New("last transcript turn is not an assistant turn")

// Transcript is an append-only list of chat turns. The only permitted edit is
// amending the most recently appended assistant turn, which is how streamed
// text is delivered incrementally.
type Transcript []ChatTurn

func (t Transcript) Append(role ChatRole, text string) Transcript {
	return append(t, ChatTurn{Role: role, Text: text, CreatedAt: time.Now()})
}

// AmendLastAssistant replaces the text of the final turn. It fails unless the
// final turn was produced by the assistant.
func (t Transcript) AmendLastAssistant(text string) (Transcript, error) {
	if len(t) == 0 || t[len(t)-1].Role != RoleAssistant {
		return t, ErrNotAssistantTurn
	}
	out := make(Transcript, len(t))
	copy(out, t)
	out[len(out)-1].Text = text
	return out, nil
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAppend(t *testing.T) {
	var tr Transcript
	tr = tr.Append(RoleAssistant, "Hi!")
	tr = tr.Append(RoleUser, "Hello")

	require.Len(t, tr, 2)
	assert.Equal(t, RoleAssistant, tr[0].Role)
	assert.Equal(t, "Hello", tr[1].Text)
	assert.False(t, tr[1].CreatedAt.IsZero())
}

func TestAmendLastAssistant(t *testing.T) {
	var tr Transcript
	tr = tr.Append(RoleAssistant, "Putting your bouq")

	amended, err := tr.AmendLastAssistant("Putting your bouquet together...")
	require.NoError(t, err)
	assert.Equal(t, "Putting your bouquet together...", amended[len(amended)-1].Text)

	// The original is untouched.
	assert.Equal(t, "Putting your bouq", tr[0].Text)
}

func TestAmendLastAssistant_UserTurn(t *testing.T) {
	var tr Transcript
	tr = tr.Append(RoleUser, "hello")

	_, err := tr.AmendLastAssistant("hi")
	assert.ErrorIs(t, err, ErrNotAssistantTurn)

	_, err = Transcript{}.AmendLastAssistant("hi")
	assert.ErrorIs(t, err, ErrNotAssistantTurn)
}

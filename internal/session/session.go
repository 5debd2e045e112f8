// Package session stores wizard sessions: the machine state, the chat
// transcript, and the active/pending recommendations.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/wizard"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one customer's wizard conversation with one shop.
type Session struct {
	ID         string                 `json:"id" bson:"_id"`
	ShopID     uuid.UUID              `json:"shop_id" bson:"shop_id"`
	State      wizard.State           `json:"state" bson:"state"`
	Transcript domain.Transcript      `json:"transcript" bson:"transcript"`
	Active     *domain.Recommendation `json:"active,omitempty" bson:"active,omitempty"`
	Pending    *domain.Recommendation `json:"pending,omitempty" bson:"pending,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" bson:"updated_at"`
}

// New creates a fresh session for a shop with the wizard's greeting already
// on the transcript.
func New(shopID uuid.UUID) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New().String(),
		ShopID:     shopID,
		State:      wizard.Initial(),
		Transcript: domain.Transcript{}.Append(domain.RoleAssistant, wizard.Greeting()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Store is the session persistence contract. Consumers define this interface,
// not the storage backends.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

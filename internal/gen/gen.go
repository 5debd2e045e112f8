// Package gen talks to the hosted Gemini API to propose bouquets and render
// bouquet images. Everything that comes back is untrusted input: proposals are
// parsed defensively and must be validated by the allocator before use.
package gen

import (
	"context"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/allocator"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

// Preferences is the customer's accumulated wizard answers, embedded into the
// generation prompt.
type Preferences struct {
	Recipient string
	Occasion  string
	Colors    string
	Style     string
	Notes     string
	Wrapping  string
}

// ProposalRequest asks the model for a fresh bouquet proposal.
type ProposalRequest struct {
	ShopName    string
	Inventory   []allocator.InventoryItem
	Budget      float64
	Preferences Preferences
}

// ModifyRequest asks the model to rework an existing recommendation according
// to a free-text instruction.
type ModifyRequest struct {
	ShopName    string
	Inventory   []allocator.InventoryItem
	Budget      float64
	Current     *domain.Recommendation
	Instruction string
}

// Proposal is the parsed model output: a natural-language message plus the
// proposed flower list, in the order the model returned it.
type Proposal struct {
	Message string                   `json:"message"`
	Flowers []allocator.ProposedItem `json:"flowers"`
}

// Client is the remote-generation contract consumed by the bouquet service.
type Client interface {
	ProposeBouquet(ctx context.Context, req ProposalRequest) (*Proposal, error)
	ModifyBouquet(ctx context.Context, req ModifyRequest) (*Proposal, error)

	// GenerateImage returns an image reference for the bouquet, or an empty
	// string. Image generation is a non-critical enhancement; failures must
	// not block bouquet delivery.
	GenerateImage(ctx context.Context, items []domain.RecommendationItem) (string, error)
}

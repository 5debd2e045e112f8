package domain

import (
	"time"

	"github.com/google/uuid"
)

// Flower is a single inventory line owned by a shop.
// Invariant: InStock is true iff Quantity > 0; Quantity never goes negative.
type Flower struct {
	ID              uuid.UUID  `json:"id"`
	ShopID          uuid.UUID  `json:"shop_id"`
	Name            string     `json:"name"`
	Color           string     `json:"color,omitempty"`
	Price           float64    `json:"price"`
	Quantity        int        `json:"quantity"`
	Boosted         bool       `json:"boosted"`
	InStock         bool       `json:"in_stock"`
	ShelfLifeDays   int        `json:"shelf_life_days"`
	LastRestockedAt *time.Time `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Expired reports whether the flower's shelf life has elapsed since the
// last restock. Flowers that were never restocked do not expire.
func (f Flower) Expired(now time.Time) bool {
	if f.LastRestockedAt == nil || f.ShelfLifeDays <= 0 {
		return false
	}
	return now.After(f.LastRestockedAt.Add(time.Duration(f.ShelfLifeDays) * 24 * time.Hour))
}

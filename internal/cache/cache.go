// Package cache caches shop search results in Redis.
package cache

import (
	"context"
	"errors"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ShopResult is a shop plus its distance from the searched location.
type ShopResult struct {
	Shop       domain.Shop `json:"shop"`
	DistanceKm *float64    `json:"distance_km,omitempty"`
}

// SearchCache caches shop search results keyed by the search parameters.
// Consumers define this interface, not the Redis implementation.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]ShopResult, error)
	Set(ctx context.Context, key string, results []ShopResult) error
	Delete(ctx context.Context, key string) error
}

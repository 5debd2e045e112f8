package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/cache"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/geo"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
)

// SearchParams narrows a shop search. With coordinates set, results carry
// distances and sort nearest first; RadiusKm of 0 means no radius filter.
type SearchParams struct {
	Lat      *float64
	Lng      *float64
	RadiusKm float64
}

type ShopService struct {
	shops repository.ShopRepository
	cache cache.SearchCache
	sfg   singleflight.Group // prevents cache stampede on popular searches
	log   *zap.SugaredLogger
}

func NewShopService(shops repository.ShopRepository, searchCache cache.SearchCache, log *zap.SugaredLogger) *ShopService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ShopService{
		shops: shops,
		cache: searchCache,
		log:   log,
	}
}

// Search returns shops matching the params, nearest first when coordinates
// are given. Results are cached; concurrent identical searches share one
// database round trip.
func (s *ShopService) Search(ctx context.Context, params SearchParams) ([]cache.ShopResult, error) {
	key := searchKey(params)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			results, err := s.cache.Get(ctx, key)
			if err == nil {
				return results, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.log.Warnw("search cache get failed", "error", err)
			}
		}

		shops, err := s.shops.List(ctx)
		if err != nil {
			return nil, err
		}

		results := rankShops(shops, params)

		if s.cache != nil {
			go func() {
				if err := s.cache.Set(context.Background(), key, results); err != nil {
					s.log.Warnw("search cache set failed", "error", err)
				}
			}()
		}

		return results, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]cache.ShopResult), nil
}

func (s *ShopService) Get(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return s.shops.GetByID(ctx, id)
}

func (s *ShopService) Create(ctx context.Context, shop *domain.Shop) error {
	return s.shops.Create(ctx, shop)
}

// AssignOwner sets or clears a shop's owner. The admin guard lives at the
// HTTP layer.
func (s *ShopService) AssignOwner(ctx context.Context, shopID uuid.UUID, ownerID *uuid.UUID) error {
	return s.shops.AssignOwner(ctx, shopID, ownerID)
}

func rankShops(shops []domain.Shop, params SearchParams) []cache.ShopResult {
	results := make([]cache.ShopResult, 0, len(shops))

	for _, shop := range shops {
		result := cache.ShopResult{Shop: shop}
		if params.Lat != nil && params.Lng != nil {
			if !shop.HasLocation() {
				// A shop without coordinates can never match a radius filter.
				if params.RadiusKm > 0 {
					continue
				}
			} else {
				d := geo.DistanceKm(*params.Lat, *params.Lng, *shop.Latitude, *shop.Longitude)
				if params.RadiusKm > 0 && d > params.RadiusKm {
					continue
				}
				result.DistanceKm = &d
			}
		}
		results = append(results, result)
	}

	if params.Lat != nil && params.Lng != nil {
		sort.SliceStable(results, func(i, j int) bool {
			di, dj := results[i].DistanceKm, results[j].DistanceKm
			if di == nil {
				return false // shops without coordinates sort last
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}

	return results
}

func searchKey(params SearchParams) string {
	if params.Lat == nil || params.Lng == nil {
		return "all"
	}
	// Coordinates rounded to ~100m so nearby searches share cache entries.
	return fmt.Sprintf("%.3f:%.3f:%.0f", *params.Lat, *params.Lng, params.RadiusKm)
}

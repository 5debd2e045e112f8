// Package http exposes the marketplace API over chi.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/cache"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/service"
)

// ShopService is the handler's view of the shop layer.
type ShopService interface {
	Search(ctx context.Context, params service.SearchParams) ([]cache.ShopResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	Create(ctx context.Context, shop *domain.Shop) error
	AssignOwner(ctx context.Context, shopID uuid.UUID, ownerID *uuid.UUID) error
}

type ShopHandler struct {
	shops ShopService
}

func NewShopHandler(shops ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// GET /api/v1/shops?lat=&lng=&radius_km=
func (h *ShopHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	results, err := h.shops.Search(r.Context(), params)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// GET /api/v1/shops/{shop_id}
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	shop, err := h.shops.Get(r.Context(), shopID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, shop)
}

type CreateShopRequestDTO struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Specialty string   `json:"specialty"`
	Hours     string   `json:"hours"`
	Tags      []string `json:"tags"`
	Website   string   `json:"website"`
	Phone     string   `json:"phone"`
}

// POST /api/v1/shops (admin)
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateShopRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	shop := &domain.Shop{
		ID:        uuid.New(),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Specialty: req.Specialty,
		Hours:     req.Hours,
		Tags:      req.Tags,
		Website:   req.Website,
		Phone:     req.Phone,
	}
	if err := h.shops.Create(r.Context(), shop); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, shop)
}

type AssignOwnerRequestDTO struct {
	// OwnerID of null clears the assignment.
	OwnerID *uuid.UUID `json:"owner_id"`
}

// PUT /api/v1/shops/{shop_id}/owner (admin)
func (h *ShopHandler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	var req AssignOwnerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.shops.AssignOwner(r.Context(), shopID, req.OwnerID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseSearchParams(r *http.Request) (service.SearchParams, error) {
	var params service.SearchParams
	q := r.URL.Query()

	if raw := q.Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errInvalidQueryParam("lat")
		}
		params.Lat = &lat
	}
	if raw := q.Get("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errInvalidQueryParam("lng")
		}
		params.Lng = &lng
	}
	if (params.Lat == nil) != (params.Lng == nil) {
		return params, errInvalidQueryParam("lat/lng must be given together")
	}
	if raw := q.Get("radius_km"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			return params, errInvalidQueryParam("radius_km")
		}
		params.RadiusKm = radius
	}

	return params, nil
}

type errInvalidQueryParam string

func (e errInvalidQueryParam) Error() string { return "invalid query parameter: " + string(e) }

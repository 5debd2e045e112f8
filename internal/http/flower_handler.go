package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

// FlowerInventory is the handler's view of the inventory layer; the Postgres
// repository satisfies it directly.
type FlowerInventory interface {
	ListByShop(ctx context.Context, shopID uuid.UUID, inStockOnly bool) ([]domain.Flower, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flower, error)
	Create(ctx context.Context, flower *domain.Flower) error
	Restock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Flower, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FlowerHandler struct {
	flowers FlowerInventory
}

func NewFlowerHandler(flowers FlowerInventory) *FlowerHandler {
	return &FlowerHandler{flowers: flowers}
}

// GET /api/v1/shops/{shop_id}/flowers?in_stock=true
func (h *FlowerHandler) List(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	inStockOnly := r.URL.Query().Get("in_stock") == "true"

	flowers, err := h.flowers.ListByShop(r.Context(), shopID, inStockOnly)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if flowers == nil {
		flowers = []domain.Flower{}
	}
	respondJSON(w, http.StatusOK, flowers)
}

type CreateFlowerRequestDTO struct {
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Boosted       bool    `json:"boosted"`
	ShelfLifeDays int     `json:"shelf_life_days"`
}

// POST /api/v1/shops/{shop_id}/flowers (owner)
func (h *FlowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	var req CreateFlowerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if req.Price < 0 || req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_argument", "price and quantity must not be negative")
		return
	}

	now := time.Now()
	flower := &domain.Flower{
		ID:            uuid.New(),
		ShopID:        shopID,
		Name:          req.Name,
		Color:         req.Color,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Boosted:       req.Boosted,
		InStock:       req.Quantity > 0,
		ShelfLifeDays: req.ShelfLifeDays,
	}
	if req.Quantity > 0 {
		flower.LastRestockedAt = &now
	}

	if err := h.flowers.Create(r.Context(), flower); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, flower)
}

type RestockRequestDTO struct {
	Quantity int `json:"quantity"`
}

// POST /api/v1/flowers/{flower_id}/restock (owner)
func (h *FlowerHandler) Restock(w http.ResponseWriter, r *http.Request) {
	flowerID, err := uuid.Parse(chi.URLParam(r, "flower_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower_id must be a UUID")
		return
	}

	var req RestockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	flower, err := h.flowers.Restock(r.Context(), flowerID, req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, flower)
}

// DELETE /api/v1/flowers/{flower_id} (owner)
func (h *FlowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	flowerID, err := uuid.Parse(chi.URLParam(r, "flower_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_flower_id", "flower_id must be a UUID")
		return
	}

	if err := h.flowers.Delete(r.Context(), flowerID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

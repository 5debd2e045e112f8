package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/service"
)

type OrderPlacer interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Cancel(ctx context.Context, id uuid.UUID) error
	SetInternalNotes(ctx context.Context, id uuid.UUID, notes string) error
}

type OrderHandler struct {
	orders OrderPlacer
}

func NewOrderHandler(orders OrderPlacer) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// POST /api/v1/orders
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.orders.Checkout(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/shops/{shop_id}/orders (owner)
func (h *OrderHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	orders, err := h.orders.ListByShop(r.Context(), shopID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// PATCH /api/v1/orders/{order_id}/status (owner)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !domain.ValidStatus(status) {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, status); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// POST /api/v1/orders/{order_id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	if err := h.orders.Cancel(r.Context(), orderID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(domain.OrderStatusCancelled)})
}

type InternalNotesRequestDTO struct {
	Notes string `json:"notes"`
}

// PUT /api/v1/orders/{order_id}/notes (owner)
func (h *OrderHandler) SetInternalNotes(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req InternalNotesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.orders.SetInternalNotes(r.Context(), orderID, req.Notes); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

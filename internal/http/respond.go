package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/cache"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/service"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and repository errors to HTTP statuses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrShopNotFound),
		errors.Is(err, repository.ErrFlowerNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrInvalidStatus),
		errors.Is(err, service.ErrMissingCheckoutField),
		errors.Is(err, service.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, service.ErrNoPendingRecommendation):
		respondError(w, http.StatusConflict, "no_pending_recommendation", err.Error())
	case errors.Is(err, cache.ErrCacheMiss):
		// Cache misses are internal; they should never reach a handler.
		fallthrough
	default:
		log.Printf("request %s failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

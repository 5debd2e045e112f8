package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/session"
)

type WizardService interface {
	StartSession(ctx context.Context, shopID uuid.UUID) (*session.Session, error)
	GetSession(ctx context.Context, id string) (*session.Session, error)
	HandleMessage(ctx context.Context, sessionID, text string) (*session.Session, error)
	Approve(ctx context.Context, sessionID string) (*session.Session, error)
	RejectPending(ctx context.Context, sessionID string) (*session.Session, error)
	Reset(ctx context.Context, sessionID string) (*session.Session, error)
}

type WizardHandler struct {
	wizard WizardService
}

func NewWizardHandler(wizard WizardService) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// POST /api/v1/shops/{shop_id}/wizard
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "shop_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shop_id", "shop_id must be a UUID")
		return
	}

	sess, err := h.wizard.StartSession(r.Context(), shopID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sess)
}

// GET /api/v1/wizard/{session_id}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.GetSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

type WizardMessageRequestDTO struct {
	Text string `json:"text"`
}

// POST /api/v1/wizard/{session_id}/messages
func (h *WizardHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req WizardMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "invalid_text", "text is required")
		return
	}

	sess, err := h.wizard.HandleMessage(r.Context(), chi.URLParam(r, "session_id"), req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

// POST /api/v1/wizard/{session_id}/approve
func (h *WizardHandler) Approve(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.Approve(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

// POST /api/v1/wizard/{session_id}/reject
func (h *WizardHandler) Reject(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.RejectPending(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

// POST /api/v1/wizard/{session_id}/reset
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.Reset(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

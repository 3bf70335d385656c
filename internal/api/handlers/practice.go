package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mukundajmera/AwaazTwin/internal/domain/practice"
)

// PracticeService is satisfied by *practice.Service.
type PracticeService interface {
	Start(ctx context.Context, templateID string) (*practice.Session, error)
	Advance(ctx context.Context, id string, phaseIndex int) (*practice.Session, error)
	Finish(ctx context.Context, id string, in practice.FinishInput) (*practice.Session, error)
	Get(ctx context.Context, id string) (*practice.Session, error)
	List(ctx context.Context) ([]*practice.Session, error)
}

type PracticeHandler struct {
	service PracticeService
}

func NewPracticeHandler(service PracticeService) *PracticeHandler {
	return &PracticeHandler{service: service}
}

type startPracticeRequest struct {
	TemplateID string `json:"templateId"`
}

type advancePracticeRequest struct {
	SessionID  string `json:"sessionId"`
	PhaseIndex *int   `json:"phaseIndex"`
}

type finishPracticeRequest struct {
	SessionID string             `json:"sessionId"`
	Scores    map[string]float64 `json:"scores"`
	Notes     *string            `json:"notes"`
}

// Templates handles GET /api/practice/templates.
func (h *PracticeHandler) Templates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": practice.Templates()})
}

// Start handles POST /api/practice/start.
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startPracticeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "templateId is required")
		return
	}
	sess, err := h.service.Start(r.Context(), req.TemplateID)
	if errors.Is(err, practice.ErrTemplateNotFound) {
		writeErrorWith(w, http.StatusNotFound, err.Error(), "templateId", req.TemplateID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Advance handles POST /api/practice/advance.
func (h *PracticeHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req advancePracticeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.PhaseIndex == nil {
		writeError(w, http.StatusBadRequest, "phaseIndex is required")
		return
	}
	if *req.PhaseIndex < 0 {
		writeError(w, http.StatusBadRequest, "phaseIndex must be >= 0")
		return
	}
	sess, err := h.service.Advance(r.Context(), req.SessionID, *req.PhaseIndex)
	if err != nil {
		h.writeSessionError(w, err, req.SessionID)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Finish handles POST /api/practice/finish.
func (h *PracticeHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req finishPracticeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	sess, err := h.service.Finish(r.Context(), req.SessionID, practice.FinishInput{Scores: req.Scores, Notes: req.Notes})
	if err != nil {
		h.writeSessionError(w, err, req.SessionID)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Sessions handles GET /api/practice/sessions.
func (h *PracticeHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Session handles GET /api/practice/sessions/{id}.
func (h *PracticeHandler) Session(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *PracticeHandler) writeSessionError(w http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, practice.ErrSessionNotFound):
		writeErrorWith(w, http.StatusNotFound, practice.ErrSessionNotFound.Error(), "sessionId", id)
	case errors.Is(err, practice.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to update session")
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mukundajmera/AwaazTwin/internal/domain/archive"
)

// ArchiveReader is satisfied by *archive.Archiver.
type ArchiveReader interface {
	Recent(ctx context.Context, limit int) ([]archive.Object, error)
	Fetch(ctx context.Context, key string) (archive.Object, []byte, error)
}

type ArchiveHandler struct {
	archive ArchiveReader
}

func NewArchiveHandler(a ArchiveReader) *ArchiveHandler {
	return &ArchiveHandler{archive: a}
}

// Recent handles GET /api/archive/recent?limit=N.
func (h *ArchiveHandler) Recent(w http.ResponseWriter, r *http.Request) {
	objects, err := h.archive.Recent(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list archived audio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"objects": objects})
}

// Object handles GET /api/archive/objects/*, returning the stored audio bytes.
func (h *ArchiveHandler) Object(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	obj, data, err := h.archive.Fetch(r.Context(), key)
	if errors.Is(err, archive.ErrObjectNotFound) {
		writeErrorWith(w, http.StatusNotFound, archive.ErrObjectNotFound.Error(), "key", key)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch archived audio")
		return
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

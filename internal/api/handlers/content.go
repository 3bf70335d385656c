package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mukundajmera/AwaazTwin/internal/domain/content"
)

// ContentStore is satisfied by *content.Store.
type ContentStore interface {
	AllTopics() ([]content.Topic, error)
	TopicBySlug(slug string) (*content.Article, error)
}

type ContentHandler struct {
	store ContentStore
}

func NewContentHandler(store ContentStore) *ContentHandler {
	return &ContentHandler{store: store}
}

// ListTopics handles GET /api/content.
func (h *ContentHandler) ListTopics(w http.ResponseWriter, _ *http.Request) {
	topics, err := h.store.AllTopics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list topics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// GetTopic handles GET /api/content/*; the wildcard is the "<section>/<name>" slug.
func (h *ContentHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "*")
	article, err := h.store.TopicBySlug(slug)
	if errors.Is(err, content.ErrTopicNotFound) {
		writeErrorWith(w, http.StatusNotFound, content.ErrTopicNotFound.Error(), "slug", slug)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load topic")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

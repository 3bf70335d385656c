// Handler helpers shared by every route: JSON bodies in, JSON bodies out.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mukundajmera/AwaazTwin/internal/domain/connectivity"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeErrorWith adds one extra string field next to "error", e.g. the slug or id that missed.
func writeErrorWith(w http.ResponseWriter, statusCode int, message, key, value string) {
	writeJSON(w, statusCode, map[string]string{"error": message, key: value})
}

// decodeBody reads a JSON request body into dst. It writes the error response itself and
// reports false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// writeConnectivityError maps the connectivity error classes onto HTTP statuses.
// Messages are passed through unchanged so the settings page can show them as-is.
func writeConnectivityError(w http.ResponseWriter, err error) {
	var upstream *connectivity.UpstreamError
	switch {
	case errors.Is(err, connectivity.ErrInvalidInput), errors.Is(err, connectivity.ErrUnsafeURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseLimit reads ?limit=, clamped to maxListLimit.
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

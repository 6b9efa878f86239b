// Package api exposes the application over a JSON HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goureshmadye/tripbuddy/internal/cache"
	"github.com/goureshmadye/tripbuddy/internal/calculator"
	"github.com/goureshmadye/tripbuddy/internal/limits"
	"github.com/goureshmadye/tripbuddy/internal/service"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps application errors onto HTTP statuses:
// validation failures block submission with an inline message, limit
// denials carry the structured decision so the UI can prompt an
// upgrade, and busy ids ask the caller to retry.
func respondServiceError(w http.ResponseWriter, err error) {
	var limitErr *limits.Error
	switch {
	case calculator.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &limitErr):
		respondJSON(w, http.StatusForbidden, map[string]any{
			"error":    limitErr.Error(),
			"kind":     limitErr.Kind,
			"decision": limitErr.Decision,
		})
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cache.ErrBusy):
		respondError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

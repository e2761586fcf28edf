package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"financas/internal/core"
	"financas/internal/gist"
	"financas/internal/log"
	"financas/internal/sync"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// respondError maps domain errors onto the API failure taxonomy:
// validation failures 422, denied operations 409 (including savings
// overdraw), unknown ids 404, remote sync trouble 502, everything
// else 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDefaultCategory),
		errors.Is(err, core.ErrInsufficientSavings),
		errors.Is(err, sync.ErrSyncInProgress),
		errors.Is(err, sync.ErrDeviceBlocked),
		errors.Is(err, sync.ErrNotConfigured):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDueDay),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, gist.ErrInvalidToken):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, gist.ErrDocumentNotFound):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
	writeError(w, status, err.Error())
}

// respondSyncError is respondError with a 502 fallback: any sync
// failure that is not a local domain error is a remote problem.
func (s *Server) respondSyncError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sync.ErrSyncInProgress),
		errors.Is(err, sync.ErrDeviceBlocked),
		errors.Is(err, sync.ErrNotConfigured),
		errors.Is(err, gist.ErrInvalidToken),
		errors.Is(err, core.ErrNotFound):
		s.respondError(w, r, err)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Sync request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// decodeJSON parses a request body, limited to 1 MiB.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

package http

import (
	"io"
	"net/http"
)

// handleExportData returns the whole ledger as one snapshot document.
func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.ledger.Store().Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleImportData replaces local collections with the posted snapshot.
// The payload is fully parsed before anything is overwritten.
func (s *Server) handleImportData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.ledger.ImportSnapshot(r.Context(), body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleClearData wipes every collection. The confirm flag guards
// against accidental calls.
func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeJSON(r, &req); err != nil || !req.Confirm {
		writeError(w, http.StatusBadRequest, "confirmation required")
		return
	}
	if err := s.ledger.ClearAll(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleExportSheets writes the current ledger to the configured
// spreadsheet. Unavailable when no exporter is configured.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export not configured")
		return
	}
	if err := s.exporter.Run(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

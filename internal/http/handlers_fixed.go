package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
	"financas/internal/ledger"
)

func (s *Server) handleListFixedExpenses(w http.ResponseWriter, r *http.Request) {
	fixed, err := s.ledger.Store().FixedExpenses(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if fixed == nil {
		fixed = []core.FixedExpense{}
	}
	writeJSON(w, http.StatusOK, fixed)
}

func (s *Server) handleCreateFixedExpense(w http.ResponseWriter, r *http.Request) {
	var fe core.FixedExpense
	if err := decodeJSON(r, &fe); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.ledger.AddFixedExpense(r.Context(), fe)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateFixedExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description *string      `json:"description"`
		Value       *core.Amount `json:"value"`
		Category    *string      `json:"category"`
		DueDay      *int         `json:"dueDay"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ledger.UpdateFixedExpense(r.Context(), chi.URLParam(r, "id"), ledger.FixedExpenseUpdate{
		Description: req.Description,
		Value:       req.Value,
		Category:    req.Category,
		DueDay:      req.DueDay,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteFixedExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleGenerateFixedExpenses materializes pending transactions for
// every fixed expense up to the current month.
func (s *Server) handleGenerateFixedExpenses(w http.ResponseWriter, r *http.Request) {
	created, err := s.fixedProcessor.Materialize(r.Context(), core.Today())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
	"financas/internal/ledger"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.Store().Goals(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.ledger.AddGoal(r.Context(), g)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string      `json:"name"`
		TargetAmount *core.Amount `json:"targetAmount"`
		Months       *int         `json:"months"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ledger.UpdateGoal(r.Context(), chi.URLParam(r, "id"), ledger.GoalUpdate{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Months:       req.Months,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleAllocateToGoal moves money from savings into a goal: the
// amount is withdrawn from the savings balance and added to the goal's
// progress in one operation.
func (s *Server) handleAllocateToGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount core.Amount `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := s.ledger.AllocateToGoal(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

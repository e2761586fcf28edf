package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
	"financas/internal/ledger"
)

// monthFilter parses an optional ?month=YYYY-MM query parameter.
func monthFilter(r *http.Request) (*core.MonthKey, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return nil, nil
	}
	month, err := core.ParseMonthKey(raw)
	if err != nil {
		return nil, err
	}
	return &month, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := monthFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var transactions []core.Transaction
	if month != nil {
		transactions, err = s.ledger.Store().TransactionsByMonth(r.Context(), *month)
	} else {
		transactions, err = s.ledger.Store().Transactions(r.Context())
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.ledger.AddTransaction(r.Context(), t)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         *core.TransactionType `json:"type"`
		Value        *core.Amount          `json:"value"`
		Description  *string               `json:"description"`
		Category     *string               `json:"category"`
		Date         *core.Date            `json:"date"`
		Paid         *bool                 `json:"paid"`
		IsCard       *bool                 `json:"isCard"`
		Installments *int                  `json:"installments"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), ledger.TransactionUpdate{
		Type:         req.Type,
		Value:        req.Value,
		Description:  req.Description,
		Category:     req.Category,
		Date:         req.Date,
		Paid:         req.Paid,
		IsCard:       req.IsCard,
		Installments: req.Installments,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleTogglePaid(w http.ResponseWriter, r *http.Request) {
	updated, err := s.ledger.TogglePaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleReplicate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs         []string `json:"ids"`
		TargetMonth string   `json:"targetMonth"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, err := core.ParseMonthKey(req.TargetMonth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.ledger.Replicate(r.Context(), req.IDs, target)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if created == nil {
		created = []core.Transaction{}
	}
	writeJSON(w, http.StatusCreated, created)
}

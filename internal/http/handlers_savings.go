package http

import (
	"net/http"

	"financas/internal/core"
)

func (s *Server) handleGetSavings(w http.ResponseWriter, r *http.Request) {
	savings, err := s.ledger.Store().Savings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]core.Amount{"savings": savings})
}

func (s *Server) handleSavingsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.ledger.Store().SavingsHistory(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if history == nil {
		history = []core.SavingsEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

type savingsRequest struct {
	Amount core.Amount `json:"amount"`
	Reason string      `json:"reason"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.ledger.Deposit(r.Context(), req.Amount, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := s.ledger.Withdraw(r.Context(), req.Amount, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.ledger.Store().Settings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.ledger.SaveSettings(r.Context(), settings); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

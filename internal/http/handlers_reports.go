package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"financas/internal/core"
	"financas/internal/services"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	month, err := monthFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	summary, err := s.reports.Balance(r.Context(), month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyBalance(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.respondError(w, r, core.ErrInvalidMonth)
		return
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		s.respondError(w, r, core.ErrInvalidMonth)
		return
	}

	mb, err := s.reports.MonthlyBalance(r.Context(), core.MonthKey{Year: year, Month: monthNum})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mb)
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	month, err := monthFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	byCategory, err := s.reports.ExpensesByCategory(r.Context(), month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, byCategory)
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 60 {
			writeError(w, http.StatusUnprocessableEntity, "months must be between 1 and 60")
			return
		}
		months = parsed
	}

	points, err := s.reports.MonthlySeries(r.Context(), months, core.Today())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleUpcomingDue(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 365 {
			writeError(w, http.StatusUnprocessableEntity, "days must be between 0 and 365")
			return
		}
		days = parsed
	}

	due, err := s.reports.UpcomingDue(r.Context(), days, core.Today())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if due == nil {
		due = []services.DueExpense{}
	}
	writeJSON(w, http.StatusOK, due)
}

func (s *Server) handleAvailableMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.ledger.Store().AvailableMonths(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if months == nil {
		months = []core.MonthKey{}
	}
	writeJSON(w, http.StatusOK, months)
}

package http

import (
	"net/http"
	"time"

	"wallet/internal/log"
)

func (s *Server) logReport(r *http.Request, report string, q rangeQuery, rows int, start time.Time) {
	fields := log.NewFields().WithReport(report, q.user, q.from.String(), q.to.String(), q.granularity.String())
	log.NewStructuredLogger(log.FromContext(r.Context())).LogReport(r.Context(), fields, rows, time.Since(start))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parseRange(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	rows, err := s.reports.Summary(r.Context(), q.user, q.from, q.to, q.granularity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.logReport(r, "summary", q, len(rows), start)
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleIncomeBySource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parseRange(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	rows, err := s.reports.IncomeBySource(r.Context(), q.user, q.from, q.to, q.granularity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.logReport(r, "income-by-source", q, len(rows), start)
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBalanceByStorage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parseRange(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	rows, err := s.reports.BalanceByStorage(r.Context(), q.user, q.from, q.to, q.granularity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.logReport(r, "balance-by-storage", q, len(rows), start)
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	year, err := requiredInt(r, "year")
	if err != nil {
		handleError(w, r, err)
		return
	}
	month, err := requiredInt(r, "month")
	if err != nil {
		handleError(w, r, err)
		return
	}

	rows, err := s.reports.BudgetVsActual(r.Context(), user, year, month)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Budget report computed",
		log.FieldUserID, user, log.FieldYear, year, log.FieldMonth, month, log.FieldRows, len(rows))
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleExpenseTemplate(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	tpl, err := s.reports.ExpenseTemplate(r.Context(), user)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

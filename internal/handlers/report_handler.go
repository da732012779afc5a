package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

// ReportHandler handles dashboard and monthly report HTTP requests
type ReportHandler struct {
	Service *services.ReportService
	Now     func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s, Now: time.Now}
}

// Dashboard - GET /api/reports/dashboard?period=month|year|all or ?from=&to=
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	rng, label, err := h.Service.ResolveRange(q.Get("period"), q.Get("from"), q.Get("to"), h.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.Service.DashboardStats(r.Context(), userID, rng, label)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// Monthly - GET /api/reports/monthly?year=2026[&format=csv]
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	year := h.Now().In(h.Service.Location).Year()
	if y := r.URL.Query().Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1900 || n > 9999 {
			utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "invalid year", Field: "year"})
			return
		}
		year = n
	}

	if r.URL.Query().Get("format") == "csv" {
		data, err := h.Service.MonthlyReportsCSV(r.Context(), userID, year)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="monthly_%d.csv"`, year))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	reports, err := h.Service.MonthlyReports(r.Context(), userID, year)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"year": year, "months": reports})
}

package report_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/reports"
)

type Handler struct {
	ReportService *reports.Service
	Logger        *logger.Logger
}

func NewHandler(reportService *reports.Service, log *logger.Logger) *Handler {
	return &Handler{
		ReportService: reportService,
		Logger:        log,
	}
}

func (h *Handler) ProductionReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.ReportService.ProductionReport(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ProductionReport: %v", err))
		http.Error(w, "Could not build the production report", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, report)
}

// SalesReport covers the window given by from/to query params
// (YYYY-MM-DD); the default is the last 30 days.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = parsed
	}

	report, err := h.ReportService.SalesReport(r.Context(), from, to)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SalesReport: %v", err))
		http.Error(w, "Could not build the sales report", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, report)
}

func (h *Handler) FlavorReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.ReportService.FlavorReport(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("FlavorReport: %v", err))
		http.Error(w, "Could not build the flavor report", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, report)
}

func (h *Handler) DepositReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.ReportService.DepositReport(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DepositReport: %v", err))
		http.Error(w, "Could not build the deposit report", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}

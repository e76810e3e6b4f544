// Package handlers provides HTTP handlers for the ABR reporting API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/abr-tools/abr-ingest/internal/report"
)

// ReportsHandler serves the aggregate reporting endpoints.
type ReportsHandler struct {
	logger  zerolog.Logger
	reports *report.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(logger zerolog.Logger, reports *report.Service) *ReportsHandler {
	return &ReportsHandler{
		logger:  logger.With().Str("handler", "reports").Logger(),
		reports: reports,
	}
}

// Stats handles GET /api/v1/stats.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("dashboard stats failed")
		writeError(w, http.StatusInternalServerError, "stats query failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Analytics handles GET /api/v1/analytics.
func (h *ReportsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.Analytics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("analytics failed")
		writeError(w, http.StatusInternalServerError, "analytics query failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}

package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/abr-tools/abr-ingest/internal/report"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

var abnPathPattern = regexp.MustCompile(`^\d{11}$`)

// EntitiesHandler serves entity search and profile endpoints.
type EntitiesHandler struct {
	logger  zerolog.Logger
	reports *report.Service
}

// NewEntitiesHandler creates a new entities handler.
func NewEntitiesHandler(logger zerolog.Logger, reports *report.Service) *EntitiesHandler {
	return &EntitiesHandler{
		logger:  logger.With().Str("handler", "entities").Logger(),
		reports: reports,
	}
}

// Search handles GET /api/v1/entities.
func (h *EntitiesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.SearchFilter{
		Query:      q.Get("q"),
		EntityType: q.Get("type"),
		State:      q.Get("state"),
		Limit:      queryInt(q.Get("limit"), 50),
		Offset:     queryInt(q.Get("offset"), 0),
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	result, err := h.reports.Search(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("entity search failed")
		writeError(w, http.StatusInternalServerError, "search failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Profile handles GET /api/v1/entities/{abn}.
func (h *EntitiesHandler) Profile(w http.ResponseWriter, r *http.Request) {
	abn := chi.URLParam(r, "abn")
	if !abnPathPattern.MatchString(abn) {
		writeError(w, http.StatusBadRequest, "invalid abn", "abn must be 11 digits")
		return
	}

	profile, err := h.reports.Profile(r.Context(), abn)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entity not found", "")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("abn", abn).Msg("entity profile failed")
		writeError(w, http.StatusInternalServerError, "profile query failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func queryInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

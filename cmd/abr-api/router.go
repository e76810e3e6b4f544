// Package main provides the API router setup.
package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/abr-tools/abr-ingest/cmd/abr-api/handlers"
	"github.com/abr-tools/abr-ingest/internal/cache"
	"github.com/abr-tools/abr-ingest/internal/config"
	"github.com/abr-tools/abr-ingest/internal/report"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger zerolog.Logger, cfg *config.Config, db *sql.DB, cacheClient cache.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"abr-api"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	reports := report.NewService(
		storage.NewReportRepository(db),
		cacheClient,
		cfg.Cache.TTL,
		logger,
	)

	reportsHandler := handlers.NewReportsHandler(logger, reports)
	entitiesHandler := handlers.NewEntitiesHandler(logger, reports)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", reportsHandler.Stats)
		r.Get("/analytics", reportsHandler.Analytics)
		r.Get("/entities", entitiesHandler.Search)
		r.Get("/entities/{abn}", entitiesHandler.Profile)
	})

	return r
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api mounts the Relic HTTP surface on a chi router.

	GET  /health  /ready  /metrics
	     /api/v1/harvests         stage, preview, persist, replay (long deadline)
	GET  /api/v1/classifications
	     /api/v1/artifacts        browse stored artifacts
	     /api/v1/queries          named catalog statements
	POST /api/v1/sql              ad hoc SQL, behind a feature gate
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/ingest"
	"github.com/taibuivan/relic/internal/core/query"
	"github.com/taibuivan/relic/internal/platform/config"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/middleware"
)

// Server owns the router and the [http.Server] listening on SERVER_PORT.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the endpoint sets mounted by [NewServer]. Metrics may be nil.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Metrics   http.Handler

	Harvest  *ingest.Handler
	Artifact *artifact.Handler
	Query    *query.Handler
}

// NewServer builds the middleware chain and routes. ctx bounds the rate
// limiter's background sweeper.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(api chi.Router) {
		// harvests page through the provider synchronously
		api.Group(func(long chi.Router) {
			long.Use(chimw.Timeout(constants.HarvestRequestTimeout))
			long.Route("/harvests", h.Harvest.RegisterRoutes)
		})

		api.Group(func(short chi.Router) {
			short.Use(chimw.Timeout(constants.GlobalRequestTimeout))
			short.Get("/classifications", h.Harvest.ListClassifications)
			short.Route("/artifacts", h.Artifact.RegisterRoutes)
			short.Route("/queries", h.Query.RegisterRoutes)
			short.With(middleware.FeatureGate("adhoc_sql", cfg.AdhocSQLEnabled)).Post("/sql", h.Query.ExecuteSQL)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router to httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

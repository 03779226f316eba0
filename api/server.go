// Package api exposes ingestion and the derived metrics over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/config"
	"transitmetrics.dev/analytics/storage"
)

type Server struct {
	cfg      config.Config
	store    *storage.FilesystemStore
	registry storage.Registry
	ingestor *analytics.Ingestor
	logger   zerolog.Logger
}

func NewServer(
	cfg config.Config,
	store *storage.FilesystemStore,
	registry storage.Registry,
	logger zerolog.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		registry: registry,
		ingestor: analytics.NewIngestor(store, registry),
		logger:   logger,
	}
}

func (s *Server) Router() http.Handler {
	router := httprouter.New()

	router.GET("/health", s.handleHealth)
	router.POST("/ingest/gtfs", s.handleIngest)
	router.GET("/feeds", s.handleListFeeds)
	router.GET("/headways", s.handleHeadways)
	router.GET("/feeds/:feed_id/kpi", s.handleKPIs)
	router.GET("/coverage", s.handleCoverage)
	router.GET("/export/*artifact", s.handleExport)

	return router
}

func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("Listening")
	return server.ListenAndServe()
}

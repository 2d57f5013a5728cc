// Package server wires the HTTP surface: post submission, analytics reads,
// and the observability endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/socialpulse/internal/analytics"
	"github.com/pscheid92/socialpulse/internal/config"
	apperrors "github.com/pscheid92/socialpulse/internal/errors"
	"github.com/pscheid92/socialpulse/internal/ingest"
)

// storeHealthChecker is the minimal readiness surface of the backing store.
type storeHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	coordinator *ingest.Coordinator
	aggregator  *analytics.Aggregator
	store       storeHealthChecker
	startTime   time.Time
}

func NewServer(cfg *config.Config, coordinator *ingest.Coordinator, aggregator *analytics.Aggregator, store storeHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		coordinator: coordinator,
		aggregator:  aggregator,
		store:       store,
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

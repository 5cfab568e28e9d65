// Package server exposes the simulator's ops endpoints: health, version,
// prometheus metrics and the latest simulation reports.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/SlotForge_Go/internal/handler"
	"github.com/osse101/SlotForge_Go/internal/metrics"
)

// Server serves the ops endpoints
type Server struct {
	httpServer *http.Server
}

// NewServer builds the router. ready gates /readyz; reports backs /api/v1/reports.
func NewServer(addr string, ready handler.HealthChecker, reports handler.ReportSource) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(ready, reports),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter returns the route tree. Chi middleware executes in the order
// defined, outermost first.
func NewRouter(ready handler.HealthChecker, reports handler.ReportSource) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(DefaultMaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(ready))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", handler.HandleListReports(reports))
		r.Get("/reports/{game}", handler.HandleGetReport(reports))
	})

	return r
}

// Start serves until Stop; a graceful stop is not an error
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Default().Info(LogMsgServerStopped, "addr", s.httpServer.Addr)
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

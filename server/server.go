// Package server provides HTTP server management and lifecycle handling for OpenBNF.
// It includes server setup, middleware configuration, route management, and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/giygas/openbnf/config"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Content types gzipped for clients that accept it
var compressedTypes = []string{
	"application/json",
	"application/javascript",
	"text/html",
	"text/css",
	"text/javascript",
}

// Resources described under /api/v2/openbnf
var apiResources = []string{"drug", "indication", "sideeffects"}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler interfaces.HTTPHandler
	limiter *RateLimiter
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		limiter: NewRateLimiter(30 * time.Minute),
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(requestLogger()))
	s.router.Use(middleware.StripSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(middleware.Compress(5, compressedTypes...))
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler(s.limiter))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	h := s.handler
	s.router.NotFound(h.NotFound)

	// Site
	s.router.Get("/", h.Index)
	s.router.Get("/about", h.About)
	s.router.Get("/api/v2/doc", h.APIDoc)
	s.router.Get("/search", h.Search)
	s.router.Post("/search", h.Search)
	s.router.Get("/result/*", h.Result)
	s.router.Handle("/static/*", h.Static())

	// JSON API
	s.router.Get("/ajaxsearch", h.AjaxSearch)
	s.router.Get("/api", h.DrugsV1)
	s.router.Get("/api/v2/drug", h.DrugsV2)
	s.router.Get("/api/v2/drug/{code}", h.DrugByCodeV2)
	s.router.Get("/api/v2/indication", h.IndicationsV2)
	s.router.Get("/api/v2/sideeffects", h.SideEffectsV2)

	// API self-description
	s.router.Get("/api/v2/openbnf", h.APIResourceListing)
	for _, resource := range apiResources {
		s.router.Get("/api/v2/openbnf/"+resource, h.APIDeclaration(resource))
	}

	s.router.Get("/health", h.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server. It returns nil once Shutdown has been called.
func (s *Server) Start() error {
	logging.Info("Starting server", "address", s.server.Addr, "env", s.config.Env.String())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.limiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// requestLogger is the application logger, or the slog default before
// logging is initialised.
func requestLogger() *slog.Logger {
	if logging.DefaultLoggingService != nil && logging.DefaultLoggingService.Logger != nil {
		return logging.DefaultLoggingService.Logger
	}
	return slog.Default()
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

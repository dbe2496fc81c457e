// Package api provides the HTTP API server and handlers for the catalog browser.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookconnect/bookconnect-server/internal/ratelimit"
	"github.com/bookconnect/bookconnect-server/internal/session"
	"github.com/bookconnect/bookconnect-server/internal/sse"
	"github.com/bookconnect/bookconnect-server/internal/validation"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Services holds the collaborators the handlers call into.
type Services struct {
	Sessions  *session.Manager
	Streams   *sse.Manager
	Limiter   *ratelimit.KeyedRateLimiter
	Validator *validation.Validator
}

// Options tunes the HTTP surface.
type Options struct {
	Name        string
	CORSOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	sseHandler *sse.Handler
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	opts       Options
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Name == "" {
		opts.Name = "Book Connect"
	}
	if services.Validator == nil {
		services.Validator = validation.New()
	}

	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
		opts:     opts,
	}
	if services.Streams != nil {
		s.sseHandler = sse.NewHandler(services.Streams, services.Sessions.Exists, logger)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mostly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "Sec-CH-Prefers-Color-Scheme"},
		ExposedHeaders:   []string{"X-Request-ID", "Accept-CH"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	config := huma.DefaultConfig(s.opts.Name, APIVersion)
	config.Transformers = append(config.Transformers, EnvelopeTransformer)

	RegisterErrorHandler()
	s.api = humachi.New(s.router, config)

	s.registerHealthRoutes()
	s.registerSessionRoutes()
	s.registerCatalogRoutes()
	s.registerThemeRoutes()

	s.router.Handle("/metrics", promhttp.Handler())
	if s.sseHandler != nil {
		s.router.Get("/api/v1/sessions/{id}/stream", s.sseHandler.ServeHTTP)
	}
}

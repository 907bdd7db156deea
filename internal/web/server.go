package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"ai-diet-planner/internal/planner"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// PlanGenerator produces a diet plan. *app.App implements it.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, input planner.UserInput) (planner.DietPlan, error)
}

// Server serves the HTML form and the JSON API.
type Server struct {
	generator      PlanGenerator
	logger         zerolog.Logger
	metricsHandler http.Handler
	allowedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithAllowedOrigins enables CORS on the JSON API for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer creates a Server that generates plans with gen.
func NewServer(gen PlanGenerator, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{generator: gen, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes configures all routes and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.health)
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	r.Get("/", s.index)
	r.Post("/plan", s.submitPlan)

	r.Route("/api", func(r chi.Router) {
		if len(s.allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.allowedOrigins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID"},
				MaxAge:         300,
			}))
		}
		r.Post("/plans", s.createPlan)
	})

	return r
}

// Package server exposes the recommendation engine over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/coursewise/coursewise/advisor"
	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/embed"
	"github.com/coursewise/coursewise/recommend"
)

// Config configures a new Server instance.
type Config struct {
	Engine   *recommend.Engine
	Store    catalog.Store
	Embedder embed.Embedder

	// Advisor is optional; /api/advise returns 503 without it.
	Advisor advisor.Advisor

	Logger zerolog.Logger

	// DefaultLimit fills in requests that omit a limit, MaxLimit caps it.
	DefaultLimit int
	MaxLimit     int
}

// Server is the HTTP front of the recommendation service.
type Server struct {
	engine   *recommend.Engine
	store    catalog.Store
	embedder embed.Embedder
	advisor  advisor.Advisor
	validate *validator.Validate
	log      zerolog.Logger

	defaultLimit int
	maxLimit     int
}

// New creates a Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine must not be nil")
	}
	if cfg.Store == nil {
		return nil, errors.New("store must not be nil")
	}

	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}

	return &Server{
		engine:       cfg.Engine,
		store:        cfg.Store,
		embedder:     cfg.Embedder,
		advisor:      cfg.Advisor,
		validate:     validator.New(),
		log:          cfg.Logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Post("/advise", s.handleAdvise)
		r.Get("/analytics", s.handleAnalytics)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/{id}", s.handleCourseGet)
			r.Put("/{id}", s.handleCourseUpsert)
			r.Get("/{id}/similar", s.handleCourseSimilar)
		})
	})

	return r
}

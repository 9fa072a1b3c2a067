// Package server provides the HTTP API for hairmatch.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/config"
	"github.com/hyperjump/hairmatch/internal/keyword"
	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/recommend"
	"github.com/hyperjump/hairmatch/internal/session"
)

// Server is the HTTP server for the hairmatch API.
type Server struct {
	engine   *recommend.Engine
	sessions session.Store
	search   keyword.Index
	config   *config.ServerConfig
	logger   *zap.Logger
	version  string
	server   *http.Server
}

// NewServer creates a server with the given dependencies. search may be nil,
// in which case product queries are rejected.
func NewServer(
	engine *recommend.Engine,
	sessions session.Store,
	search keyword.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	version string,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		sessions: sessions,
		search:   search,
		config:   cfg,
		logger:   logger,
		version:  version,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout()))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(s.instrument)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/questions", s.handleQuestions)
		r.With(s.diagnoseLimit()).Post("/diagnose", s.handleDiagnose)
		r.Get("/products", s.handleProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})
	return r
}

func (s *Server) requestTimeout() time.Duration {
	if s.config.RequestTimeout > 0 {
		return s.config.RequestTimeout
	}
	return 60 * time.Second
}

// diagnoseLimit rate limits diagnose per client IP. A non-positive limit disables it.
func (s *Server) diagnoseLimit() func(http.Handler) http.Handler {
	if s.config.DiagnoseRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(s.config.DiagnoseRateLimit, time.Minute)
}

// instrument records request count and latency by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, endpoint, status, time.Since(start))
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("strategy", s.engine.Strategy()),
		zap.Int("products", s.engine.Catalog().Len()))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

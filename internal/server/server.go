// internal/server/server.go
// Package server serves the local web front end: an upload form that posts to
// the configured intake strategy and answers with the rendered dashboard.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mwiater/ecoaudit/internal/appconfig"
	"github.com/mwiater/ecoaudit/internal/intake"
)

const shutdownGrace = 5 * time.Second

// Server holds the dependencies shared by every handler. Each request gets
// its own intake session, so nothing is kept between requests. Only one
// acquisition runs at a time; overlapping submissions get intake.ErrBusy.
type Server struct {
	cfg      appconfig.Config
	acquirer intake.Acquirer
	logger   *zap.Logger
	inflight atomic.Bool
}

// New builds a Server. A nil logger discards log output.
func New(cfg appconfig.Config, acquirer intake.Acquirer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, acquirer: acquirer, logger: logger}
}

// Routes configures the router and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIntake)
	r.Post("/audit", s.handleAudit)
	r.Get("/dashboard", s.handleDashboard)
	r.Get("/healthz", handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "page not found", http.StatusNotFound)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("web UI listening",
			zap.String("addr", srv.Addr),
			zap.String("intake", s.acquirer.Name()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("shutting down web UI")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request with zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", requestID(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}

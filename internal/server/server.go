// Package server is a small employee directory backend: a paged listing with an
// exact id filter and a single-record update, backed by sqlite or Postgres.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gravitrone/roster/internal/metrics"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Config wires a Server.
type Config struct {
	Addr        string
	Repo        Repository
	Logger      zerolog.Logger
	Registry    *prometheus.Registry
	MaxPageSize int
}

// Server serves the employees API.
type Server struct {
	addr        string
	repo        Repository
	log         zerolog.Logger
	registry    *prometheus.Registry
	metrics     *metrics.Server
	maxPageSize int
}

// NewServer validates cfg and builds a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Repo == nil {
		return nil, errors.New("server: repository is required")
	}
	s := &Server{
		addr:        cfg.Addr,
		repo:        cfg.Repo,
		log:         cfg.Logger,
		registry:    cfg.Registry,
		maxPageSize: cfg.MaxPageSize,
	}
	if s.maxPageSize <= 0 {
		s.maxPageSize = maxPageSize
	}
	if cfg.Registry != nil {
		s.metrics = metrics.NewServer(cfg.Registry)
	}
	return s, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees", s.handleList)
	mux.HandleFunc("GET /api/employees/{id}", s.handleGet)
	mux.HandleFunc("PATCH /api/employees/{id}", s.handleUpdate)
	mux.HandleFunc("PUT /api/employees/{id}", s.handleUpdate)
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return s.withRequestLog(mux)
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("serving")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV7()).String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Observe(route, rec.status)
		s.log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

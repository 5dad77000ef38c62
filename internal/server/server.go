package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/metrics"
	"github.com/opensante/psmap/internal/stats"
)

// sampleSeed fixes the point downsample so a map keeps showing the
// same dots across requests within a deployment.
const sampleSeed = 1

// shutdownTimeout bounds the graceful drain on Shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP hand-off surface for presentation layers: it
// loads snapshots through the Loader, filters them per request and
// answers JSON envelopes (or file exports).
type Server struct {
	loader     *dataset.Loader
	validator  *Validator
	logger     *slog.Logger
	collector  *metrics.Collector
	sampleSize int
	cellSize   float64

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires request observations and the /metrics endpoint.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithSampleSize caps how many points /api/v1/points returns.
// Zero disables sampling.
func WithSampleSize(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.sampleSize = n
		}
	}
}

// WithCellSize sets the default heatmap cell size in degrees.
func WithCellSize(deg float64) Option {
	return func(s *Server) {
		if deg > 0 {
			s.cellSize = deg
		}
	}
}

// New returns a Server over the given loader.
func New(loader *dataset.Loader, opts ...Option) *Server {
	s := &Server{
		loader:     loader,
		validator:  NewValidator(),
		sampleSize: stats.DefaultSampleSize,
		cellSize:   stats.DefaultCellSizeDeg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	if s.collector != nil {
		r.Handle("/metrics", s.collector.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(observe(s.logger, s.collector))
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/practitioners", s.handlePractitioners).Methods(http.MethodGet)
	api.HandleFunc("/points", s.handlePoints).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/heatmap", s.handleHeatmap).Methods(http.MethodGet)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)

	return r
}

// ListenAndServe serves on addr until the context is cancelled, then
// drains in-flight requests. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

// Package api serves the dashboard snapshot as a read-only JSON API.
//
//	GET /api/schedules                   latest rows (optional ?level=overdue)
//	GET /api/schedules/{id}              one row
//	GET /api/schedules/{id}/upcoming?n=5 next n runs of a stored definition
//	GET /api/as-of                       default as-of date
//	GET /healthz
//	GET /metrics                         Prometheus exposition
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatumaykin/nextrun/internal/dashboard"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/schedule"
)

// Snapshots exposes the latest dashboard state. *dashboard.Poller
// satisfies it.
type Snapshots interface {
	Snapshot() dashboard.Snapshot
	Row(id string) (dashboard.Row, bool)
	AsOf() schedule.Date
}

// Definitions looks up stored definitions. *definitions.Store satisfies it.
type Definitions interface {
	Get(id string) (schedule.Definition, error)
}

// Server is the HTTP read API.
type Server struct {
	router      *mux.Router
	httpServer  *http.Server
	snapshots   Snapshots
	definitions Definitions
	engine      *resolver.Engine
	gatherer    prometheus.Gatherer
	clock       func() time.Time
	logger      *logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDefinitions enables the upcoming-runs endpoint.
func WithDefinitions(d Definitions, engine *resolver.Engine) Option {
	return func(s *Server) {
		s.definitions = d
		s.engine = engine
	}
}

// WithGatherer serves /metrics from g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for the upcoming-runs endpoint.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.clock = now }
}

// New builds a server listening on addr.
func New(addr string, snapshots Snapshots, opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		snapshots: snapshots,
		clock:     time.Now,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = resolver.New()
	}
	s.logger = s.logger.WithComponent("api")
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/schedules", s.listSchedules).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id}", s.getSchedule).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id}/upcoming", s.upcoming).Methods(http.MethodGet)
	api.HandleFunc("/as-of", s.asOf).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.healthCheck).Methods(http.MethodGet)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", logger.Field{Key: "addr", Value: s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http api shutting down")
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.DebugCtx(r.Context(), "http request",
			logger.Field{Key: "method", Value: r.Method},
			logger.Field{Key: "path", Value: r.URL.Path},
			logger.Field{Key: "status", Value: rec.status},
			logger.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()})
	})
}

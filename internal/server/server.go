// Package server exposes the form library and entry submission over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
)

const defaultMaxUpload = 32 << 20

// Server holds the handlers' dependencies.
type Server struct {
	orch      *orchestrator.Orchestrator
	logger    logging.Logger
	registry  *prometheus.Registry
	metrics   *httpMetrics
	assets    fs.FS
	maxUpload int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request metrics in reg and serves reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithAssets serves fsys under /assets/.
func WithAssets(fsys fs.FS) Option {
	return func(s *Server) {
		s.assets = fsys
	}
}

// WithMaxUploadBytes limits the size of multipart submissions.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates a Server backed by orch.
func New(orch *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	s := &Server{
		orch:      orch,
		logger:    logging.NewNop(),
		maxUpload: defaultMaxUpload,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry != nil {
		m, err := newHTTPMetrics(s.registry)
		if err != nil {
			return nil, fmt.Errorf("server: metrics: %w", err)
		}
		s.metrics = m
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
	}

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.listForms)
		r.Post("/", s.createForm)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", s.getForm)
			r.Put("/", s.updateForm)
			r.Delete("/", s.deleteForm)
			r.Post("/clone", s.cloneForm)
			r.Get("/fill", s.fillForm)
			r.Get("/schema", s.formSchema)
			r.Get("/entries", s.listEntries)
			r.Post("/entries", s.submitEntry)
			r.Get("/entries/{entryID}", s.getEntry)
			r.Delete("/entries/{entryID}", s.deleteEntry)
		})
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(s.assets)))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Timeouts bounds request handling and shutdown.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully within timeouts.Shutdown.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, timeouts Timeouts, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return Serve(ctx, ln, handler, timeouts, logger)
}

// Serve is ListenAndServe on an existing listener.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, timeouts Timeouts, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       timeouts.Read,
		ReadHeaderTimeout: timeouts.Read,
		WriteTimeout:      timeouts.Write,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	grace := timeouts.Shutdown
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()

	logger.Info(shutdownCtx, "http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "graceful shutdown did not complete", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("server: close: %w", closeErr)
		}
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

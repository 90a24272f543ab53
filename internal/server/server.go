// Package server exposes booking forms over HTTP: it renders the form for a
// template, collects answers and uploads per browser session and forwards
// submissions to the booking API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fotosfolio/go-bookingform/internal/config"
	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla"
)

const shutdownTimeout = 30 * time.Second

// Option customises a Server.
type Option func(*Server)

// WithRenderer replaces the default vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger routes request and lifecycle logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry registers metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithAssets serves files instead of the embedded vanilla assets.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		if files != nil {
			s.assets = files
		}
	}
}

// WithSessions replaces the session store.
func WithSessions(sessions *Sessions) Option {
	return func(s *Server) {
		if sessions != nil {
			s.sessions = sessions
		}
	}
}

// Server implements the booking form web service.
type Server struct {
	cfg      config.Config
	api      *client.Client
	renderer render.Renderer
	sessions *Sessions
	metrics  *Metrics
	registry *prometheus.Registry
	assets   fs.FS
	logger   *slog.Logger
	router   *mux.Router
}

// New wires a Server around api. Without WithRenderer the vanilla renderer
// is built from cfg.
func New(cfg config.Config, api *client.Client, opts ...Option) (*Server, error) {
	if api == nil {
		return nil, errors.New("server: api client is nil")
	}
	s := &Server{
		cfg:    cfg,
		api:    api,
		assets: vanilla.AssetsFS(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sessions == nil {
		s.sessions = NewSessions(cfg.SessionTTL)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.renderer == nil {
		vopts := []vanilla.Option{
			vanilla.WithAssetPrefix(cfg.AssetPrefix),
			vanilla.WithLogger(s.logger),
		}
		if cfg.TemplatesDir != "" {
			vopts = append(vopts, vanilla.WithTemplatesDir(cfg.TemplatesDir))
		}
		renderer, err := vanilla.New(vopts...)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}

	metrics, err := NewMetrics(s.registry, s.sessions.Len)
	if err != nil {
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}
	s.metrics = metrics
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/booking/{templateId}", s.handleForm).Methods(http.MethodGet)
	r.HandleFunc("/booking/{templateId}", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/booking/{templateId}/fields/{fieldId}", s.handleField).Methods(http.MethodPost)
	r.HandleFunc("/booking/{templateId}/uploads/{fieldId}", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/success", s.handleSuccess).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	prefix := "/" + strings.Trim(s.cfg.AssetPrefix, "/") + "/"
	r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.FS(s.assets))))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// ListenAndServe serves on cfg.Listen until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpsrv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("booking form server listening", "addr", s.cfg.Listen)
		errc <- httpsrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("booking form server shutting down")
		if err := httpsrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

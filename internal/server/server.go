// Package server exposes registered component bundles over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/uibundler/internal/bundler"
	"git.home.luguber.info/inful/uibundler/internal/config"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/observability"
	"git.home.luguber.info/inful/uibundler/internal/registry"
	"git.home.luguber.info/inful/uibundler/internal/server/middleware"
	"git.home.luguber.info/inful/uibundler/internal/version"
)

// Options configures a Server.
type Options struct {
	Config config.ServerConfig
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Server serves component bundles by registered name only, never by path.
type Server struct {
	bundler  *bundler.Bundler
	registry *registry.Registry
	errors   *ferrors.HTTPErrorAdapter
	logger   *slog.Logger
	cfg      config.ServerConfig
	router   *chi.Mux
	http     *http.Server
}

// New wires routes and middleware.
func New(b *bundler.Bundler, reg *registry.Registry, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		bundler:  b,
		registry: reg,
		errors:   ferrors.NewHTTPErrorAdapter(logger),
		logger:   logger,
		cfg:      opts.Config,
		router:   chi.NewRouter(),
	}
	s.setupRoutes(opts.Metrics)
	s.http = &http.Server{
		Addr:              opts.Config.Addr,
		Handler:           s.router,
		ReadTimeout:       opts.Config.ReadTimeout,
		ReadHeaderTimeout: opts.Config.ReadTimeout,
		WriteTimeout:      opts.Config.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(metricsHandler http.Handler) {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Chain(s.logger, s.errors))
	if s.cfg.WriteTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.WriteTimeout))
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/components", s.handleListComponents)
	s.router.Get("/components/{name}/bundle", s.handleBundle)
	if metricsHandler != nil {
		s.router.Method(http.MethodGet, "/metrics", metricsHandler)
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.http.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String(), logfields.Mode(string(s.bundler.Mode())))
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	Backend    string `json:"backend"`
	Components int    `json:"components"`
	Version    string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	backendVariant := "unresolved"
	if h := s.bundler.Resolver().Current(); h != nil {
		backendVariant = string(h.Variant)
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Mode:       string(s.bundler.Mode()),
		Backend:    backendVariant,
		Components: s.registry.Len(),
		Version:    version.Version,
	})
}

func (s *Server) handleListComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	component, err := s.registry.Lookup(name)
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}

	ctx := observability.WithComponent(r.Context(), name)
	text, err := s.bundler.BundleComponent(ctx, component.EntryPath)
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	if !s.bundler.Mode().IsProduction() {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

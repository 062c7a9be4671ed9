package commands

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/uibundler/internal/bundler"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/native"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/portable"
	"git.home.luguber.info/inful/uibundler/internal/config"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/metrics"
	"git.home.luguber.info/inful/uibundler/internal/registry"
)

// Runtime is the wired object graph shared by serve, bundle and probe.
type Runtime struct {
	Config   *config.Config
	Mode     config.ProcessMode
	Registry *registry.Registry
	Resolver *bundler.Resolver
	Bundler  *bundler.Bundler
	// Metrics is nil unless metrics are enabled.
	Metrics http.Handler
}

// NewRuntime wires the bundler for cfg. modeOverride, when non-empty, wins
// over every other mode source.
func NewRuntime(cfg *config.Config, modeOverride config.ProcessMode) (*Runtime, error) {
	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	mode := config.ResolveMode(cfg)
	if modeOverride != "" {
		mode = modeOverride
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		promReg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promReg)
		metricsHandler = metrics.HTTPHandler(promReg)
	}

	var nativeFactory backend.Factory
	if cfg.Backend.Native.IsEnabled() {
		nativeFactory = native.Factory(cfg.Backend.Native.Binary)
	}
	resolver := bundler.NewResolver(nativeFactory, portable.Factory(),
		bundler.WithVerifyTimeout(cfg.Backend.Native.VerifyTimeout),
		bundler.WithResolverRecorder(recorder))

	b := bundler.New(resolver,
		bundler.WithMode(mode),
		bundler.WithTarget(cfg.Backend.Target),
		bundler.WithRecorder(recorder),
		bundler.WithDedup(true),
		bundler.WithFlightTimeout(cfg.Server.WriteTimeout))

	slog.Info("Bundler configured",
		logfields.Mode(string(mode)),
		slog.Int("components", reg.Len()),
		slog.Bool("native_enabled", nativeFactory != nil),
		slog.String("target", cfg.Backend.Target))

	return &Runtime{
		Config:   cfg,
		Mode:     mode,
		Registry: reg,
		Resolver: resolver,
		Bundler:  b,
		Metrics:  metricsHandler,
	}, nil
}

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
	Warm bool   `help:"Resolve the compiler backend before accepting requests" default:"true" negatable:""`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, false)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	rt, err := NewRuntime(cfg, "")
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = rt.Bundler.Close(context.WithoutCancel(ctx)) }()

	if s.Warm {
		h, err := rt.Resolver.Resolve(ctx)
		if err != nil {
			return err
		}
		g.logger().Info("Compiler backend ready", logfields.Variant(string(h.Variant)))
	}

	srv := server.New(rt.Bundler, rt.Registry, server.Options{
		Config:  cfg.Server,
		Metrics: rt.Metrics,
		Logger:  g.logger(),
	})
	return srv.Run(ctx)
}

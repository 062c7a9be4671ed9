package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/native"
)

// ProbeCmd implements the 'probe' command.
type ProbeCmd struct {
	Timeout time.Duration `help:"Overall probe deadline" default:"30s"`
}

func (p *ProbeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, true)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	defer func() { _ = rt.Bundler.Close(context.Background()) }()

	start := time.Now()
	h, err := rt.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	out := g.stdout()
	_, _ = fmt.Fprintf(out, "backend:  %s\n", h.Variant)
	_, _ = fmt.Fprintf(out, "verified: %t\n", h.Verified)
	_, _ = fmt.Fprintf(out, "mode:     %s\n", rt.Mode)
	_, _ = fmt.Fprintf(out, "target:   %s\n", cfg.Backend.Target)
	if cfg.Backend.Native.IsEnabled() {
		binary := cfg.Backend.Native.Binary
		if binary == "" {
			binary = native.DefaultBinary
		}
		_, _ = fmt.Fprintf(out, "native:   %s\n", binary)
	} else {
		_, _ = fmt.Fprintln(out, "native:   disabled")
	}
	_, _ = fmt.Fprintf(out, "took:     %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

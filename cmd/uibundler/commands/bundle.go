package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/uibundler/internal/config"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/watch"
)

// BundleCmd implements the 'bundle' command.
type BundleCmd struct {
	Component string `arg:"" help:"Registered component name or path to an entry module"`
	Output    string `short:"o" help:"Write the bundle to this file instead of stdout"`
	Mode      string `help:"Override the process mode (production|development)"`
	Watch     bool   `short:"w" help:"Rebuild whenever files next to the entry change (implies development mode)"`
}

func (b *BundleCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, true)
	if err != nil {
		return err
	}
	mode, err := b.mode()
	if err != nil {
		return err
	}
	rt, err := NewRuntime(cfg, mode)
	if err != nil {
		return err
	}
	entry, err := rt.Registry.EntryFor(b.Component)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = rt.Bundler.Close(context.WithoutCancel(ctx)) }()

	build := func(ctx context.Context) error {
		text, err := rt.Bundler.BundleComponent(ctx, entry)
		if err != nil {
			return err
		}
		return writeBundle(g.stdout(), b.Output, text)
	}

	if !b.Watch {
		return build(ctx)
	}
	if err := build(ctx); err != nil {
		slog.Error("Initial build failed", logfields.EntryPath(entry), logfields.Error(err))
	}
	w, err := watch.New(filepath.Dir(entry), watch.DefaultDebounce, build)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch component sources").Build()
	}
	return w.Run(ctx)
}

func (b *BundleCmd) mode() (config.ProcessMode, error) {
	if b.Watch {
		if b.Mode != "" && config.NormalizeMode(b.Mode).IsProduction() {
			slog.Warn("--watch forces development mode; ignoring --mode", "mode", b.Mode)
		}
		return config.ModeDevelopment, nil
	}
	if b.Mode == "" {
		return "", nil
	}
	mode, err := config.ParseMode(b.Mode)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --mode").Build()
	}
	return mode, nil
}

// writeBundle writes text to path, or to stdout when path is empty or "-".
func writeBundle(stdout io.Writer, path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write bundle").
			WithContext("path", path).
			Build()
	}
	slog.Info("Bundle written", "path", path, logfields.Bytes(len(text)))
	return nil
}


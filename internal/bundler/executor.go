package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/config"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/metrics"
	"git.home.luguber.info/inful/uibundler/internal/observability"
)

// Result is one fully materialized bundle.
type Result struct {
	Text     string
	Variant  backend.Variant
	Duration time.Duration
}

// Executor runs exactly one build against the resolved backend. It never
// touches the cache.
type Executor struct {
	resolver *Resolver
	mode     config.ProcessMode
	target   string
	recorder metrics.Recorder
}

// NewExecutor returns an executor minifying in production mode.
func NewExecutor(resolver *Resolver, mode config.ProcessMode, target string, rec metrics.Recorder) *Executor {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Executor{resolver: resolver, mode: mode, target: target, recorder: rec}
}

// Options returns the fixed build configuration for entryPath, which must
// already be absolute.
func (e *Executor) Options(entryPath string) backend.Options {
	return backend.Options{
		Minify:     e.mode.IsProduction(),
		Target:     backend.TargetOrDefault(e.target),
		WorkingDir: filepath.Dir(entryPath),
	}
}

// Build compiles entryPath. A relative path is taken relative to the process
// working directory. Backend failures come back as *CompileError; resolution
// failures and cancellation are returned unchanged.
func (e *Executor) Build(ctx context.Context, entryPath string) (*Result, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, &CompileError{EntryPath: entryPath, Message: err.Error(), Err: err}
	}

	h, err := e.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	variant := logfields.Variant(string(h.Variant))
	phase := observability.StartPhase(ctx, "compile", logfields.EntryPath(absEntry), variant)
	out, err := h.Backend.Compile(ctx, absEntry, e.Options(absEntry))
	d := phase.End(err)
	e.recorder.ObserveBuildDuration(string(h.Variant), d)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("bundle %s: %w", entryPath, ctxErr)
		}
		return nil, &CompileError{
			EntryPath: entryPath,
			Message:   err.Error(),
			Variant:   h.Variant,
			Err:       err,
			handle:    h,
		}
	}
	for _, w := range out.Warnings {
		observability.WarnContext(ctx, "Compiler warning", logfields.EntryPath(entryPath), variant,
			slog.String("warning", w))
	}
	return &Result{Text: out.Text, Variant: h.Variant, Duration: d}, nil
}

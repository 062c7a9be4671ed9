// Package native runs builds through the esbuild executable.
package native

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
)

// DefaultBinary is looked up on PATH when no binary is configured.
const DefaultBinary = "esbuild"

// waitDelay bounds how long Wait blocks on output pipes held open by
// orphaned children after the process itself exited or was killed.
const waitDelay = 2 * time.Second

var (
	// ErrServiceStopped reports a compiler process killed before it finished.
	ErrServiceStopped = errors.New("the service was stopped")
	// ErrNotRunning reports use of a backend after Shutdown.
	ErrNotRunning = errors.New("the service is no longer running")
	// ErrBinaryNotFound reports a missing or vanished executable.
	ErrBinaryNotFound = errors.New("esbuild binary could not be found")
)

// Backend spawns one esbuild process per compile and tracks in-flight
// processes so Shutdown can release them.
type Backend struct {
	binary string

	mu      sync.Mutex
	running map[*exec.Cmd]struct{}
	stopped bool
}

// New returns a native backend for binary (a PATH name or a file path).
func New(binary string) *Backend {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Backend{binary: binary, running: make(map[*exec.Cmd]struct{})}
}

// Factory adapts New to backend.Factory.
func Factory(binary string) backend.Factory {
	return func() backend.Backend { return New(binary) }
}

func (b *Backend) Variant() backend.Variant { return backend.VariantNative }

// Verify pipes a one-line module through esbuild on stdin.
func (b *Backend) Verify(ctx context.Context) error {
	out, err := b.run(ctx, "", strings.NewReader(backend.SmokeSource),
		"--format=iife", "--log-level=error")
	if err != nil {
		return fmt.Errorf("native smoke compile: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return errors.New("native smoke compile produced no output")
	}
	return nil
}

// Compile runs one bundle. The subprocess runs in opts.WorkingDir, so a
// relative entryPath is made absolute first.
func (b *Backend) Compile(ctx context.Context, entryPath string, opts backend.Options) (*backend.Output, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, fmt.Errorf("resolve entry path: %w", err)
	}
	out, err := b.run(ctx, opts.WorkingDir, nil, Args(absEntry, opts)...)
	if err != nil {
		return nil, err
	}
	return &backend.Output{Text: string(out)}, nil
}

// Shutdown kills in-flight processes and refuses further work.
func (b *Backend) Shutdown(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	for cmd := range b.running {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
	return nil
}

// Args builds the esbuild command line for one entry.
func Args(entryPath string, opts backend.Options) []string {
	args := []string{
		entryPath,
		"--bundle",
		"--format=iife",
		"--target=" + backend.TargetOrDefault(opts.Target),
		"--jsx=automatic",
		"--loader:.tsx=tsx",
		"--loader:.ts=ts",
	}
	if opts.Minify {
		args = append(args, "--minify")
	}
	return append(args, "--log-level=error")
}

func (b *Backend) run(ctx context.Context, dir string, stdin *strings.Reader, args ...string) ([]byte, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, ErrNotRunning
	}
	path, err := exec.LookPath(b.binary)
	if err != nil {
		b.mu.Unlock()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrBinaryNotFound, b.binary)
		}
		return nil, fmt.Errorf("esbuild binary %q is not executable: %w", b.binary, err)
	}

	// #nosec G204 -- path comes from exec.LookPath on the configured binary
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		b.mu.Unlock()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrBinaryNotFound, b.binary)
		}
		return nil, fmt.Errorf("failed to start esbuild: %w", err)
	}
	b.running[cmd] = struct{}{}
	b.mu.Unlock()

	waitErr := cmd.Wait()

	b.mu.Lock()
	delete(b.running, cmd)
	stopped := b.stopped
	b.mu.Unlock()

	if waitErr == nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			slog.Debug("esbuild stderr", "output", msg)
		}
		return stdout.Bytes(), nil
	}
	return nil, classifyExit(ctx, waitErr, stopped, stderr.String())
}

// classifyExit turns a failed process into an error. Context cancellation is
// checked first so a caller's deadline never reads as a dead service.
func classifyExit(ctx context.Context, err error, stopped bool, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("esbuild interrupted: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == -1 {
		return fmt.Errorf("%w: %w", ErrServiceStopped, err)
	}
	if stopped {
		return fmt.Errorf("%w: %w", ErrServiceStopped, err)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("esbuild failed: %w", err)
}

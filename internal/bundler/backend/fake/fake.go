// Package fake provides a scripted backend for tests.
package fake

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
)

// Step is the scripted outcome of one Compile call.
type Step struct {
	Text string
	Err  error
}

// Backend replays Steps in order; the last step repeats once the script is
// exhausted. Without steps every compile returns "bundle:<entryPath>".
type Backend struct {
	variant backend.Variant

	mu        sync.Mutex
	verifyErr error
	steps     []Step
	hold      <-chan struct{}
	textFn    func(entryPath string) string
	compiles  int
	verifies  int
	shutdowns int
	lastOpts  backend.Options
}

// New returns a fake backend reporting variant.
func New(variant backend.Variant, steps ...Step) *Backend {
	return &Backend{variant: variant, steps: steps}
}

// FailVerify makes every Verify return err.
func (b *Backend) FailVerify(err error) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verifyErr = err
	return b
}

// Hold blocks every Compile until ch is closed or the context ends.
func (b *Backend) Hold(ch <-chan struct{}) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hold = ch
	return b
}

// WithText computes successful output from the entry path at call time.
func (b *Backend) WithText(fn func(entryPath string) string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.textFn = fn
	return b
}

// Factory always hands out this same instance, which lets tests count calls
// across resolver resets.
func (b *Backend) Factory() backend.Factory {
	return func() backend.Backend { return b }
}

func (b *Backend) Variant() backend.Variant { return b.variant }

func (b *Backend) Verify(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verifies++
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.verifyErr
}

func (b *Backend) Compile(ctx context.Context, entryPath string, opts backend.Options) (*backend.Output, error) {
	b.mu.Lock()
	idx := b.compiles
	b.compiles++
	b.lastOpts = opts
	hold := b.hold
	textFn := b.textFn
	var step Step
	switch {
	case len(b.steps) == 0:
	case idx < len(b.steps):
		step = b.steps[idx]
	default:
		step = b.steps[len(b.steps)-1]
	}
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if step.Err != nil {
		return nil, step.Err
	}
	text := step.Text
	if text == "" {
		if textFn != nil {
			text = textFn(entryPath)
		} else {
			text = "bundle:" + entryPath
		}
	}
	return &backend.Output{Text: text}, nil
}

func (b *Backend) Shutdown(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdowns++
	return nil
}

func (b *Backend) CompileCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.compiles
}

func (b *Backend) VerifyCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verifies
}

func (b *Backend) ShutdownCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdowns
}

// LastOptions returns the options of the most recent Compile.
func (b *Backend) LastOptions() backend.Options {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOpts
}

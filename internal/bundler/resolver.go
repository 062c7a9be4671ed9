package bundler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/metrics"
	"git.home.luguber.info/inful/uibundler/internal/observability"
)

// DefaultVerifyTimeout bounds one smoke compile.
const DefaultVerifyTimeout = 10 * time.Second

// Handle is an immutable reference to a verified backend. A new Handle with a
// higher Generation replaces it after a reset; holders of an old Handle keep a
// consistent view and simply fail against the dead backend.
type Handle struct {
	Variant    backend.Variant
	Verified   bool
	Backend    backend.Backend
	Generation uint64
}

// Resolver selects and memoizes one working backend. All probing happens
// under a single lock so concurrent cold starts run one smoke compile.
type Resolver struct {
	native        backend.Factory
	portable      backend.Factory
	verifyTimeout time.Duration
	recorder      metrics.Recorder

	mu         sync.Mutex
	current    *Handle
	generation uint64
	// nativeErr is sticky: once native fails its probe it is never retried.
	nativeErr error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithVerifyTimeout bounds each smoke compile. Zero disables the bound.
func WithVerifyTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.verifyTimeout = d }
}

// WithResolverRecorder reports resolutions to rec.
func WithResolverRecorder(rec metrics.Recorder) ResolverOption {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewResolver returns a resolver probing native first. A nil native factory
// disables the native variant.
func NewResolver(native, portable backend.Factory, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		native:        native,
		portable:      portable,
		verifyTimeout: DefaultVerifyTimeout,
		recorder:      metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the memoized handle, probing backends on first use or after
// a reset. It fails with *BackendUnavailableError when no backend verifies.
func (r *Resolver) Resolve(ctx context.Context) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.Verified {
		return r.current, nil
	}

	nativeErr := r.nativeErr
	switch {
	case r.native == nil:
		nativeErr = errNativeDisabled
	case nativeErr == nil:
		b := r.native()
		err := r.verify(ctx, b)
		if err == nil {
			return r.install(ctx, b), nil
		}
		_ = b.Shutdown(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.nativeErr = err
		nativeErr = err
		observability.WarnContext(ctx, "Native compiler backend unusable, falling back to portable",
			logfields.Error(err))
	}

	if r.portable == nil {
		return nil, &BackendUnavailableError{Native: nativeErr, Portable: errPortableMissing}
	}
	p := r.portable()
	if err := r.verify(ctx, p); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		observability.ErrorContext(ctx, "Portable compiler backend unusable", logfields.Error(err))
		return nil, &BackendUnavailableError{Native: nativeErr, Portable: err}
	}
	return r.install(ctx, p), nil
}

// Current returns the memoized handle without probing, or nil.
func (r *Resolver) Current() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reset clears the memoized handle so the next Resolve probes again. The
// sticky native failure survives a reset.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Invalidate resets only if h is still the current handle, so two recoveries
// racing on the same dead backend produce a single re-probe.
func (r *Resolver) Invalidate(h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil || r.current != h {
		return false
	}
	r.current = nil
	return true
}

func (r *Resolver) verify(ctx context.Context, b backend.Backend) error {
	if r.verifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.verifyTimeout)
		defer cancel()
	}
	phase := observability.StartPhase(ctx, "verify", logfields.Variant(string(b.Variant())))
	err := b.Verify(ctx)
	phase.End(err)
	return err
}

func (r *Resolver) install(ctx context.Context, b backend.Backend) *Handle {
	r.generation++
	h := &Handle{
		Variant:    b.Variant(),
		Verified:   true,
		Backend:    b,
		Generation: r.generation,
	}
	r.current = h
	r.recorder.IncBackendResolution(string(h.Variant))
	observability.InfoContext(ctx, "Compiler backend resolved",
		logfields.Variant(string(h.Variant)),
		logfields.Generation(h.Generation),
		slog.Bool("native_sticky_failure", r.nativeErr != nil))
	return h
}

package bundler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/uibundler/internal/config"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/metrics"
	"git.home.luguber.info/inful/uibundler/internal/observability"
)

// DefaultFlightTimeout bounds a shared build that no single caller owns.
const DefaultFlightTimeout = 2 * time.Minute

// Bundler is the public entry point composing cache, executor, resolver and
// recovery.
type Bundler struct {
	mode     config.ProcessMode
	target   string
	cache    Cache
	recorder metrics.Recorder
	dedup    bool

	flightTimeout time.Duration

	resolver *Resolver
	executor *Executor
	recovery *Recovery
	flights  singleflight.Group
}

// Option configures a Bundler.
type Option func(*Bundler)

// WithMode sets the process mode. The default is development.
func WithMode(m config.ProcessMode) Option {
	return func(b *Bundler) { b.mode = m }
}

// WithTarget sets the syntax target passed to every build.
func WithTarget(t string) Option {
	return func(b *Bundler) { b.target = t }
}

// WithCache replaces the default MemoryCache.
func WithCache(c Cache) Option {
	return func(b *Bundler) {
		if c != nil {
			b.cache = c
		}
	}
}

// WithRecorder reports bundle metrics to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Bundler) {
		if rec != nil {
			b.recorder = rec
		}
	}
}

// WithDedup coalesces concurrent production builds of the same entry path
// into one backend invocation. The shared build is detached from every
// caller's cancellation and bounded by the flight timeout instead; a caller
// whose context ends stops waiting without affecting the others.
func WithDedup(enabled bool) Option {
	return func(b *Bundler) { b.dedup = enabled }
}

// WithFlightTimeout bounds a deduplicated build. Zero or negative keeps
// DefaultFlightTimeout.
func WithFlightTimeout(d time.Duration) Option {
	return func(b *Bundler) {
		if d > 0 {
			b.flightTimeout = d
		}
	}
}

// New returns a Bundler driving resolver.
func New(resolver *Resolver, opts ...Option) *Bundler {
	b := &Bundler{
		mode:     config.ModeDevelopment,
		cache:    NewMemoryCache(),
		recorder: metrics.NoopRecorder{},
		resolver: resolver,

		flightTimeout: DefaultFlightTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.executor = NewExecutor(resolver, b.mode, b.target, b.recorder)
	b.recovery = NewRecovery(b.executor, resolver, b.recorder)
	return b
}

// Mode reports the process mode fixed at construction.
func (b *Bundler) Mode() config.ProcessMode { return b.mode }

// Resolver returns the resolver shared by every build.
func (b *Bundler) Resolver() *Resolver { return b.resolver }

// BundleComponent returns the bundle text for entryPath. In production a
// cached bundle is returned without touching the executor or resolver, and
// fresh bundles are stored. Development always recompiles.
func (b *Bundler) BundleComponent(ctx context.Context, entryPath string) (string, error) {
	ctx = observability.WithBuildID(ctx, uuid.NewString())

	if !b.mode.IsProduction() {
		text, err := b.build(ctx, entryPath)
		return b.finish(ctx, entryPath, text, err)
	}

	if text, ok := b.cache.Get(entryPath); ok {
		b.recorder.IncCacheHit()
		observability.DebugContext(ctx, "Bundle cache hit", logfields.EntryPath(entryPath), logfields.Cache("hit"))
		return text, nil
	}
	b.recorder.IncCacheMiss()

	if !b.dedup {
		text, err := b.build(ctx, entryPath)
		return b.finish(ctx, entryPath, text, err)
	}
	ch := b.flights.DoChan(entryPath, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.flightTimeout)
		defer cancel()
		return b.build(flightCtx, entryPath)
	})
	select {
	case <-ctx.Done():
		return b.finish(ctx, entryPath, "", ctx.Err())
	case res := <-ch:
		if res.Shared {
			observability.DebugContext(ctx, "Joined in-flight build", logfields.EntryPath(entryPath))
		}
		if res.Err != nil {
			return b.finish(ctx, entryPath, "", res.Err)
		}
		return b.finish(ctx, entryPath, res.Val.(string), nil)
	}
}

// Close releases the current backend, if any.
func (b *Bundler) Close(ctx context.Context) error {
	if h := b.resolver.Current(); h != nil {
		return h.Backend.Shutdown(ctx)
	}
	return nil
}

func (b *Bundler) build(ctx context.Context, entryPath string) (string, error) {
	res, err := b.recovery.Build(ctx, entryPath)
	if err != nil {
		return "", err
	}
	if b.mode.IsProduction() {
		b.cache.Set(entryPath, res.Text)
	}
	b.recorder.SetBundleBytes(entryPath, len(res.Text))
	observability.InfoContext(ctx, "Bundle built",
		logfields.EntryPath(entryPath),
		logfields.Variant(string(res.Variant)),
		logfields.Bytes(len(res.Text)),
		logfields.Duration(res.Duration),
		logfields.Mode(string(b.mode)))
	return res.Text, nil
}

func (b *Bundler) finish(ctx context.Context, entryPath, text string, err error) (string, error) {
	b.recorder.IncBuildOutcome(outcomeOf(err))
	if err != nil {
		observability.WarnContext(ctx, "Bundle failed", logfields.EntryPath(entryPath), logfields.Error(err))
		return "", err
	}
	return text, nil
}

func outcomeOf(err error) metrics.OutcomeLabel {
	var unavailable *BackendUnavailableError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &unavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeCompile
	}
}

package bundler

import (
	"context"
	"errors"
	"strings"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/logfields"
	"git.home.luguber.info/inful/uibundler/internal/metrics"
	"git.home.luguber.info/inful/uibundler/internal/observability"
)

// TransientSignatures are the case-sensitive fragments of error text that mean
// the native compiler process went away. The phrasing belongs to the backend
// and may drift across esbuild releases; update it here and nowhere else.
var TransientSignatures = []string{
	"service was stopped",
	"service is no longer running",
	"could not be found",
}

// IsTransientBackendFailure reports whether err from a backend of the given
// variant is a dead-process failure worth one restart. Anything unmatched is
// permanent. Cancellation and deadlines are never transient.
func IsTransientBackendFailure(variant backend.Variant, err error) bool {
	if err == nil || variant != backend.VariantNative {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := err.Error()
	for _, sig := range TransientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Recovery wraps an Executor with the restart-and-retry-once protocol.
type Recovery struct {
	executor *Executor
	resolver *Resolver
	recorder metrics.Recorder
}

// NewRecovery returns a recovery policy around executor.
func NewRecovery(executor *Executor, resolver *Resolver, rec metrics.Recorder) *Recovery {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Recovery{executor: executor, resolver: resolver, recorder: rec}
}

// Build runs one build. On a transient native failure it shuts the dead
// backend down, invalidates its handle, re-resolves and retries exactly once;
// the retry's outcome is returned as is.
func (r *Recovery) Build(ctx context.Context, entryPath string) (*Result, error) {
	res, err := r.executor.Build(ctx, entryPath)
	if err == nil {
		return res, nil
	}

	var ce *CompileError
	if !errors.As(err, &ce) || !IsTransientBackendFailure(ce.Variant, ce.Err) {
		return nil, err
	}

	observability.WarnContext(ctx, "Transient compiler backend failure, restarting backend",
		logfields.EntryPath(entryPath),
		logfields.Variant(string(ce.Variant)),
		logfields.Error(ce.Err))
	r.recorder.IncTransientRetry()

	if h := ce.handle; h != nil {
		if serr := h.Backend.Shutdown(ctx); serr != nil {
			observability.DebugContext(ctx, "Backend shutdown after crash failed", logfields.Error(serr))
		}
		r.resolver.Invalidate(h)
	} else {
		r.resolver.Reset()
	}

	res, err = r.executor.Build(ctx, entryPath)
	if err != nil {
		observability.ErrorContext(ctx, "Retry after backend restart failed",
			logfields.EntryPath(entryPath), logfields.Attempt(2), logfields.Error(err))
		return nil, err
	}
	observability.InfoContext(ctx, "Retry after backend restart succeeded",
		logfields.EntryPath(entryPath), logfields.Attempt(2), logfields.Variant(string(res.Variant)))
	return res, nil
}

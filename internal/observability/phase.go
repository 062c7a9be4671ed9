package observability

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/uibundler/internal/logfields"
)

// Phase times one step of a bundle request (resolve, compile, recover) and
// logs its outcome at debug level when ended.
type Phase struct {
	ctx   context.Context
	name  string
	start time.Time
	attrs []slog.Attr
}

// StartPhase begins timing a named phase.
func StartPhase(ctx context.Context, name string, attrs ...slog.Attr) *Phase {
	DebugContext(ctx, "phase started", append([]slog.Attr{slog.String("phase", name)}, attrs...)...)
	return &Phase{ctx: ctx, name: name, start: time.Now(), attrs: attrs}
}

// Set attaches an attribute reported when the phase ends.
func (p *Phase) Set(attr slog.Attr) {
	p.attrs = append(p.attrs, attr)
}

// End logs the phase duration and returns it. A non-nil err is attached.
func (p *Phase) End(err error) time.Duration {
	d := time.Since(p.start)
	attrs := append([]slog.Attr{slog.String("phase", p.name), logfields.Duration(d)}, p.attrs...)
	if err != nil {
		attrs = append(attrs, logfields.Error(err))
	}
	DebugContext(p.ctx, "phase ended", attrs...)
	return d
}

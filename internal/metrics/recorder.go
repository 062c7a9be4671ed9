package metrics

import "time"

// OutcomeLabel enumerates terminal bundle outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess     OutcomeLabel = "success"
	OutcomeCompile     OutcomeLabel = "compile_error"
	OutcomeUnavailable OutcomeLabel = "backend_unavailable"
	OutcomeCanceled    OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for bundling. All methods must be safe
// to call concurrently.
type Recorder interface {
	ObserveBuildDuration(variant string, d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	IncCacheHit()
	IncCacheMiss()
	IncBackendResolution(variant string)
	IncTransientRetry()
	SetBundleBytes(entry string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel) {}
func (NoopRecorder) IncCacheHit() {}
func (NoopRecorder) IncCacheMiss() {}
func (NoopRecorder) IncBackendResolution(string) {}
func (NoopRecorder) IncTransientRetry() {}
func (NoopRecorder) SetBundleBytes(string, int) {}

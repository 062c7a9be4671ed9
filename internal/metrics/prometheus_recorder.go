package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "uibundler"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration *prom.HistogramVec
	buildOutcome  *prom.CounterVec
	cacheLookups  *prom.CounterVec
	resolutions   *prom.CounterVec
	retries       prom.Counter
	bundleBytes   *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the bundler metrics on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a single compiler invocation by backend variant",
			Buckets:   prom.DefBuckets,
		}, []string{"variant"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bundle_outcomes_total",
			Help:      "Bundle requests by final outcome",
		}, []string{"outcome"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Bundle cache lookups by result",
		}, []string{"result"}),
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "backend_resolutions_total",
			Help:      "Successful backend resolutions by variant",
		}, []string{"variant"}),
		retries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transient_retries_total",
			Help:      "Builds retried after a transient native backend failure",
		}),
		bundleBytes: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "bundle_bytes",
			Help:      "Size of the last produced bundle per entry",
		}, []string{"entry"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.cacheLookups, pr.resolutions, pr.retries, pr.bundleBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(variant string, d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(variant).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues("hit").Inc()
}

func (p *PrometheusRecorder) IncCacheMiss() {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues("miss").Inc()
}

func (p *PrometheusRecorder) IncBackendResolution(variant string) {
	if p == nil {
		return
	}
	p.resolutions.WithLabelValues(variant).Inc()
}

func (p *PrometheusRecorder) IncTransientRetry() {
	if p == nil {
		return
	}
	p.retries.Inc()
}

func (p *PrometheusRecorder) SetBundleBytes(entry string, n int) {
	if p == nil {
		return
	}
	p.bundleBytes.WithLabelValues(entry).Set(float64(n))
}

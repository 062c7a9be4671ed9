// Package metrics provides the observability hooks for component bundling.
//
// Components receive a Recorder through dependency injection. The default is
// NoopRecorder, so callers never need nil checks:
//
//	b := bundler.New(resolver, bundler.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled the service wires a PrometheusRecorder registered on
// a dedicated registry and exposes it through HTTPHandler on /metrics.
package metrics

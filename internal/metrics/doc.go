// Package metrics provides observability hooks for book render metrics.
//
// The package implements the Null Object pattern: components hold a Recorder
// and default to NoopRecorder, so metrics can be enabled by injecting a real
// implementation without touching call sites or adding nil checks.
//
// Components receive a Recorder through dependency injection:
//
//	renderer := book.NewRenderer(outDir).SetRecorder(metrics.NewPrometheusRecorder(registry))
//
// The watch command wires a PrometheusRecorder and serves the registry over
// HTTP via NewServer when a metrics address is configured.
package metrics

package config

import (
	"time"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/metrics"
	prometheusmetrics "github.com/prebid/vast-player/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	gometrics "github.com/rcrowley/go-metrics"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *config.Configuration) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	if cfg.Metrics.GoMetrics.Enabled {
		returnEngine.GoMetricsRegistry = gometrics.NewPrefixedRegistry(cfg.Metrics.GoMetrics.Prefix)
		returnEngine.GoMetrics = metrics.NewMetrics(returnEngine.GoMetricsRegistry)
		engineList = append(engineList, returnEngine.GoMetrics)
	}
	if cfg.Metrics.Prometheus.Enabled {
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else if len(engineList) == 1 {
		returnEngine.MetricsEngine = engineList[0]
	} else {
		returnEngine.MetricsEngine = &DummyMetricsEngine{}
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetricsRegistry gometrics.Registry
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// PrometheusRegistry is the registry to serve on /metrics, or nil when Prometheus is off.
func (e *DetailedMetricsEngine) PrometheusRegistry() *prometheus.Registry {
	if e.PrometheusMetrics == nil {
		return nil
	}
	return e.PrometheusMetrics.Registry
}

// MultiMetricsEngine logs metrics to multiple metrics databases The can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordManifestFetch across all engines
func (me *MultiMetricsEngine) RecordManifestFetch(status metrics.FetchStatus, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordManifestFetch(status, length)
	}
}

// RecordPlayerLoad across all engines
func (me *MultiMetricsEngine) RecordPlayerLoad(variant string, status metrics.LoadStatus) {
	for _, thisME := range *me {
		thisME.RecordPlayerLoad(variant, status)
	}
}

// RecordPixelFired across all engines
func (me *MultiMetricsEngine) RecordPixelFired(event string) {
	for _, thisME := range *me {
		thisME.RecordPixelFired(event)
	}
}

// DummyMetricsEngine is a Noop metrics engine in case no metrics are configured. (may also be useful for tests)
type DummyMetricsEngine struct{}

// RecordManifestFetch as a noop
func (me *DummyMetricsEngine) RecordManifestFetch(status metrics.FetchStatus, length time.Duration) {
}

// RecordPlayerLoad as a noop
func (me *DummyMetricsEngine) RecordPlayerLoad(variant string, status metrics.LoadStatus) {
}

// RecordPixelFired as a noop
func (me *DummyMetricsEngine) RecordPixelFired(event string) {
}

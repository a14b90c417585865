package metrics

import "time"

// NilMetricsEngine implements MetricsEngine and records nothing. Use it when no metrics
// backend is configured.
type NilMetricsEngine struct{}

func NewNilMetricsEngine() *NilMetricsEngine {
	return &NilMetricsEngine{}
}

func (me *NilMetricsEngine) RecordManifestFetch(status FetchStatus, length time.Duration) {}

func (me *NilMetricsEngine) RecordPlayerLoad(variant string, status LoadStatus) {}

func (me *NilMetricsEngine) RecordPixelFired(event string) {}

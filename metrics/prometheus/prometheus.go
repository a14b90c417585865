package prometheusmetrics

import (
	"strconv"
	"time"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	manifestFetches   *prometheus.CounterVec
	manifestFetchTime *prometheus.HistogramVec
	playerLoads       *prometheus.CounterVec
	pixelsFired       *prometheus.CounterVec
}

const (
	eventLabel   = "event"
	successLabel = "success"
	variantLabel = "variant"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	fetchTimeBuckets := []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 2, 5}
	variants := metrics.Variants()

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.manifestFetches = newCounter(cfg, metrics.Registry,
		"manifest_fetches",
		"Count of VAST tag fetches labeled by success or failure, wrapper hops included.",
		[]string{successLabel})

	metrics.manifestFetchTime = newHistogramVec(cfg, metrics.Registry,
		"manifest_fetch_time_seconds",
		"Seconds to fetch and parse a VAST tag labeled by success or failure.",
		[]string{successLabel},
		fetchTimeBuckets)

	metrics.playerLoads = newCounter(cfg, metrics.Registry,
		"player_loads",
		"Count of ads loaded into a player backend labeled by backend and success or failure.",
		[]string{variantLabel, successLabel})

	metrics.pixelsFired = newCounter(cfg, metrics.Registry,
		"pixels_fired",
		"Count of tracking pixels fired labeled by the VAST event they report.",
		[]string{eventLabel})

	// known series start at zero instead of appearing on first use
	for _, success := range []string{"true", "false"} {
		metrics.manifestFetches.WithLabelValues(success)
		metrics.manifestFetchTime.WithLabelValues(success)
		for _, variant := range variants {
			metrics.playerLoads.WithLabelValues(variant, success)
		}
	}

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordManifestFetch(status metrics.FetchStatus, length time.Duration) {
	success := strconv.FormatBool(status == metrics.FetchStatusOK)
	m.manifestFetches.With(prometheus.Labels{
		successLabel: success,
	}).Inc()
	m.manifestFetchTime.With(prometheus.Labels{
		successLabel: success,
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordPlayerLoad(variant string, status metrics.LoadStatus) {
	m.playerLoads.With(prometheus.Labels{
		variantLabel: variant,
		successLabel: strconv.FormatBool(status == metrics.LoadStatusOK),
	}).Inc()
}

func (m *Metrics) RecordPixelFired(event string) {
	m.pixelsFired.With(prometheus.Labels{
		eventLabel: event,
	}).Inc()
}

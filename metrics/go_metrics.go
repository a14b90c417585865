package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics implementation of MetricsEngine.
type Metrics struct {
	MetricsRegistry metrics.Registry
	FetchTimer      metrics.Timer
	FetchMeters     map[FetchStatus]metrics.Meter
	LoadMeters      map[string]map[LoadStatus]metrics.Meter

	// pixel events come from the manifest, so their meters are registered on first use
	pixelMeters        map[string]metrics.Meter
	pixelMetersRWMutex sync.RWMutex
}

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be
// useful for testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry) *Metrics {
	newMetrics := &Metrics{
		MetricsRegistry: registry,
		FetchTimer:      &metrics.NilTimer{},
		FetchMeters:     make(map[FetchStatus]metrics.Meter),
		LoadMeters:      make(map[string]map[LoadStatus]metrics.Meter),
		pixelMeters:     make(map[string]metrics.Meter),
	}
	for _, status := range FetchStatuses() {
		newMetrics.FetchMeters[status] = &metrics.NilMeter{}
	}
	for _, variant := range Variants() {
		newMetrics.LoadMeters[variant] = make(map[LoadStatus]metrics.Meter)
		for _, status := range LoadStatuses() {
			newMetrics.LoadMeters[variant][status] = &metrics.NilMeter{}
		}
	}
	return newMetrics
}

// NewMetrics creates a new Metrics object with needed metrics defined. Pixel meters are added
// to the registry as events are seen.
func NewMetrics(registry metrics.Registry) *Metrics {
	newMetrics := NewBlankMetrics(registry)
	newMetrics.FetchTimer = metrics.GetOrRegisterTimer("manifest_fetch_time", registry)
	for _, status := range FetchStatuses() {
		newMetrics.FetchMeters[status] = metrics.GetOrRegisterMeter(fmt.Sprintf("manifest_fetches.%s", status), registry)
	}
	for _, variant := range Variants() {
		for _, status := range LoadStatuses() {
			newMetrics.LoadMeters[variant][status] = metrics.GetOrRegisterMeter(fmt.Sprintf("player.%s.loads.%s", variant, status), registry)
		}
	}
	return newMetrics
}

func (me *Metrics) RecordManifestFetch(status FetchStatus, length time.Duration) {
	if meter, ok := me.FetchMeters[status]; ok {
		meter.Mark(1)
	}
	me.FetchTimer.Update(length)
}

func (me *Metrics) RecordPlayerLoad(variant string, status LoadStatus) {
	statuses, ok := me.LoadMeters[variant]
	if !ok {
		return
	}
	if meter, ok := statuses[status]; ok {
		meter.Mark(1)
	}
}

func (me *Metrics) RecordPixelFired(event string) {
	me.getPixelMeter(event).Mark(1)
}

func (me *Metrics) getPixelMeter(event string) metrics.Meter {
	me.pixelMetersRWMutex.RLock()
	meter, ok := me.pixelMeters[event]
	me.pixelMetersRWMutex.RUnlock()
	if ok {
		return meter
	}

	me.pixelMetersRWMutex.Lock()
	defer me.pixelMetersRWMutex.Unlock()
	// Another goroutine may have registered it while we waited for the lock
	if meter, ok = me.pixelMeters[event]; ok {
		return meter
	}
	meter = metrics.GetOrRegisterMeter(fmt.Sprintf("pixels.%s.fired", event), me.MetricsRegistry)
	me.pixelMeters[event] = meter
	return meter
}

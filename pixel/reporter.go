// Package pixel fires the tracking beacons of a VAST ad as its player reports VPAID events.
package pixel

import (
	"sort"

	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/macros"
	"github.com/prebid/vast-player/metrics"
	"github.com/prebid/vast-player/vpaid"
	"github.com/samber/lo"
)

// Beacon groups, named after the VAST elements and <Tracking> events that declare them.
const (
	Impression             = "impression"
	Error                  = "error"
	ClickThrough           = "clickThrough"
	CreativeView           = "creativeView"
	Start                  = "start"
	FirstQuartile          = "firstQuartile"
	Midpoint               = "midpoint"
	ThirdQuartile          = "thirdQuartile"
	Complete               = "complete"
	Mute                   = "mute"
	Unmute                 = "unmute"
	Pause                  = "pause"
	Resume                 = "resume"
	Skip                   = "skip"
	AcceptInvitationLinear = "acceptInvitationLinear"
	Collapse               = "collapse"
	CloseLinear            = "closeLinear"
)

// Pixel is one beacon to fire when Event happens.
type Pixel struct {
	Event string
	URI   string
}

// Host is what a Reporter listens to: a player reporting VPAID events.
type Host interface {
	On(event string, handler emitter.Handler) (off func())
	AdVolume() (float64, error)
}

// Options tune how beacons leave the reporter.
type Options struct {
	// Firer delivers beacons. Defaults to a Firer that drops them.
	Firer Firer
	// MetricsEngine records each fired beacon. Defaults to recording nothing.
	MetricsEngine metrics.MetricsEngine
	// ExpandMacros fills [CACHEBUSTING] and [TIMESTAMP] in every beacon.
	ExpandMacros bool
}

// routes maps the events that fire a group unconditionally.
var routes = []struct {
	event string
	group string
}{
	{vpaid.AdSkipped, Skip},
	{vpaid.AdStarted, CreativeView},
	{vpaid.AdImpression, Impression},
	{vpaid.AdVideoStart, Start},
	{vpaid.AdVideoFirstQuartile, FirstQuartile},
	{vpaid.AdVideoMidpoint, Midpoint},
	{vpaid.AdVideoThirdQuartile, ThirdQuartile},
	{vpaid.AdVideoComplete, Complete},
	{vpaid.AdClickThru, ClickThrough},
	{vpaid.AdUserAcceptInvitation, AcceptInvitationLinear},
	{vpaid.AdUserMinimize, Collapse},
	{vpaid.AdUserClose, CloseLinear},
	{vpaid.AdPaused, Pause},
	{vpaid.AdPlaying, Resume},
}

// Reporter holds the beacons of one ad, grouped by event. The groups never change after
// construction.
type Reporter struct {
	pixels    map[string][]string
	mapper    func(uri string) string
	firer     Firer
	metrics   metrics.MetricsEngine
	processor macros.Processor
	standard  macros.Provider
}

// NewReporter groups pixels by event, keeping their order within each group. mapper rewrites
// every URI right before it is fired; nil leaves URIs as they are.
func NewReporter(pixels []Pixel, mapper func(uri string) string, opts Options) *Reporter {
	grouped := lo.GroupBy(pixels, func(pixel Pixel) string {
		return pixel.Event
	})

	reporter := &Reporter{
		pixels: lo.MapValues(grouped, func(group []Pixel, _ string) []string {
			return lo.Map(group, func(pixel Pixel, _ int) string {
				return pixel.URI
			})
		}),
		mapper:    mapper,
		firer:     opts.Firer,
		metrics:   opts.MetricsEngine,
		processor: macros.NewProcessor(),
	}
	if reporter.mapper == nil {
		reporter.mapper = func(uri string) string { return uri }
	}
	if reporter.firer == nil {
		reporter.firer = FirerFunc(func(event, uri string) {})
	}
	if reporter.metrics == nil {
		reporter.metrics = metrics.NewNilMetricsEngine()
	}
	if opts.ExpandMacros {
		reporter.standard = macros.NewStandardProvider()
	}
	return reporter
}

// Pixels returns the URIs of one group, as declared.
func (r *Reporter) Pixels(event string) []string {
	return r.pixels[event]
}

// Events returns the groups holding at least one URI, sorted.
func (r *Reporter) Events() []string {
	events := lo.Keys(r.pixels)
	sort.Strings(events)
	return events
}

// Track fires beacons as host reports events, until the returned function is called.
func (r *Reporter) Track(host Host) (untrack func()) {
	var offs []func()
	on := func(event string, handler emitter.Handler) {
		offs = append(offs, host.On(event, handler))
	}

	for _, route := range routes {
		group := route.group
		on(route.event, func(args ...any) {
			r.fire(group, nil)
		})
	}

	errorCode := macros.StaticProvider{macros.MacroKeyErrorCode: macros.ErrorCodeUndefined}
	on(vpaid.AdError, func(args ...any) {
		r.fire(Error, errorCode)
	})

	lastVolume, _ := host.AdVolume()
	on(vpaid.AdVolumeChange, func(args ...any) {
		volume, err := host.AdVolume()
		if err != nil {
			return
		}
		switch {
		case lastVolume > 0 && volume == 0:
			r.fire(Mute, nil)
		case lastVolume == 0 && volume > 0:
			r.fire(Unmute, nil)
		}
		lastVolume = volume
	})

	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// fire sends every URI of group, after substituting what provider knows.
func (r *Reporter) fire(group string, provider macros.Provider) {
	uris := r.pixels[group]
	if len(uris) == 0 {
		return
	}

	var providers []macros.Provider
	if provider != nil {
		providers = append(providers, provider)
	}
	if r.standard != nil {
		providers = append(providers, r.standard)
	}

	for _, uri := range uris {
		if len(providers) > 0 {
			uri = r.processor.Replace(uri, macros.Chain(providers...))
		}
		r.firer.Fire(group, r.mapper(uri))
		r.metrics.RecordPixelFired(group)
	}
}

package domtest

import (
	"sync"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/vpaid"
)

// InitCall records the arguments of InitAd.
type InitCall struct {
	Width           float64
	Height          float64
	ViewMode        string
	DesiredBitrate  int
	CreativeData    dom.CreativeData
	EnvironmentVars dom.EnvironmentVars
}

// ResizeCall records the arguments of ResizeAd.
type ResizeCall struct {
	Width    float64
	Height   float64
	ViewMode string
}

// AdUnit is an in-memory VPAID ad unit. It answers every command with its confirmation
// event unless Silent is set, and reports AdLoaded from InitAd unless InitError is set.
type AdUnit struct {
	subscriptions *emitter.Emitter
	deliver       func(event string, args ...any)

	mu            sync.Mutex
	calls         []string
	inits         []InitCall
	resizes       []ResizeCall
	volume        float64
	Version       string
	InitError     string
	Silent        bool
	Linear        bool
	Width         float64
	Height        float64
	Expanded      bool
	Skippable     bool
	RemainingTime float64
	AdDuration    float64
	Companions    string
	Icons         bool
}

// NewAdUnit returns a VPAID 2.0 ad unit.
func NewAdUnit() *AdUnit {
	a := &AdUnit{
		subscriptions: emitter.New(),
		Version:       "2.0",
		volume:        1,
		Linear:        true,
		Width:         640,
		Height:        360,
		RemainingTime: 15,
		AdDuration:    30,
	}
	a.deliver = func(event string, args ...any) { a.subscriptions.Emit(event, args...) }
	return a
}

// Fire reports event to whoever the ad unit reports to.
func (a *AdUnit) Fire(event string, args ...any) {
	a.deliver(event, args...)
}

// Calls returns the names of the API methods called so far, in order.
func (a *AdUnit) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// Called reports whether method was called.
func (a *AdUnit) Called(method string) bool {
	for _, call := range a.Calls() {
		if call == method {
			return true
		}
	}
	return false
}

// Inits returns the recorded InitAd calls.
func (a *AdUnit) Inits() []InitCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]InitCall(nil), a.inits...)
}

// Resizes returns the recorded ResizeAd calls.
func (a *AdUnit) Resizes() []ResizeCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ResizeCall(nil), a.resizes...)
}

// SubscriberCount returns how many handlers subscribed to event.
func (a *AdUnit) SubscriberCount(event string) int {
	return a.subscriptions.ListenerCount(event)
}

func (a *AdUnit) record(method string) {
	a.mu.Lock()
	a.calls = append(a.calls, method)
	a.mu.Unlock()
}

func (a *AdUnit) respond(event string) {
	if !a.Silent {
		a.Fire(event)
	}
}

func (a *AdUnit) Subscribe(handler func(args ...any), event string) {
	a.subscriptions.On(event, handler)
}

func (a *AdUnit) HandshakeVersion(playerVersion string) string {
	a.record("handshakeVersion")
	return a.Version
}

func (a *AdUnit) InitAd(width, height float64, viewMode string, desiredBitrate int, creativeData dom.CreativeData, environmentVars dom.EnvironmentVars) {
	a.mu.Lock()
	a.calls = append(a.calls, "initAd")
	a.inits = append(a.inits, InitCall{
		Width:           width,
		Height:          height,
		ViewMode:        viewMode,
		DesiredBitrate:  desiredBitrate,
		CreativeData:    creativeData,
		EnvironmentVars: environmentVars,
	})
	a.mu.Unlock()

	if a.InitError != "" {
		a.Fire(vpaid.AdError, a.InitError)
		return
	}
	a.respond(vpaid.AdLoaded)
}

func (a *AdUnit) StartAd() {
	a.record("startAd")
	a.respond(vpaid.AdStarted)
}

func (a *AdUnit) StopAd() {
	a.record("stopAd")
	a.respond(vpaid.AdStopped)
}

func (a *AdUnit) PauseAd() {
	a.record("pauseAd")
	a.respond(vpaid.AdPaused)
}

func (a *AdUnit) ResumeAd() {
	a.record("resumeAd")
	a.respond(vpaid.AdPlaying)
}

func (a *AdUnit) ResizeAd(width, height float64, viewMode string) {
	a.mu.Lock()
	a.calls = append(a.calls, "resizeAd")
	a.resizes = append(a.resizes, ResizeCall{Width: width, Height: height, ViewMode: viewMode})
	a.mu.Unlock()
	a.respond(vpaid.AdSizeChange)
}

func (a *AdUnit) ExpandAd() {
	a.record("expandAd")
	a.respond(vpaid.AdExpandedChange)
}

func (a *AdUnit) CollapseAd() {
	a.record("collapseAd")
	a.respond(vpaid.AdExpandedChange)
}

func (a *AdUnit) SkipAd() {
	a.record("skipAd")
	a.respond(vpaid.AdSkipped)
}

func (a *AdUnit) GetAdLinear() bool           { return a.Linear }
func (a *AdUnit) GetAdWidth() float64         { return a.Width }
func (a *AdUnit) GetAdHeight() float64        { return a.Height }
func (a *AdUnit) GetAdExpanded() bool         { return a.Expanded }
func (a *AdUnit) GetAdSkippableState() bool   { return a.Skippable }
func (a *AdUnit) GetAdRemainingTime() float64 { return a.RemainingTime }
func (a *AdUnit) GetAdDuration() float64      { return a.AdDuration }
func (a *AdUnit) GetAdCompanions() string     { return a.Companions }
func (a *AdUnit) GetAdIcons() bool            { return a.Icons }

func (a *AdUnit) GetAdVolume() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

func (a *AdUnit) SetAdVolume(volume float64) {
	a.mu.Lock()
	a.calls = append(a.calls, "setAdVolume")
	a.volume = volume
	a.mu.Unlock()
	a.respond(vpaid.AdVolumeChange)
}

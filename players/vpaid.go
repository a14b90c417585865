package players

import (
	"context"
	"fmt"
	"sync"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/vpaid"
)

const notLoadedMessage = "Ad has not been loaded."

// vpaidPlayer proxies the VPAID API of a loaded ad unit. The script and plugin backends embed
// it and differ only in how they obtain the unit and receive its events.
type vpaidPlayer struct {
	*emitter.Emitter
	container dom.Container

	mu      sync.Mutex
	api     dom.AdUnit
	version vpaid.Version
	session *session
}

func newVPAIDPlayer(container dom.Container) vpaidPlayer {
	return vpaidPlayer{
		Emitter:   emitter.New(),
		container: container,
	}
}

// Container returns the element the ad renders into.
func (p *vpaidPlayer) Container() dom.Container {
	return p.container
}

// VPAIDVersion returns the version the ad unit reported during the handshake.
func (p *vpaidPlayer) VPAIDVersion() vpaid.Version {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

func (p *vpaidPlayer) adUnit() (dom.AdUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.api == nil {
		return nil, &errortypes.NotLoaded{Message: notLoadedMessage}
	}
	return p.api, nil
}

// begin starts a new session. Destroy closes the most recent one.
func (p *vpaidPlayer) begin() *session {
	s := newSession()
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	return s
}

// Destroy removes the ad unit without asking it to stop.
func (p *vpaidPlayer) Destroy() {
	p.mu.Lock()
	s := p.session
	p.session = nil
	p.mu.Unlock()
	if s != nil {
		s.close(errStopped())
	}
}

func (p *vpaidPlayer) setAPI(api dom.AdUnit) {
	p.mu.Lock()
	p.api = api
	p.mu.Unlock()
}

// handshake negotiates the API version with unit and closes s if unit needs a newer player.
func (p *vpaidPlayer) handshake(s *session, unit dom.AdUnit) bool {
	version := vpaid.ParseVersion(unit.HandshakeVersion(vpaid.PlayerVersion))
	p.mu.Lock()
	p.version = version
	p.mu.Unlock()

	if !version.Supported() {
		s.close(&errortypes.UnsupportedVersion{
			Message: fmt.Sprintf("VPAID version %s is not supported.", version),
		})
		return false
	}
	return true
}

// watch completes the load of s when unit reports AdLoaded. AdError or AdStopped close s,
// whether they arrive before or after that.
func (p *vpaidPlayer) watch(s *session, unit dom.AdUnit, show func()) {
	s.onClose(func() { p.setAPI(nil) })
	s.onClose(p.Once(vpaid.AdLoaded, func(args ...any) {
		show()
		p.setAPI(unit)
		s.result.settle(nil)
	}))
	s.onClose(p.Once(vpaid.AdError, func(args ...any) {
		s.close(hostFailure(args))
	}))
	s.onClose(p.Once(vpaid.AdStopped, func(args ...any) {
		s.close(errStopped())
	}))
}

// forwardResize tells a loaded ad unit about its new size. It does nothing once the session
// is gone.
func (p *vpaidPlayer) forwardResize(bounds dom.Rect) {
	if api, err := p.adUnit(); err == nil {
		api.ResizeAd(bounds.Width, bounds.Height, vpaid.ViewModeNormal)
	}
}

// call invokes fn on the loaded ad unit and waits for event.
func (p *vpaidPlayer) call(ctx context.Context, event string, fn func(api dom.AdUnit)) error {
	api, err := p.adUnit()
	if err != nil {
		return err
	}

	r := newResult()
	off := p.Once(event, func(args ...any) { r.settle(nil) })
	defer off()
	defer failOn(p.Emitter, r, event)()

	fn(api)
	return r.wait(ctx)
}

func (p *vpaidPlayer) StartAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdStarted, func(api dom.AdUnit) { api.StartAd() })
}

func (p *vpaidPlayer) StopAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdStopped, func(api dom.AdUnit) { api.StopAd() })
}

func (p *vpaidPlayer) PauseAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdPaused, func(api dom.AdUnit) { api.PauseAd() })
}

func (p *vpaidPlayer) ResumeAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdPlaying, func(api dom.AdUnit) { api.ResumeAd() })
}

func (p *vpaidPlayer) ResizeAd(ctx context.Context, width, height float64, viewMode string) error {
	return p.call(ctx, vpaid.AdSizeChange, func(api dom.AdUnit) { api.ResizeAd(width, height, viewMode) })
}

func (p *vpaidPlayer) ExpandAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdExpandedChange, func(api dom.AdUnit) { api.ExpandAd() })
}

func (p *vpaidPlayer) CollapseAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdExpandedChange, func(api dom.AdUnit) { api.CollapseAd() })
}

func (p *vpaidPlayer) SkipAd(ctx context.Context) error {
	return p.call(ctx, vpaid.AdSkipped, func(api dom.AdUnit) { api.SkipAd() })
}

func get[T any](p *vpaidPlayer, read func(api dom.AdUnit) T) (T, error) {
	api, err := p.adUnit()
	if err != nil {
		var zero T
		return zero, err
	}
	return read(api), nil
}

func (p *vpaidPlayer) AdLinear() (bool, error) {
	return get(p, dom.AdUnit.GetAdLinear)
}

func (p *vpaidPlayer) AdWidth() (float64, error) {
	return get(p, dom.AdUnit.GetAdWidth)
}

func (p *vpaidPlayer) AdHeight() (float64, error) {
	return get(p, dom.AdUnit.GetAdHeight)
}

func (p *vpaidPlayer) AdExpanded() (bool, error) {
	return get(p, dom.AdUnit.GetAdExpanded)
}

func (p *vpaidPlayer) AdSkippableState() (bool, error) {
	return get(p, dom.AdUnit.GetAdSkippableState)
}

func (p *vpaidPlayer) AdRemainingTime() (float64, error) {
	return get(p, dom.AdUnit.GetAdRemainingTime)
}

func (p *vpaidPlayer) AdDuration() (float64, error) {
	return get(p, dom.AdUnit.GetAdDuration)
}

func (p *vpaidPlayer) AdVolume() (float64, error) {
	return get(p, dom.AdUnit.GetAdVolume)
}

func (p *vpaidPlayer) SetAdVolume(volume float64) error {
	api, err := p.adUnit()
	if err != nil {
		return err
	}
	api.SetAdVolume(volume)
	return nil
}

func (p *vpaidPlayer) AdCompanions() (string, error) {
	return get(p, dom.AdUnit.GetAdCompanions)
}

func (p *vpaidPlayer) AdIcons() (bool, error) {
	return get(p, dom.AdUnit.GetAdIcons)
}

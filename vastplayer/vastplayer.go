// Package vastplayer plays the ad of a VAST tag in a container. It fetches the tag, picks the
// backend able to run its creative, and fires the tag's beacons as the ad plays.
package vastplayer

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/prebid/vast-player/config"
	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/eventproxy"
	"github.com/prebid/vast-player/metrics"
	"github.com/prebid/vast-player/pixel"
	"github.com/prebid/vast-player/players"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vpaid"
)

// Notifications emitted by a VASTPlayer besides the VPAID events bridged from its backend.
const (
	// EventReady is emitted without arguments once Load succeeded.
	EventReady = "ready"
	// EventError is emitted with the failure when Load fails.
	EventError = "error"
)

const notReadyMessage = "VASTPlayer not ready."

const (
	defaultPixelWorkers  = 4
	defaultPixelCapacity = 256
)

// Options holds the collaborators of a VASTPlayer. Zero values are replaced by defaults.
type Options struct {
	// Fetcher retrieves tags. Defaults to an HTTPFetcher, cached when the config asks for it.
	Fetcher vast.Fetcher
	// Env answers playability questions. Defaults to a desktop browser.
	Env environment.Capabilities
	// MetricsEngine defaults to recording nothing.
	MetricsEngine metrics.MetricsEngine
	// Firer delivers beacons. Defaults to an HTTPFirer owned by the player.
	Firer pixel.Firer
	// Callbacks is where Flash sessions register. Defaults to players.DefaultCallbackRegistry.
	Callbacks *players.CallbackRegistry
}

// VASTPlayer is the façade embedding applications drive. It re-emits every VPAID event of
// the active backend.
type VASTPlayer struct {
	*emitter.Emitter

	container     dom.Container
	config        config.Player
	fetcher       vast.Fetcher
	env           environment.Capabilities
	metricsEngine metrics.MetricsEngine
	firer         pixel.Firer
	ownedFirer    *pixel.HTTPFirer
	callbacks     *players.CallbackRegistry

	mu      sync.Mutex
	vast    *vast.Manifest
	player  players.Player
	bridge  *eventproxy.Proxy
	ready   bool
	untrack func()
}

// New returns an unloaded player for container. A nil tracking mapper means URIs are fired
// as written; other zero config values are kept. Use config.Player.WithDefaults for the
// documented defaults.
func New(container dom.Container, cfg config.Player, opts Options) *VASTPlayer {
	if cfg.Tracking.Mapper == nil {
		cfg.Tracking.Mapper = func(uri string) string { return uri }
	}

	p := &VASTPlayer{
		Emitter:       emitter.New(),
		container:     container,
		config:        cfg,
		fetcher:       opts.Fetcher,
		env:           opts.Env,
		metricsEngine: opts.MetricsEngine,
		firer:         opts.Firer,
		callbacks:     opts.Callbacks,
	}
	if p.metricsEngine == nil {
		p.metricsEngine = metrics.NewNilMetricsEngine()
	}
	if p.fetcher == nil {
		p.fetcher = vast.NewHTTPFetcher(nil, p.metricsEngine)
		if ttl := cfg.VAST.CacheTTL(); ttl > 0 {
			p.fetcher = vast.NewCachingFetcher(p.fetcher, ttl)
		}
	}
	if p.env == nil {
		p.env = environment.New("", []string{vpaid.MIMEFlash}, environment.DefaultProber)
	}
	if p.firer == nil {
		p.ownedFirer = pixel.NewHTTPFirer(nil, cfg.Tracking.Timeout(), defaultPixelWorkers, defaultPixelCapacity)
		p.firer = p.ownedFirer
	}

	p.On(vpaid.AdClickThru, p.onClickThru)
	return p
}

// Container returns the element the ad plays in.
func (p *VASTPlayer) Container() dom.Container {
	return p.container
}

// Config returns the configuration the player was built with.
func (p *VASTPlayer) Config() config.Player {
	return p.config
}

// Vast returns the manifest of the last Load, or nil before any Load got that far.
func (p *VASTPlayer) Vast() *vast.Manifest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vast
}

// Ready reports whether the last Load succeeded.
func (p *VASTPlayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Load fetches the tag at uri and loads its ad in the matching backend. It emits EventReady
// on success, and EventError with the returned error on failure.
func (p *VASTPlayer) Load(ctx context.Context, uri string) error {
	if err := p.load(ctx, uri); err != nil {
		if errortypes.IsFatal(err) {
			glog.Errorf("Error loading VAST %s: %v", uri, err)
		} else {
			glog.Warningf("Error loading VAST %s: %v", uri, err)
		}
		p.Emit(EventError, err)
		return err
	}
	p.Emit(EventReady)
	return nil
}

func (p *VASTPlayer) load(ctx context.Context, uri string) error {
	p.mu.Lock()
	p.ready = false
	if p.untrack != nil {
		p.untrack()
		p.untrack = nil
	}
	previous, previousBridge := p.player, p.bridge
	p.player, p.bridge = nil, nil
	p.mu.Unlock()

	// The previous ad is removed without reporting AdStopped.
	if previousBridge != nil {
		previousBridge.Close()
	}
	if previous != nil {
		previous.Destroy()
	}

	manifest, err := p.fetch(ctx, uri)
	if err != nil {
		return err
	}

	variant, mediaFiles := SelectBackend(manifest)
	player, err := players.New(variant, p.container, players.Options{
		Env:         p.env,
		SWFLocation: p.config.SWFLocation,
		Callbacks:   p.callbacks,
	})
	if err != nil {
		return err
	}
	bridge := eventproxy.New(vpaid.Events).From(player).To(p)
	reporter := pixel.NewReporter(Beacons(manifest), p.config.Tracking.Mapper, pixel.Options{
		Firer:         p.firer,
		MetricsEngine: p.metricsEngine,
		ExpandMacros:  p.config.Tracking.ExpandMacros,
	})

	p.mu.Lock()
	p.vast = manifest
	p.player = player
	p.bridge = bridge
	p.mu.Unlock()

	if err := player.Load(ctx, mediaFiles, manifest.AdParameters()); err != nil {
		p.metricsEngine.RecordPlayerLoad(variant.String(), metrics.LoadStatusErr)
		return fmt.Errorf("load %s ad: %w", variant, err)
	}
	p.metricsEngine.RecordPlayerLoad(variant.String(), metrics.LoadStatusOK)

	untrack := reporter.Track(player)
	p.mu.Lock()
	p.untrack = untrack
	p.ready = true
	p.mu.Unlock()
	return nil
}

func (p *VASTPlayer) fetch(ctx context.Context, uri string) (*vast.Manifest, error) {
	if timeout := p.config.VAST.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.fetcher.Fetch(ctx, uri, vast.Options{
		ResolveWrappers: p.config.ResolveWrappers(),
		MaxRedirects:    p.config.VAST.MaxRedirects,
		Headers:         p.config.VAST.Headers,
	})
}

// SelectBackend prefers script VPAID creatives, then Flash VPAID creatives, and falls back to
// playing any media file natively.
func SelectBackend(manifest *vast.Manifest) (players.Variant, []vast.MediaFile) {
	if files := manifest.FilterMediaFiles(vast.MediaFile.IsJavaScriptVPAID); len(files) > 0 {
		return players.JavaScriptVPAIDVariant, files
	}
	if files := manifest.FilterMediaFiles(vast.MediaFile.IsFlashVPAID); len(files) > 0 {
		return players.FlashVPAIDVariant, files
	}
	return players.HTMLVideoVariant, manifest.MediaFiles()
}

// Beacons flattens the beacons of manifest: impressions, errors, tracking events, then
// click trackings.
func Beacons(manifest *vast.Manifest) []pixel.Pixel {
	toPixels := func(event string, uris []string) []pixel.Pixel {
		return lo.Map(uris, func(uri string, _ int) pixel.Pixel {
			return pixel.Pixel{Event: event, URI: uri}
		})
	}
	tracking := lo.Map(manifest.TrackingEvents(), func(t vast.Tracking, _ int) pixel.Pixel {
		return pixel.Pixel{Event: t.Event, URI: t.URI}
	})

	return lo.Flatten([][]pixel.Pixel{
		toPixels(pixel.Impression, manifest.Impressions()),
		toPixels(pixel.Error, manifest.Errors()),
		tracking,
		toPixels(pixel.ClickThrough, manifest.ClickTrackings()),
	})
}

func (p *VASTPlayer) onClickThru(args ...any) {
	url := argAt[string](args, 0)
	playerHandles := argAt[bool](args, 2)
	if url == "" {
		if manifest := p.Vast(); manifest != nil {
			url = manifest.ClickThrough()
		}
	}
	if playerHandles && url != "" {
		p.container.Document().Open(url)
	}
}

func argAt[T any](args []any, index int) T {
	var zero T
	arg, err := lo.Nth(args, index)
	if err != nil {
		return zero
	}
	value, ok := arg.(T)
	if !ok {
		return zero
	}
	return value
}

// active returns the backend of a ready player.
func (p *VASTPlayer) active() (players.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return nil, &errortypes.NotReady{Message: notReadyMessage}
	}
	return p.player, nil
}

func (p *VASTPlayer) StartAd(ctx context.Context) error {
	player, err := p.active()
	if err != nil {
		return err
	}
	return player.StartAd(ctx)
}

func (p *VASTPlayer) StopAd(ctx context.Context) error {
	player, err := p.active()
	if err != nil {
		return err
	}
	return player.StopAd(ctx)
}

func (p *VASTPlayer) PauseAd(ctx context.Context) error {
	player, err := p.active()
	if err != nil {
		return err
	}
	return player.PauseAd(ctx)
}

func (p *VASTPlayer) ResumeAd(ctx context.Context) error {
	player, err := p.active()
	if err != nil {
		return err
	}
	return player.ResumeAd(ctx)
}

func (p *VASTPlayer) AdRemainingTime() (float64, error) {
	player, err := p.active()
	if err != nil {
		return 0, err
	}
	return player.AdRemainingTime()
}

func (p *VASTPlayer) AdDuration() (float64, error) {
	player, err := p.active()
	if err != nil {
		return 0, err
	}
	return player.AdDuration()
}

func (p *VASTPlayer) AdVolume() (float64, error) {
	player, err := p.active()
	if err != nil {
		return 0, err
	}
	return player.AdVolume()
}

// SetAdVolume is guarded like the getters: it fails with errortypes.NotReady before Load
// succeeded.
func (p *VASTPlayer) SetAdVolume(volume float64) error {
	player, err := p.active()
	if err != nil {
		return err
	}
	return player.SetAdVolume(volume)
}

// Close waits for beacons still queued in the player's own Firer. It has no effect when
// Options.Firer was given.
func (p *VASTPlayer) Close() {
	if p.ownedFirer != nil {
		p.ownedFirer.Close()
	}
}

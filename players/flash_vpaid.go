package players

import (
	"context"
	"net/url"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vpaid"
)

// SWFRelease is the published release whose VPAID bridge movie DefaultSWFLocation points at.
const SWFRelease = "1.0.0"

// DefaultSWFLocation is the Flash movie which hosts VPAID SWFs on behalf of the player.
var DefaultSWFLocation = "https://cdn.jsdelivr.net/npm/vast-player@" + SWFRelease + "/dist/vast-player--vpaid.swf"

// FlashVPAID runs a VPAID SWF inside the Flash plugin, through a bridge movie which reports
// ad events back via a page-global callback.
type FlashVPAID struct {
	vpaidPlayer
	swfURI    string
	callbacks *CallbackRegistry
	object    dom.PluginObject
}

// NewFlashVPAID returns a Flash backend loading swfURI as its bridge movie. Empty arguments
// select DefaultSWFLocation and DefaultCallbackRegistry.
func NewFlashVPAID(container dom.Container, swfURI string, callbacks *CallbackRegistry) *FlashVPAID {
	if swfURI == "" {
		swfURI = DefaultSWFLocation
	}
	if callbacks == nil {
		callbacks = DefaultCallbackRegistry
	}
	return &FlashVPAID{
		vpaidPlayer: newVPAIDPlayer(container),
		swfURI:      swfURI,
		callbacks:   callbacks,
	}
}

func (p *FlashVPAID) Variant() Variant {
	return FlashVPAIDVariant
}

// Object returns the plugin element while an ad is loading or loaded.
func (p *FlashVPAID) Object() dom.PluginObject {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.object
}

func (p *FlashVPAID) setObject(object dom.PluginObject) {
	p.mu.Lock()
	p.object = object
	p.mu.Unlock()
}

// Load embeds the bridge movie pointed at the first media file. The ad unit is initialized
// with parameters once the bridge reports VPAIDInterfaceReady, and Load returns when it
// reports AdLoaded.
func (p *FlashVPAID) Load(ctx context.Context, mediaFiles []vast.MediaFile, parameters string) error {
	if len(mediaFiles) == 0 {
		return &errortypes.NoPlayableMedia{Message: noPlayableMediaMessage}
	}
	mediaFile := mediaFiles[0]

	s := p.begin()
	token, release := p.callbacks.Acquire(p.handlePluginEvent)
	s.onClose(release)

	flashvars := url.Values{
		"vpaidURI":      {mediaFile.URI},
		"eventCallback": {token},
	}.Encode()
	object := p.container.Document().CreatePluginObject(pluginParams(p.swfURI, flashvars))
	object.SetVisible(false)
	p.setObject(object)
	s.onClose(func() {
		p.container.RemoveChild(object)
		p.setObject(nil)
	})

	s.onClose(p.Once(vpaid.InterfaceReady, func(args ...any) {
		if !p.handshake(s, object) {
			return
		}
		s.onClose(p.On(vpaid.InterfaceResize, func(args ...any) {
			p.forwardResize(object.Bounds())
		}))

		bounds := object.Bounds()
		object.InitAd(
			bounds.Width,
			bounds.Height,
			vpaid.ViewModeNormal,
			mediaFile.Bitrate,
			dom.CreativeData{AdParameters: parameters},
			dom.EnvironmentVars{},
		)
	}))
	p.watch(s, object, func() { object.SetVisible(true) })

	p.container.AppendChild(object)
	return s.await(ctx)
}

// handlePluginEvent re-emits an event delivered by the bridge movie with the arguments its
// type carries.
func (p *FlashVPAID) handlePluginEvent(event dom.PluginEvent) {
	switch event.Type {
	case vpaid.AdClickThru:
		p.Emit(event.Type, event.URL, event.ID, event.PlayerHandles)
	case vpaid.AdInteraction, vpaid.AdLog:
		p.Emit(event.Type, event.ID)
	case vpaid.AdError:
		p.Emit(event.Type, event.Message)
	default:
		p.Emit(event.Type)
	}
}

func pluginParams(swfURI, flashvars string) dom.PluginParams {
	return dom.PluginParams{
		Type: vpaid.MIMEFlash,
		Data: swfURI + "?" + flashvars,
		Params: []dom.PluginParam{
			{Name: "movie", Value: swfURI},
			{Name: "flashvars", Value: flashvars},
			{Name: "quality", Value: "high"},
			{Name: "play", Value: "false"},
			{Name: "loop", Value: "false"},
			{Name: "wmode", Value: "opaque"},
			{Name: "scale", Value: "noscale"},
			{Name: "salign", Value: "lt"},
			{Name: "allowScriptAccess", Value: "always"},
		},
	}
}

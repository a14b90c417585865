// Package players implements the ad backends a VAST player can drive: native video, VPAID
// creatives running as script in an isolated frame, and VPAID creatives running in the Flash
// plugin. All three report the same VPAID event vocabulary.
package players

import (
	"context"
	"fmt"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/vast"
)

// Player is an ad backend. Blocking operations return once the backend confirmed them
// through the matching VPAID event. Accessors fail with errortypes.NotLoaded until Load has
// succeeded, and again once the ad was stopped or failed.
type Player interface {
	On(event string, handler emitter.Handler) (off func())
	Once(event string, handler emitter.Handler) (off func())
	Emit(event string, args ...any) bool
	ListenerCount(event string) int
	OnListenerChange(fn emitter.ListenerChangeFunc)

	Variant() Variant

	Load(ctx context.Context, mediaFiles []vast.MediaFile, parameters string) error
	StartAd(ctx context.Context) error
	StopAd(ctx context.Context) error
	PauseAd(ctx context.Context) error
	ResumeAd(ctx context.Context) error
	ResizeAd(ctx context.Context, width, height float64, viewMode string) error
	// Destroy tears down whatever the last Load attached without reporting AdStopped. The
	// player can be loaded again afterwards.
	Destroy()

	AdLinear() (bool, error)
	AdWidth() (float64, error)
	AdHeight() (float64, error)
	AdExpanded() (bool, error)
	AdSkippableState() (bool, error)
	AdRemainingTime() (float64, error)
	AdDuration() (float64, error)
	AdVolume() (float64, error)
	SetAdVolume(volume float64) error
	AdCompanions() (string, error)
	AdIcons() (bool, error)
}

// Interactive is implemented by the VPAID backends.
type Interactive interface {
	Player
	ExpandAd(ctx context.Context) error
	CollapseAd(ctx context.Context) error
	SkipAd(ctx context.Context) error
}

// Variant names a backend implementation.
type Variant int

const (
	HTMLVideoVariant Variant = iota
	JavaScriptVPAIDVariant
	FlashVPAIDVariant
)

func (v Variant) String() string {
	switch v {
	case HTMLVideoVariant:
		return "html_video"
	case JavaScriptVPAIDVariant:
		return "javascript_vpaid"
	case FlashVPAIDVariant:
		return "flash_vpaid"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Options carries what the backends need from the embedding page besides their container.
type Options struct {
	Env environment.Capabilities
	// SWFLocation overrides DefaultSWFLocation for the Flash backend.
	SWFLocation string
	// Callbacks defaults to DefaultCallbackRegistry.
	Callbacks *CallbackRegistry
}

// New builds the backend for variant.
func New(variant Variant, container dom.Container, opts Options) (Player, error) {
	switch variant {
	case HTMLVideoVariant:
		return NewHTMLVideo(container, opts.Env), nil
	case JavaScriptVPAIDVariant:
		return NewJavaScriptVPAID(container, opts.Env), nil
	case FlashVPAIDVariant:
		return NewFlashVPAID(container, opts.SWFLocation, opts.Callbacks), nil
	}
	return nil, fmt.Errorf("unknown player variant %v", variant)
}

var (
	_ Player      = (*HTMLVideo)(nil)
	_ Interactive = (*JavaScriptVPAID)(nil)
	_ Interactive = (*FlashVPAID)(nil)
)

package players

import (
	"context"
	"fmt"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vpaid"
)

// JavaScriptVPAID runs a VPAID creative script inside an isolated frame.
type JavaScriptVPAID struct {
	vpaidPlayer
	env   environment.Capabilities
	frame dom.Frame
}

func NewJavaScriptVPAID(container dom.Container, env environment.Capabilities) *JavaScriptVPAID {
	return &JavaScriptVPAID{
		vpaidPlayer: newVPAIDPlayer(container),
		env:         env,
	}
}

func (p *JavaScriptVPAID) Variant() Variant {
	return JavaScriptVPAIDVariant
}

// Frame returns the frame hosting the creative while an ad is loading or loaded.
func (p *JavaScriptVPAID) Frame() dom.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

func (p *JavaScriptVPAID) setFrame(frame dom.Frame) {
	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()
}

// Load runs the script of the first media file and initializes the ad unit it exposes with
// parameters. It returns once the unit reports AdLoaded.
func (p *JavaScriptVPAID) Load(ctx context.Context, mediaFiles []vast.MediaFile, parameters string) error {
	if len(mediaFiles) == 0 {
		return &errortypes.NoPlayableMedia{Message: noPlayableMediaMessage}
	}
	mediaFile := mediaFiles[0]

	doc := p.container.Document()
	frame := doc.CreateFrame()
	video := doc.CreateVideo()
	s := p.begin()

	frame.SetVisible(false)
	p.container.AppendChild(frame)
	p.setFrame(frame)
	s.onClose(func() {
		p.container.RemoveChild(frame)
		p.setFrame(nil)
	})

	frame.AppendChild(video)
	frame.LoadScript(mediaFile.URI, func() {
		p.initAd(s, frame, video, mediaFile, parameters)
	}, func(err error) {
		s.close(&errortypes.HostFailure{
			Message: fmt.Sprintf("Failed to load MediaFile [%s].", mediaFile.URI),
			Cause:   err,
		})
	})

	return s.await(ctx)
}

func (p *JavaScriptVPAID) initAd(s *session, frame dom.Frame, video dom.MediaElement, mediaFile vast.MediaFile, parameters string) {
	if s.isClosed() {
		return
	}
	unit, err := frame.AdUnit()
	if err != nil {
		s.close(&errortypes.HostFailure{
			Message: fmt.Sprintf("MediaFile [%s] did not expose a VPAID ad.", mediaFile.URI),
			Cause:   err,
		})
		return
	}
	if !p.handshake(s, unit) {
		return
	}

	s.onClose(frame.OnResize(func() { p.forwardResize(frame.Bounds()) }))
	for _, event := range vpaid.Events {
		event := event
		unit.Subscribe(func(args ...any) { p.Emit(event, args...) }, event)
	}
	p.watch(s, unit, func() { frame.SetVisible(true) })

	bounds := frame.Bounds()
	unit.InitAd(
		bounds.Width,
		bounds.Height,
		vpaid.ViewModeNormal,
		mediaFile.Bitrate,
		dom.CreativeData{AdParameters: parameters},
		dom.EnvironmentVars{
			Slot:                 frame.Body(),
			VideoSlot:            video,
			VideoSlotCanAutoPlay: p.env.IsDesktop(),
		},
	)
}

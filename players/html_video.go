package players

import (
	"context"
	"math"
	"sync"

	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/eventproxy"
	"github.com/prebid/vast-player/tracker"
	"github.com/prebid/vast-player/vast"
	"github.com/prebid/vast-player/vpaid"
)

const (
	videoNotLoadedMessage  = "The <video> has not been loaded."
	noPlayableMediaMessage = "There are no playable <MediaFile>s."
)

// HTMLVideo plays a plain media file in a native video element and synthesizes the VPAID
// events an interactive creative would report.
type HTMLVideo struct {
	*emitter.Emitter
	container dom.Container
	env       environment.Capabilities

	mu        sync.Mutex
	video     dom.MediaElement
	session   *session
	hasPlayed bool
}

func NewHTMLVideo(container dom.Container, env environment.Capabilities) *HTMLVideo {
	return &HTMLVideo{
		Emitter:   emitter.New(),
		container: container,
		env:       env,
	}
}

func (p *HTMLVideo) Variant() Variant {
	return HTMLVideoVariant
}

// Container returns the element the video is attached to.
func (p *HTMLVideo) Container() dom.Container {
	return p.container
}

// Load attaches a video element for the most suitable of mediaFiles and returns once its
// metadata is available. parameters are ignored; a plain media file has no use for them.
func (p *HTMLVideo) Load(ctx context.Context, mediaFiles []vast.MediaFile, parameters string) error {
	mediaFile, ok := pickMediaFile(p.env, mediaFiles, p.container.Bounds().Width)
	if !ok {
		return &errortypes.NoPlayableMedia{Message: noPlayableMediaMessage}
	}

	video := p.container.Document().CreateVideo()
	video.SetSource(mediaFile.URI)

	s := newSession()
	p.mu.Lock()
	p.session = s
	p.hasPlayed = false
	p.mu.Unlock()

	listen := func(event string, fn func()) {
		s.onClose(video.Listen(event, fn))
	}
	listenOnce := func(event string, fn func()) {
		var once sync.Once
		var cancel func()
		cancel = video.Listen(event, func() {
			once.Do(func() {
				cancel()
				fn()
			})
		})
		s.onClose(cancel)
	}

	listenOnce(dom.MediaLoadedMetadata, func() {
		t := tracker.NewMediaTracker(video)
		s.onClose(t.Stop)
		s.onClose(eventproxy.New(vpaid.Events).From(t).To(p).Close)

		p.mu.Lock()
		p.video = video
		p.mu.Unlock()
		s.result.settle(nil)

		p.Emit(vpaid.AdLoaded)

		listen(dom.MediaDurationChange, func() { p.Emit(vpaid.AdDurationChange) })
		listen(dom.MediaVolumeChange, func() { p.Emit(vpaid.AdVolumeChange) })
	})
	listenOnce(dom.MediaError, func() {
		err := video.Err()
		message := "The <video> failed to load."
		if err != nil {
			message = err.Error()
		}
		p.Emit(vpaid.AdError, message)
		s.close(&errortypes.HostFailure{Message: message, Cause: err})
	})
	listenOnce(dom.MediaPlaying, func() {
		p.mu.Lock()
		p.hasPlayed = true
		p.mu.Unlock()
		p.Emit(vpaid.AdImpression)
	})
	listenOnce(dom.MediaEnded, func() {
		if err := p.StopAd(context.Background()); err != nil {
			glog.Warningf("Stopping ended video: %v", err)
		}
	})
	listen(dom.MediaPause, func() { p.Emit(vpaid.AdPaused) })
	listen(dom.MediaPlay, func() {
		if p.started() {
			p.Emit(vpaid.AdPlaying)
		}
	})
	listen(dom.Click, func() { p.Emit(vpaid.AdClickThru, "", "", true) })

	s.onClose(func() {
		p.mu.Lock()
		p.video = nil
		p.mu.Unlock()
		p.container.RemoveChild(video)
	})
	p.container.AppendChild(video)

	return s.await(ctx)
}

func (p *HTMLVideo) loaded() (dom.MediaElement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.video == nil {
		return nil, &errortypes.NotLoaded{Message: videoNotLoadedMessage}
	}
	return p.video, nil
}

func (p *HTMLVideo) started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasPlayed
}

// fail reports a native failure and tears the session down.
func (p *HTMLVideo) fail(err error) error {
	p.Emit(vpaid.AdError, err.Error())
	failure := &errortypes.HostFailure{Message: err.Error(), Cause: err}
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	if s != nil {
		s.close(failure)
	}
	return failure
}

// StartAd begins playback. An ad plays at most once.
func (p *HTMLVideo) StartAd(ctx context.Context) error {
	video, err := p.loaded()
	if err != nil {
		return err
	}
	if p.started() {
		return &errortypes.AlreadyStarted{Message: "The ad has already been started."}
	}

	r := newResult()
	cancel := video.Listen(dom.MediaPlaying, func() {
		r.settle(nil)
	})
	defer cancel()
	defer failOn(p.Emitter, r, vpaid.AdStarted)()

	if err := video.Play(); err != nil {
		return p.fail(err)
	}
	if err := r.wait(ctx); err != nil {
		return err
	}
	p.Emit(vpaid.AdStarted)
	return nil
}

// StopAd detaches the video. The player cannot be used again until it is loaded again.
func (p *HTMLVideo) StopAd(ctx context.Context) error {
	if _, err := p.loaded(); err != nil {
		return err
	}
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	s.close(errStopped())
	p.Emit(vpaid.AdStopped)
	return nil
}

func (p *HTMLVideo) Destroy() {
	p.mu.Lock()
	s, video := p.session, p.video
	p.session = nil
	p.mu.Unlock()
	if s == nil {
		return
	}
	s.close(errStopped())
	if video != nil {
		video.Pause()
	}
}

func (p *HTMLVideo) PauseAd(ctx context.Context) error {
	video, err := p.loaded()
	if err != nil {
		return err
	}
	if video.Paused() {
		return nil
	}

	r := newResult()
	cancel := video.Listen(dom.MediaPause, func() { r.settle(nil) })
	defer cancel()
	defer failOn(p.Emitter, r, vpaid.AdPaused)()

	video.Pause()
	return r.wait(ctx)
}

func (p *HTMLVideo) ResumeAd(ctx context.Context) error {
	video, err := p.loaded()
	if err != nil {
		return err
	}
	if !p.started() {
		return &errortypes.NotStarted{Message: "The ad has not been started yet."}
	}
	if !video.Paused() {
		return nil
	}

	r := newResult()
	cancel := video.Listen(dom.MediaPlay, func() { r.settle(nil) })
	defer cancel()
	defer failOn(p.Emitter, r, vpaid.AdPlaying)()

	if err := video.Play(); err != nil {
		return p.fail(err)
	}
	return r.wait(ctx)
}

// ResizeAd has nothing to tell a native video, which always fills its container.
func (p *HTMLVideo) ResizeAd(ctx context.Context, width, height float64, viewMode string) error {
	if _, err := p.loaded(); err != nil {
		return err
	}
	p.Emit(vpaid.AdSizeChange)
	return nil
}

func (p *HTMLVideo) AdLinear() (bool, error) {
	if _, err := p.loaded(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *HTMLVideo) AdWidth() (float64, error) {
	if _, err := p.loaded(); err != nil {
		return 0, err
	}
	return p.container.Bounds().Width, nil
}

func (p *HTMLVideo) AdHeight() (float64, error) {
	if _, err := p.loaded(); err != nil {
		return 0, err
	}
	return p.container.Bounds().Height, nil
}

func (p *HTMLVideo) AdExpanded() (bool, error) {
	_, err := p.loaded()
	return false, err
}

func (p *HTMLVideo) AdSkippableState() (bool, error) {
	_, err := p.loaded()
	return false, err
}

func (p *HTMLVideo) AdRemainingTime() (float64, error) {
	video, err := p.loaded()
	if err != nil {
		return 0, err
	}
	return video.Duration() - video.CurrentTime(), nil
}

func (p *HTMLVideo) AdDuration() (float64, error) {
	video, err := p.loaded()
	if err != nil {
		return 0, err
	}
	return video.Duration(), nil
}

func (p *HTMLVideo) AdVolume() (float64, error) {
	video, err := p.loaded()
	if err != nil {
		return 0, err
	}
	return video.Volume(), nil
}

func (p *HTMLVideo) SetAdVolume(volume float64) error {
	video, err := p.loaded()
	if err != nil {
		return err
	}
	video.SetVolume(volume)
	return nil
}

func (p *HTMLVideo) AdCompanions() (string, error) {
	_, err := p.loaded()
	return "", err
}

func (p *HTMLVideo) AdIcons() (bool, error) {
	_, err := p.loaded()
	return false, err
}

type candidate struct {
	mediaFile   vast.MediaFile
	playability environment.Playability
	distance    float64
}

// pickMediaFile chooses the playable file closest to width. Ties go to the more confidently
// playable file, then to the higher bitrate, then to the one declared first.
func pickMediaFile(env environment.Capabilities, mediaFiles []vast.MediaFile, width float64) (vast.MediaFile, bool) {
	candidates := lo.FilterMap(mediaFiles, func(mediaFile vast.MediaFile, _ int) (candidate, bool) {
		playability := env.CanPlay(mediaFile.Type)
		return candidate{
			mediaFile:   mediaFile,
			playability: playability,
			distance:    math.Abs(width - float64(mediaFile.Width)),
		}, playability > environment.Unplayable
	})
	if len(candidates) == 0 {
		return vast.MediaFile{}, false
	}

	best := lo.MinBy(candidates, func(a, b candidate) bool {
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.playability != b.playability {
			return a.playability > b.playability
		}
		return a.mediaFile.Bitrate > b.mediaFile.Bitrate
	})
	return best.mediaFile, true
}

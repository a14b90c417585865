package tracker

import (
	"math"

	"github.com/prebid/vast-player/dom"
)

// MediaTracker feeds a VideoTracker from a native media element. It ticks on every playing,
// pause and timeupdate notification.
type MediaTracker struct {
	*VideoTracker

	video   dom.MediaElement
	cancels []func()
}

// NewMediaTracker starts tracking video. The duration is read once, when the tracker is
// created, so it should be called after the element's metadata is available.
func NewMediaTracker(video dom.MediaElement) *MediaTracker {
	t := &MediaTracker{
		VideoTracker: NewVideoTracker(wholeSeconds(video.Duration())),
		video:        video,
	}

	for _, event := range []string{dom.MediaPlaying, dom.MediaPause, dom.MediaTimeUpdate} {
		t.cancels = append(t.cancels, video.Listen(event, t.tick))
	}
	return t
}

func (t *MediaTracker) tick() {
	t.Tick(State{
		Playing:     !t.video.Paused(),
		CurrentTime: t.video.CurrentTime(),
	})
}

// Stop detaches the tracker from the element.
func (t *MediaTracker) Stop() {
	for _, cancel := range t.cancels {
		cancel()
	}
	t.cancels = nil
}

func wholeSeconds(duration float64) int {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0
	}
	return int(math.Floor(duration))
}

package domtest

import (
	"sync"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
)

// Video is an in-memory dom.MediaElement. By default it reports metadata as soon as it is
// attached and answers Play and Pause with the matching native events, synchronously.
type Video struct {
	events *emitter.Emitter

	mu          sync.Mutex
	src         string
	paused      bool
	currentTime float64
	duration    float64
	volume      float64
	err         error

	// LoadError, when set, is reported through the error event on attach instead of
	// loadedmetadata.
	LoadError error
	// PlayError, when set, is returned by Play.
	PlayError error
	// Manual disables every automatic event.
	Manual bool
}

// NewVideo returns a paused 30 second video.
func NewVideo() *Video {
	return &Video{
		events:   emitter.New(),
		paused:   true,
		duration: 30,
		volume:   1,
	}
}

func (v *Video) attached() {
	if v.Manual {
		return
	}
	if v.LoadError != nil {
		v.mu.Lock()
		v.err = v.LoadError
		v.mu.Unlock()
		v.Fire(dom.MediaError)
		return
	}
	v.Fire(dom.MediaLoadedMetadata)
}

// Fire dispatches a native event to the element's listeners.
func (v *Video) Fire(event string) {
	v.events.Emit(event)
}

// ListenerCount returns how many listeners are registered for event.
func (v *Video) ListenerCount(event string) int {
	return v.events.ListenerCount(event)
}

func (v *Video) SetSource(uri string) {
	v.mu.Lock()
	v.src = uri
	v.mu.Unlock()
}

// Source returns the uri passed to SetSource.
func (v *Video) Source() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.src
}

func (v *Video) Play() error {
	if v.PlayError != nil {
		return v.PlayError
	}
	v.mu.Lock()
	wasPaused := v.paused
	v.paused = false
	v.mu.Unlock()

	if wasPaused && !v.Manual {
		v.Fire(dom.MediaPlay)
		v.Fire(dom.MediaPlaying)
	}
	return nil
}

func (v *Video) Pause() {
	v.mu.Lock()
	wasPaused := v.paused
	v.paused = true
	v.mu.Unlock()

	if !wasPaused && !v.Manual {
		v.Fire(dom.MediaPause)
	}
}

func (v *Video) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

// SetPaused changes the paused flag without firing events.
func (v *Video) SetPaused(paused bool) {
	v.mu.Lock()
	v.paused = paused
	v.mu.Unlock()
}

func (v *Video) CurrentTime() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentTime
}

// TimeUpdate moves the playhead and fires timeupdate.
func (v *Video) TimeUpdate(currentTime float64) {
	v.mu.Lock()
	v.currentTime = currentTime
	v.mu.Unlock()
	v.Fire(dom.MediaTimeUpdate)
}

func (v *Video) Duration() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.duration
}

// SetDuration changes the reported duration without firing events.
func (v *Video) SetDuration(duration float64) {
	v.mu.Lock()
	v.duration = duration
	v.mu.Unlock()
}

func (v *Video) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume
}

func (v *Video) SetVolume(volume float64) {
	v.mu.Lock()
	v.volume = volume
	v.mu.Unlock()

	if !v.Manual {
		v.Fire(dom.MediaVolumeChange)
	}
}

func (v *Video) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *Video) Listen(event string, fn func()) func() {
	return v.events.On(event, func(args ...any) { fn() })
}

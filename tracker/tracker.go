// Package tracker derives VAST progress milestones from playback snapshots.
package tracker

import (
	"math"
	"sync"

	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/vpaid"
)

// State is one playback snapshot.
type State struct {
	Playing     bool
	CurrentTime float64
}

// quartileEvents are indexed by quartile - 1.
var quartileEvents = [4]string{
	vpaid.AdVideoFirstQuartile,
	vpaid.AdVideoMidpoint,
	vpaid.AdVideoThirdQuartile,
	vpaid.AdVideoComplete,
}

// VideoTracker emits AdVideoStart and the four quartile events, each at most once.
//
// A quartile counts as viewed only when every whole second before its boundary has been
// observed while playing. Seeking past part of the ad leaves those seconds uncovered, so the
// quartiles after them are never reached.
type VideoTracker struct {
	*emitter.Emitter

	duration int

	mu      sync.Mutex
	seconds []bool
	fired   map[string]bool
}

// NewVideoTracker returns a tracker for an ad lasting duration whole seconds.
func NewVideoTracker(duration int) *VideoTracker {
	if duration < 0 {
		duration = 0
	}
	return &VideoTracker{
		Emitter:  emitter.New(),
		duration: duration,
		seconds:  make([]bool, duration),
		fired:    make(map[string]bool, len(quartileEvents)+1),
	}
}

// Duration is the tracked length in whole seconds.
func (t *VideoTracker) Duration() int {
	return t.duration
}

// Tick records a snapshot and emits whatever milestones it completes.
func (t *VideoTracker) Tick(state State) {
	t.mu.Lock()
	var due []string

	if state.Playing {
		due = t.fire(due, vpaid.AdVideoStart)

		index := int(math.Floor(state.CurrentTime)) - 1
		if index >= 0 && index < len(t.seconds) {
			t.seconds[index] = true
		}
	}

	for quartile, event := range quartileEvents {
		if t.viewed(quartile + 1) {
			due = t.fire(due, event)
		}
	}
	t.mu.Unlock()

	for _, event := range due {
		t.Emit(event)
	}
}

// Covered returns a copy of the per-second coverage.
func (t *VideoTracker) Covered() []bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]bool(nil), t.seconds...)
}

// fire marks event as fired and appends it to due, unless it fired before. t.mu must be held.
func (t *VideoTracker) fire(due []string, event string) []string {
	if t.fired[event] {
		return due
	}
	t.fired[event] = true
	return append(due, event)
}

// viewed reports whether every second before the quartile boundary is covered. t.mu must
// be held.
func (t *VideoTracker) viewed(quartile int) bool {
	end := int(math.Floor(float64(t.duration) / 4 * float64(quartile)))
	for _, covered := range t.seconds[:end] {
		if !covered {
			return false
		}
	}
	return true
}

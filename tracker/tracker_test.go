package tracker

import (
	"math"
	"testing"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/dom/domtest"
	"github.com/prebid/vast-player/vpaid"
	"github.com/stretchr/testify/assert"
)

var milestones = []string{
	vpaid.AdVideoStart,
	vpaid.AdVideoFirstQuartile,
	vpaid.AdVideoMidpoint,
	vpaid.AdVideoThirdQuartile,
	vpaid.AdVideoComplete,
}

func recordMilestones(t *VideoTracker) *[]string {
	var fired []string
	for _, event := range milestones {
		event := event
		t.On(event, func(args ...any) { fired = append(fired, event) })
	}
	return &fired
}

func play(t *VideoTracker, from, to float64) {
	for time := from; time <= to; time += 0.25 {
		t.Tick(State{Playing: true, CurrentTime: time})
	}
}

func TestNewVideoTracker(t *testing.T) {
	tracker := NewVideoTracker(10)

	assert.Equal(t, 10, tracker.Duration())
	assert.Equal(t, make([]bool, 10), tracker.Covered())
	assert.Equal(t, 0, NewVideoTracker(-1).Duration())
}

func TestTickWhilePaused(t *testing.T) {
	tracker := NewVideoTracker(8)
	fired := recordMilestones(tracker)

	tracker.Tick(State{Playing: false, CurrentTime: 3})

	assert.Empty(t, *fired)
	assert.Equal(t, make([]bool, 8), tracker.Covered())
}

func TestStartFiresOnce(t *testing.T) {
	tracker := NewVideoTracker(8)
	fired := recordMilestones(tracker)

	tracker.Tick(State{Playing: true, CurrentTime: 0})
	tracker.Tick(State{Playing: true, CurrentTime: 0.3})

	assert.Equal(t, []string{vpaid.AdVideoStart}, *fired)
}

func TestCoverageUsesWholeSecondsMinusOne(t *testing.T) {
	tracker := NewVideoTracker(4)

	tracker.Tick(State{Playing: true, CurrentTime: 0.9})
	assert.Equal(t, []bool{false, false, false, false}, tracker.Covered())

	tracker.Tick(State{Playing: true, CurrentTime: 1.7})
	assert.Equal(t, []bool{true, false, false, false}, tracker.Covered())

	tracker.Tick(State{Playing: true, CurrentTime: 3.2})
	assert.Equal(t, []bool{true, false, true, false}, tracker.Covered())

	tracker.Tick(State{Playing: true, CurrentTime: 9})
	assert.Equal(t, []bool{true, false, true, false}, tracker.Covered(), "out of range is ignored")
}

func TestQuartilesInOrder(t *testing.T) {
	tracker := NewVideoTracker(8)
	fired := recordMilestones(tracker)

	play(tracker, 0, 1.9)
	assert.Equal(t, []string{vpaid.AdVideoStart}, *fired)

	play(tracker, 2, 2)
	assert.Equal(t, milestones[:2], *fired)

	play(tracker, 2.25, 4)
	assert.Equal(t, milestones[:3], *fired)

	play(tracker, 4.25, 6)
	assert.Equal(t, milestones[:4], *fired)

	play(tracker, 6.25, 8)
	assert.Equal(t, milestones, *fired)

	play(tracker, 0, 8)
	assert.Equal(t, milestones, *fired, "milestones fire at most once")
}

func TestSeekingBlocksLaterQuartiles(t *testing.T) {
	tracker := NewVideoTracker(8)
	fired := recordMilestones(tracker)

	play(tracker, 0, 2.9)
	tracker.Tick(State{Playing: true, CurrentTime: 5})
	play(tracker, 5, 8)

	assert.Equal(t, milestones[:2], *fired)
	assert.Equal(t, []bool{true, true, false, false, true, true, true, true}, tracker.Covered())

	tracker.Tick(State{Playing: false, CurrentTime: 8})
	assert.Equal(t, milestones[:2], *fired, "reaching the end does not complete the ad")

	play(tracker, 3, 4)
	assert.Equal(t, milestones, *fired, "covering the gap completes the remaining quartiles")
}

func TestCoverageNeverReverts(t *testing.T) {
	tracker := NewVideoTracker(4)

	tracker.Tick(State{Playing: true, CurrentTime: 2})
	tracker.Tick(State{Playing: false, CurrentTime: 2})
	tracker.Tick(State{Playing: true, CurrentTime: 0})

	assert.Equal(t, []bool{false, true, false, false}, tracker.Covered())
}

func TestZeroDuration(t *testing.T) {
	tracker := NewVideoTracker(0)
	fired := recordMilestones(tracker)

	tracker.Tick(State{Playing: false, CurrentTime: 0})

	assert.Equal(t, milestones[1:], *fired, "every quartile of an empty ad is trivially viewed")
}

func TestMediaTracker(t *testing.T) {
	video := domtest.NewVideo()
	video.Manual = true
	video.SetDuration(4.6)

	tracker := NewMediaTracker(video)
	fired := recordMilestones(tracker.VideoTracker)
	assert.Equal(t, 4, tracker.Duration())

	video.SetPaused(false)
	video.Fire(dom.MediaPlaying)
	assert.Equal(t, []string{vpaid.AdVideoStart}, *fired)

	for _, time := range []float64{1, 2, 3, 4} {
		video.TimeUpdate(time)
	}
	assert.Equal(t, milestones, *fired)

	tracker.Stop()
	assert.Equal(t, 0, video.ListenerCount(dom.MediaTimeUpdate))
	assert.Equal(t, 0, video.ListenerCount(dom.MediaPlaying))
	assert.Equal(t, 0, video.ListenerCount(dom.MediaPause))
}

func TestWholeSeconds(t *testing.T) {
	assert.Equal(t, 0, wholeSeconds(math.NaN()))
	assert.Equal(t, 0, wholeSeconds(math.Inf(1)))
	assert.Equal(t, 0, wholeSeconds(-3))
	assert.Equal(t, 30, wholeSeconds(30.999))
}

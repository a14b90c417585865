package players

import (
	"sync"
	"testing"

	"github.com/prebid/vast-player/dom/domtest"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/environment"
	"github.com/prebid/vast-player/vpaid"
	"github.com/stretchr/testify/assert"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func desktopEnv() *environment.Environment {
	return environment.New(desktopUserAgent, []string{vpaid.MIMEFlash}, environment.DefaultProber)
}

type emission struct {
	event string
	args  []any
}

type eventRecorder struct {
	mu        sync.Mutex
	emissions []emission
}

// recordEvents listens to every VPAID event p emits.
func recordEvents(p interface {
	On(string, emitter.Handler) func()
}) *eventRecorder {
	r := &eventRecorder{}
	for _, event := range vpaid.Events {
		event := event
		p.On(event, func(args ...any) {
			r.mu.Lock()
			r.emissions = append(r.emissions, emission{event: event, args: args})
			r.mu.Unlock()
		})
	}
	return r
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.emissions))
	for _, e := range r.emissions {
		names = append(names, e.event)
	}
	return names
}

func (r *eventRecorder) count(event string) int {
	n := 0
	for _, name := range r.names() {
		if name == event {
			n++
		}
	}
	return n
}

func (r *eventRecorder) args(event string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.emissions {
		if e.event == event {
			return e.args
		}
	}
	return nil
}

func TestNew(t *testing.T) {
	container := domtest.NewContainer(640, 360)
	opts := Options{Env: desktopEnv()}

	testCases := []struct {
		description string
		variant     Variant
		expected    any
	}{
		{description: "HTML Video", variant: HTMLVideoVariant, expected: &HTMLVideo{}},
		{description: "JavaScript VPAID", variant: JavaScriptVPAIDVariant, expected: &JavaScriptVPAID{}},
		{description: "Flash VPAID", variant: FlashVPAIDVariant, expected: &FlashVPAID{}},
	}

	for _, test := range testCases {
		player, err := New(test.variant, container, opts)
		assert.NoError(t, err, test.description)
		assert.IsType(t, test.expected, player, test.description)
		assert.Equal(t, test.variant, player.Variant(), test.description)
	}

	_, err := New(Variant(7), container, opts)
	assert.EqualError(t, err, "unknown player variant variant(7)")
}

func TestNewFlashDefaults(t *testing.T) {
	player := NewFlashVPAID(domtest.NewContainer(640, 360), "", nil)

	assert.Equal(t, DefaultSWFLocation, player.swfURI)
	assert.Same(t, DefaultCallbackRegistry, player.callbacks)
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "html_video", HTMLVideoVariant.String())
	assert.Equal(t, "javascript_vpaid", JavaScriptVPAIDVariant.String())
	assert.Equal(t, "flash_vpaid", FlashVPAIDVariant.String())
}

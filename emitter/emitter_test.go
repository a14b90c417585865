package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitOrderAndArgs(t *testing.T) {
	e := New()
	var calls []string
	var received []any

	e.On("event", func(args ...any) {
		calls = append(calls, "first")
		received = args
	})
	e.On("event", func(args ...any) { calls = append(calls, "second") })

	assert.True(t, e.Emit("event", 1, "two", true))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, []any{1, "two", true}, received)
	assert.False(t, e.Emit("other"))
}

func TestOnce(t *testing.T) {
	e := New()
	count := 0
	e.Once("event", func(args ...any) { count++ })

	e.Emit("event")
	e.Emit("event")

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, e.ListenerCount("event"))
}

func TestOff(t *testing.T) {
	e := New()
	count := 0
	off := e.On("event", func(args ...any) { count++ })

	e.Emit("event")
	off()
	off()
	e.Emit("event")

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, e.ListenerCount("event"))
}

func TestHandlerMayRegisterDuringEmit(t *testing.T) {
	e := New()
	inner := 0
	e.Once("event", func(args ...any) {
		e.On("event", func(args ...any) { inner++ })
	})

	e.Emit("event")
	assert.Equal(t, 0, inner)

	e.Emit("event")
	assert.Equal(t, 1, inner)
}

func TestOnListenerChange(t *testing.T) {
	type change struct {
		event string
		count int
	}
	e := New()
	var changes []change
	e.OnListenerChange(func(event string, count int) {
		changes = append(changes, change{event, count})
	})

	offA := e.On("a", func(args ...any) {})
	e.On("a", func(args ...any) {})
	e.Once("b", func(args ...any) {})
	e.Emit("b")
	offA()

	assert.Equal(t, []change{
		{"a", 1},
		{"a", 2},
		{"b", 1},
		{"b", 0},
		{"a", 1},
	}, changes)
}

func TestZeroValue(t *testing.T) {
	var e Emitter
	called := false
	e.On("event", func(args ...any) { called = true })
	e.Emit("event")

	assert.True(t, called)
}

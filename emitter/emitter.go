// Package emitter provides the named-event dispatcher every ad backend, tracker and player
// is built on.
package emitter

import (
	"sync"
)

// Handler receives the arguments an event was emitted with.
type Handler func(args ...any)

// ListenerChangeFunc is told the listener count of an event after a listener is added or
// removed.
type ListenerChangeFunc func(event string, count int)

type listener struct {
	id      uint64
	handler Handler
	once    bool
}

// Emitter dispatches named events to handlers. Handlers for an event run synchronously on the
// emitting goroutine, in registration order. It is safe for concurrent use.
//
// The zero value is ready to use.
type Emitter struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]*listener
	watchers  []ListenerChangeFunc
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{}
}

// On registers handler for event and returns a function which removes it again.
func (e *Emitter) On(event string, handler Handler) (off func()) {
	return e.add(event, handler, false)
}

// Once registers handler to run at most one time. The returned function removes it if it
// has not run yet.
func (e *Emitter) Once(event string, handler Handler) (off func()) {
	return e.add(event, handler, true)
}

// Emit calls every handler registered for event with args. It reports whether any handler
// was registered.
func (e *Emitter) Emit(event string, args ...any) bool {
	e.mu.Lock()
	registered := e.listeners[event]
	if len(registered) == 0 {
		e.mu.Unlock()
		return false
	}
	snapshot := make([]*listener, len(registered))
	copy(snapshot, registered)

	var fired []*listener
	for _, l := range snapshot {
		if l.once {
			fired = append(fired, l)
		}
	}
	count := -1
	if len(fired) > 0 {
		count = e.removeLocked(event, fired...)
	}
	watchers := e.watchers
	e.mu.Unlock()

	if count >= 0 {
		notify(watchers, event, count)
	}

	for _, l := range snapshot {
		l.handler(args...)
	}
	return true
}

// ListenerCount returns the number of handlers currently registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// OnListenerChange registers fn to be told whenever the number of handlers for an event
// changes.
func (e *Emitter) OnListenerChange(fn ListenerChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watchers = append(e.watchers, fn)
}

func (e *Emitter) add(event string, handler Handler, once bool) func() {
	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	e.nextID++
	l := &listener{id: e.nextID, handler: handler, once: once}
	e.listeners[event] = append(e.listeners[event], l)
	count := len(e.listeners[event])
	watchers := e.watchers
	e.mu.Unlock()

	notify(watchers, event, count)

	var removed sync.Once
	return func() {
		removed.Do(func() {
			e.mu.Lock()
			before := len(e.listeners[event])
			count := e.removeLocked(event, l)
			watchers := e.watchers
			e.mu.Unlock()

			if count != before {
				notify(watchers, event, count)
			}
		})
	}
}

// removeLocked drops the given listeners and returns how many remain. e.mu must be held.
func (e *Emitter) removeLocked(event string, drop ...*listener) int {
	registered := e.listeners[event]
	kept := registered[:0:0]
	for _, l := range registered {
		if !contains(drop, l) {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = kept
	}
	return len(kept)
}

func contains(list []*listener, l *listener) bool {
	for _, candidate := range list {
		if candidate.id == l.id {
			return true
		}
	}
	return false
}

func notify(watchers []ListenerChangeFunc, event string, count int) {
	for _, watch := range watchers {
		watch(event, count)
	}
}

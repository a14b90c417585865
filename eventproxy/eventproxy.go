// Package eventproxy re-emits a fixed set of events from one emitter on another, subscribing
// to the source only for events somebody is listening to on the target.
package eventproxy

import (
	"sync"

	"github.com/prebid/vast-player/emitter"
)

// Source is where proxied events originate.
type Source interface {
	On(event string, handler emitter.Handler) (off func())
}

// Target is where proxied events are re-emitted. The proxy watches its listener counts to
// decide when a forwarding subscription is needed.
type Target interface {
	Emit(event string, args ...any) bool
	ListenerCount(event string) int
	OnListenerChange(fn emitter.ListenerChangeFunc)
}

// Proxy forwards events from a Source to a Target. The two ends may be set in either order;
// nothing is forwarded until both are known.
//
// For each event in its list the proxy installs at most one forwarding subscription, the
// first time the target has a listener for it. A subscription lasts until the source is
// replaced or the proxy is closed.
type Proxy struct {
	events []string
	known  map[string]struct{}

	mu        sync.Mutex
	source    Source
	target    Target
	listeners map[string]int
	forwarded map[string]func()
	watched   Target
	closed    bool
	// generation changes whenever the forwards are dropped
	generation int
}

// New returns a Proxy for the given events. The slice is copied.
func New(events []string) *Proxy {
	p := &Proxy{
		events:    append([]string(nil), events...),
		known:     make(map[string]struct{}, len(events)),
		listeners: make(map[string]int, len(events)),
		forwarded: make(map[string]func(), len(events)),
	}
	for _, event := range events {
		p.known[event] = struct{}{}
	}
	return p
}

// Events returns a copy of the proxied event names.
func (p *Proxy) Events() []string {
	return append([]string(nil), p.events...)
}

// From sets the source emitter. Forwards from a previous source are removed.
func (p *Proxy) From(source Source) *Proxy {
	p.mu.Lock()
	var stale map[string]func()
	if p.source != source {
		stale = p.forwarded
		p.forwarded = make(map[string]func(), len(p.events))
		p.generation++
	}
	p.source = source
	p.mu.Unlock()

	unsubscribe(stale)
	p.init()
	return p
}

// Close removes every forwarding subscription. Nothing is forwarded afterwards.
func (p *Proxy) Close() {
	p.mu.Lock()
	p.closed = true
	stale := p.forwarded
	p.forwarded = make(map[string]func())
	p.generation++
	p.mu.Unlock()

	unsubscribe(stale)
}

func unsubscribe(offs map[string]func()) {
	for _, off := range offs {
		off()
	}
}

// To sets the target emitter.
func (p *Proxy) To(target Target) *Proxy {
	p.mu.Lock()
	p.target = target
	p.mu.Unlock()

	p.init()
	return p
}

func (p *Proxy) init() {
	p.mu.Lock()
	source, target := p.source, p.target
	if p.closed || source == nil || target == nil {
		p.mu.Unlock()
		return
	}
	watch := p.watched != target
	p.watched = target
	p.mu.Unlock()

	if watch {
		target.OnListenerChange(func(event string, count int) {
			p.listenerChanged(target, event, count)
		})
	}

	for _, event := range p.events {
		p.listenerChanged(target, event, target.ListenerCount(event))
	}
}

func (p *Proxy) listenerChanged(target Target, event string, count int) {
	if _, ok := p.known[event]; !ok {
		return
	}

	p.mu.Lock()
	if p.closed || target != p.target {
		p.mu.Unlock()
		return
	}
	p.listeners[event] = count
	if _, ok := p.forwarded[event]; count < 1 || ok {
		p.mu.Unlock()
		return
	}
	// reserve the slot so concurrent changes don't subscribe twice
	p.forwarded[event] = func() {}
	source, generation := p.source, p.generation
	p.mu.Unlock()

	off := source.On(event, func(args ...any) {
		target.Emit(event, args...)
	})

	p.mu.Lock()
	current := generation == p.generation
	if current {
		p.forwarded[event] = off
	}
	p.mu.Unlock()
	if !current {
		off()
	}
}

// Forwarding reports whether a forwarding subscription exists for event.
func (p *Proxy) Forwarding(event string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.forwarded[event]
	return ok
}

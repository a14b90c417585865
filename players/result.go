package players

import (
	"context"
	"sync"

	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/errortypes"
	"github.com/prebid/vast-player/vpaid"
)

// result is settled exactly once, by whichever host callback gets there first.
type result struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newResult() *result {
	return &result{done: make(chan struct{})}
}

func (r *result) settle(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

func (r *result) wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failOn settles r with an error if e reports AdError, or AdStopped while r waits for
// something else.
func failOn(e *emitter.Emitter, r *result, awaiting string) (off func()) {
	offs := []func(){
		e.Once(vpaid.AdError, func(args ...any) {
			r.settle(hostFailure(args))
		}),
	}
	if awaiting != vpaid.AdStopped {
		offs = append(offs, e.Once(vpaid.AdStopped, func(args ...any) {
			r.settle(errStopped())
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// session owns everything a backend attached while loading an ad. Closing it runs the
// registered cleanups in reverse order, once, and fails the load if it is still pending.
type session struct {
	result *result

	mu       sync.Mutex
	closed   bool
	cleanups []func()
}

func newSession() *session {
	return &session{result: newResult()}
}

func (s *session) onClose(fn func()) {
	s.mu.Lock()
	if !s.closed {
		s.cleanups = append(s.cleanups, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

func (s *session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *session) close(reason error) {
	s.mu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.closed = true
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	s.result.settle(reason)
}

// await blocks until the session's load settles. A load that fails, including by ctx
// expiring, leaves nothing attached.
func (s *session) await(ctx context.Context) error {
	if err := s.result.wait(ctx); err != nil {
		s.close(err)
		return err
	}
	return nil
}

func hostFailure(args []any) error {
	message, _ := arg(args, 0).(string)
	if message == "" {
		message = "The ad reported an error."
	}
	return &errortypes.HostFailure{Message: message}
}

func errStopped() error {
	return &errortypes.NotLoaded{Message: "The ad was stopped."}
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

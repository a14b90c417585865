package players

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/golang/glog"

	"github.com/prebid/vast-player/dom"
)

const callbackPrefix = "vast_player__"

// PluginCallback receives the events a plugin session reports.
type PluginCallback func(event dom.PluginEvent)

// CallbackRegistry holds the page-global callbacks through which plugin sessions report
// events. Each session owns one uniquely named entry from Acquire until it calls release.
type CallbackRegistry struct {
	mu        sync.RWMutex
	callbacks map[string]PluginCallback
}

// DefaultCallbackRegistry is shared by every Flash backend that is not given its own.
var DefaultCallbackRegistry = NewCallbackRegistry()

func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{callbacks: make(map[string]PluginCallback)}
}

// Acquire registers callback under a fresh token. release removes it and is safe to call
// more than once.
func (r *CallbackRegistry) Acquire(callback PluginCallback) (token string, release func()) {
	token = newToken()

	r.mu.Lock()
	r.callbacks[token] = callback
	r.mu.Unlock()

	var once sync.Once
	return token, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.callbacks, token)
			r.mu.Unlock()
		})
	}
}

// Dispatch delivers event to the callback registered under token.
func (r *CallbackRegistry) Dispatch(token string, event dom.PluginEvent) error {
	r.mu.RLock()
	callback, ok := r.callbacks[token]
	r.mu.RUnlock()

	if !ok {
		glog.Warningf("Dropping plugin event %s for unknown callback %s", event.Type, token)
		return fmt.Errorf("no plugin callback registered as %s", token)
	}
	callback(event)
	return nil
}

// Len returns the number of live callbacks.
func (r *CallbackRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callbacks)
}

// newToken returns a name usable as a script identifier.
func newToken() string {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Must(uuid.NewV4())
	}
	return callbackPrefix + strings.ReplaceAll(id.String(), "-", "")
}

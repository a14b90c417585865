package domtest

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/prebid/vast-player/dom"
	"github.com/prebid/vast-player/emitter"
	"github.com/prebid/vast-player/vpaid"
)

// Body is the document body of a Frame.
type Body struct {
	Frame *Frame
}

// Frame is an in-memory dom.Frame whose script loads synchronously.
type Frame struct {
	Unit *AdUnit
	// ScriptError, when set, makes LoadScript fail.
	ScriptError error

	mu       sync.Mutex
	rect     dom.Rect
	visible  bool
	body     *Body
	children []dom.Node
	scripts  []string
	resize   *emitter.Emitter
}

// NewFrame returns a frame whose script exposes unit.
func NewFrame(unit *AdUnit) *Frame {
	f := &Frame{
		Unit:    unit,
		rect:    dom.Rect{Width: 640, Height: 360},
		visible: true,
		resize:  emitter.New(),
	}
	f.body = &Body{Frame: f}
	return f
}

func (f *Frame) Bounds() dom.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rect
}

// Resize changes the frame size and fires its resize event.
func (f *Frame) Resize(width, height float64) {
	f.mu.Lock()
	f.rect = dom.Rect{Width: width, Height: height}
	f.mu.Unlock()
	f.resize.Emit("resize")
}

// ResizeListeners returns how many resize handlers are registered.
func (f *Frame) ResizeListeners() int {
	return f.resize.ListenerCount("resize")
}

func (f *Frame) SetVisible(visible bool) {
	f.mu.Lock()
	f.visible = visible
	f.mu.Unlock()
}

// Visible reports the last value passed to SetVisible.
func (f *Frame) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *Frame) Body() dom.Node {
	return f.body
}

func (f *Frame) AppendChild(node dom.Node) {
	f.mu.Lock()
	f.children = append(f.children, node)
	f.mu.Unlock()
}

// Children returns the nodes appended to the frame body.
func (f *Frame) Children() []dom.Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dom.Node(nil), f.children...)
}

// Scripts returns the script URIs loaded into the frame.
func (f *Frame) Scripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scripts...)
}

func (f *Frame) LoadScript(uri string, onload func(), onerror func(err error)) {
	f.mu.Lock()
	f.scripts = append(f.scripts, uri)
	f.mu.Unlock()

	if f.ScriptError != nil {
		onerror(f.ScriptError)
		return
	}
	onload()
}

func (f *Frame) AdUnit() (dom.ScriptAdUnit, error) {
	if f.Unit == nil {
		return nil, errors.New("getVPAIDAd is not defined")
	}
	return f.Unit, nil
}

func (f *Frame) OnResize(fn func()) func() {
	return f.resize.On("resize", func(args ...any) { fn() })
}

// Dispatcher delivers a plugin event to the callback registered under token.
type Dispatcher func(token string, event dom.PluginEvent) error

// PluginObject is an in-memory dom.PluginObject. Its ad unit reports events through the
// callback named in the object's flashvars, and it announces VPAIDInterfaceReady when
// attached unless Manual is set.
type PluginObject struct {
	*AdUnit

	Params   dom.PluginParams
	Manual   bool
	dispatch Dispatcher

	mu      sync.Mutex
	rect    dom.Rect
	visible bool
	errs    []error
}

// NewPluginObject returns a plugin object wrapping unit which reports through dispatch.
func NewPluginObject(unit *AdUnit, dispatch Dispatcher) *PluginObject {
	p := &PluginObject{
		AdUnit:   unit,
		dispatch: dispatch,
		rect:     dom.Rect{Width: 640, Height: 360},
		visible:  true,
	}
	unit.deliver = p.deliver
	return p
}

func (p *PluginObject) attached() {
	if !p.Manual {
		p.Fire(vpaid.InterfaceReady)
	}
}

// Callback returns the callback token from the object's flashvars.
func (p *PluginObject) Callback() string {
	data := p.Params.Data
	if i := strings.Index(data, "?"); i >= 0 {
		data = data[i+1:]
	}
	values, _ := url.ParseQuery(data)
	return values.Get("eventCallback")
}

// DispatchErrors returns the errors the dispatcher reported.
func (p *PluginObject) DispatchErrors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}

func (p *PluginObject) deliver(event string, args ...any) {
	if p.dispatch == nil {
		return
	}
	payload := dom.PluginEvent{Type: event}
	switch event {
	case vpaid.AdClickThru:
		payload.URL, _ = arg(args, 0).(string)
		payload.ID, _ = arg(args, 1).(string)
		payload.PlayerHandles, _ = arg(args, 2).(bool)
	case vpaid.AdInteraction, vpaid.AdLog:
		payload.ID, _ = arg(args, 0).(string)
	case vpaid.AdError:
		payload.Message, _ = arg(args, 0).(string)
	}
	if err := p.dispatch(p.Callback(), payload); err != nil {
		p.mu.Lock()
		p.errs = append(p.errs, err)
		p.mu.Unlock()
	}
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func (p *PluginObject) Bounds() dom.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rect
}

// Resize changes the object's size and announces VPAIDInterfaceResize.
func (p *PluginObject) Resize(width, height float64) {
	p.mu.Lock()
	p.rect = dom.Rect{Width: width, Height: height}
	p.mu.Unlock()
	p.Fire(vpaid.InterfaceResize)
}

func (p *PluginObject) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// Visible reports the last value passed to SetVisible.
func (p *PluginObject) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

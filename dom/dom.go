// Package dom describes the page the player runs in: the container it renders into, the
// elements it creates there and the ad units hosted by those elements. The player only talks
// to the page through these interfaces; the embedding application supplies implementations.
package dom

// Rect is the rendered size of an element, in CSS pixels.
type Rect struct {
	Width  float64
	Height float64
}

// Node is anything that can be attached to a Container.
type Node interface{}

// Container is the element an ad renders into. It is exclusively owned by the active backend.
type Container interface {
	Bounds() Rect
	AppendChild(node Node)
	RemoveChild(node Node)
	Document() Document
}

// Document creates elements and opens new browsing contexts.
type Document interface {
	CreateVideo() MediaElement
	CreateFrame() Frame
	CreatePluginObject(params PluginParams) PluginObject
	// Open navigates a new browsing context to url.
	Open(url string)
}

// MediaElement is a native video element.
type MediaElement interface {
	SetSource(uri string)
	// Play asks the element to start or resume playback. A non-nil error means the element
	// refused.
	Play() error
	Pause()
	Paused() bool
	CurrentTime() float64
	Duration() float64
	Volume() float64
	SetVolume(volume float64)
	// Err returns the element's current media error, if any.
	Err() error
	// Listen registers fn for a native media event (see MediaEvents) or "click".
	Listen(event string, fn func()) (cancel func())
}

// Frame is an isolated script execution context, such as an about:blank iframe.
type Frame interface {
	Bounds() Rect
	SetVisible(visible bool)
	// Body is the frame's document body, handed to creatives as their slot.
	Body() Node
	AppendChild(node Node)
	// LoadScript injects a script element. Exactly one of onload and onerror is called.
	LoadScript(uri string, onload func(), onerror func(err error))
	// AdUnit returns the ad unit the loaded script exposes via getVPAIDAd().
	AdUnit() (ScriptAdUnit, error)
	OnResize(fn func()) (cancel func())
}

// PluginParam is one <param> of a plugin object.
type PluginParam struct {
	Name  string
	Value string
}

// PluginParams describes the plugin object to embed.
type PluginParams struct {
	Type   string
	Data   string
	Params []PluginParam
}

// PluginObject is an embedded plugin. Once the plugin runtime is ready it exposes the ad unit
// interface directly on the element.
type PluginObject interface {
	AdUnit
	Bounds() Rect
	SetVisible(visible bool)
}

// PluginEvent is the payload a plugin delivers through its registered callback.
type PluginEvent struct {
	Type          string
	URL           string
	ID            string
	PlayerHandles bool
	Message       string
}

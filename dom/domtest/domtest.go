// Package domtest provides in-memory implementations of the dom interfaces for tests.
package domtest

import (
	"sync"

	"github.com/prebid/vast-player/dom"
)

type attachable interface {
	attached()
}

// Container is an in-memory dom.Container.
type Container struct {
	mu       sync.Mutex
	Rect     dom.Rect
	Doc      *Document
	children []dom.Node
}

// NewContainer returns an empty container of the given size with its own Document.
func NewContainer(width, height float64) *Container {
	return &Container{
		Rect: dom.Rect{Width: width, Height: height},
		Doc:  NewDocument(),
	}
}

func (c *Container) Bounds() dom.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Rect
}

// Resize changes the reported bounds.
func (c *Container) Resize(width, height float64) {
	c.mu.Lock()
	c.Rect = dom.Rect{Width: width, Height: height}
	c.mu.Unlock()
}

func (c *Container) AppendChild(node dom.Node) {
	c.mu.Lock()
	c.children = append(c.children, node)
	c.mu.Unlock()

	if a, ok := node.(attachable); ok {
		a.attached()
	}
}

func (c *Container) RemoveChild(node dom.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, child := range c.children {
		if child == node {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// Children returns the attached nodes.
func (c *Container) Children() []dom.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dom.Node(nil), c.children...)
}

func (c *Container) Document() dom.Document {
	return c.Doc
}

// Document is an in-memory dom.Document. The New* fields prepare the elements it creates.
type Document struct {
	mu sync.Mutex

	NewVideo  func() *Video
	NewFrame  func() *Frame
	NewPlugin func(params dom.PluginParams) *PluginObject

	Videos  []*Video
	Frames  []*Frame
	Plugins []*PluginObject
	Opened  []string
}

// NewDocument returns a Document creating default elements.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) CreateVideo() dom.MediaElement {
	v := NewVideo()
	if d.NewVideo != nil {
		v = d.NewVideo()
	}
	d.mu.Lock()
	d.Videos = append(d.Videos, v)
	d.mu.Unlock()
	return v
}

func (d *Document) CreateFrame() dom.Frame {
	f := NewFrame(NewAdUnit())
	if d.NewFrame != nil {
		f = d.NewFrame()
	}
	d.mu.Lock()
	d.Frames = append(d.Frames, f)
	d.mu.Unlock()
	return f
}

func (d *Document) CreatePluginObject(params dom.PluginParams) dom.PluginObject {
	var p *PluginObject
	if d.NewPlugin != nil {
		p = d.NewPlugin(params)
	} else {
		p = NewPluginObject(NewAdUnit(), nil)
	}
	p.Params = params
	d.mu.Lock()
	d.Plugins = append(d.Plugins, p)
	d.mu.Unlock()
	return p
}

func (d *Document) Open(url string) {
	d.mu.Lock()
	d.Opened = append(d.Opened, url)
	d.mu.Unlock()
}

// OpenedURLs returns every URL passed to Open.
func (d *Document) OpenedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Opened...)
}

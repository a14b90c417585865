// Package vast reads the parts of a VAST document a player acts on: the media files of the
// first linear creative, its ad parameters, and the beacons to fire as the ad plays.
package vast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// Tracking is one <Tracking> beacon of a linear creative.
type Tracking struct {
	Event string
	URI   string
}

// Manifest is a parsed VAST document. When it was reached through wrapper ads, the beacons
// of every wrapper come before its own.
type Manifest struct {
	doc *etree.Document
	ad  *etree.Element
	// outermost first
	wrappers []*Manifest
}

// Parse reads a VAST document. It does not validate it.
func Parse(data []byte) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("Error parsing VAST XML. '%v'", err)
	}
	return &Manifest{
		doc: doc,
		ad:  doc.FindElement("VAST/Ad"),
	}, nil
}

func (m *Manifest) withWrappers(wrappers []*Manifest) *Manifest {
	return &Manifest{doc: m.doc, ad: m.ad, wrappers: wrappers}
}

// Wrappers returns the wrapper documents that led to m, outermost first.
func (m *Manifest) Wrappers() []*Manifest {
	return m.wrappers
}

func (m *Manifest) Version() string {
	if root := m.doc.Root(); root != nil {
		return root.SelectAttrValue("version", "")
	}
	return ""
}

func (m *Manifest) IsWrapper() bool {
	return m.ad != nil && m.ad.SelectElement("Wrapper") != nil
}

// AdTagURI is where a wrapper ad points to.
func (m *Manifest) AdTagURI() string {
	if !m.IsWrapper() {
		return ""
	}
	return textOf(m.ad.FindElement("Wrapper/VASTAdTagURI"))
}

// body is the <InLine> or <Wrapper> of the first ad.
func (m *Manifest) body() *etree.Element {
	if m.ad == nil {
		return nil
	}
	if inline := m.ad.SelectElement("InLine"); inline != nil {
		return inline
	}
	return m.ad.SelectElement("Wrapper")
}

// linear is the first linear creative of the first ad.
func (m *Manifest) linear() *etree.Element {
	body := m.body()
	if body == nil {
		return nil
	}
	return body.FindElement("Creatives/Creative/Linear")
}

func (m *Manifest) MediaFiles() []MediaFile {
	linear := m.linear()
	if linear == nil {
		return nil
	}
	return lo.Map(linear.FindElements("MediaFiles/MediaFile"), func(el *etree.Element, _ int) MediaFile {
		return parseMediaFile(el)
	})
}

// FilterMediaFiles returns the media files keep accepts, in document order.
func (m *Manifest) FilterMediaFiles(keep func(MediaFile) bool) []MediaFile {
	return lo.Filter(m.MediaFiles(), func(file MediaFile, _ int) bool {
		return keep(file)
	})
}

func (m *Manifest) AdParameters() string {
	linear := m.linear()
	if linear == nil {
		return ""
	}
	return textOf(linear.SelectElement("AdParameters"))
}

// ClickThrough is the landing page of the inline creative.
func (m *Manifest) ClickThrough() string {
	linear := m.linear()
	if linear == nil {
		return ""
	}
	return textOf(linear.FindElement("VideoClicks/ClickThrough"))
}

func (m *Manifest) Impressions() []string {
	return collect(m, func(doc *Manifest) []string {
		if body := doc.body(); body != nil {
			return texts(body.SelectElements("Impression"))
		}
		return nil
	})
}

func (m *Manifest) Errors() []string {
	return collect(m, func(doc *Manifest) []string {
		if body := doc.body(); body != nil {
			return texts(body.SelectElements("Error"))
		}
		return nil
	})
}

func (m *Manifest) TrackingEvents() []Tracking {
	return collect(m, func(doc *Manifest) []Tracking {
		linear := doc.linear()
		if linear == nil {
			return nil
		}
		return lo.FilterMap(linear.FindElements("TrackingEvents/Tracking"), func(el *etree.Element, _ int) (Tracking, bool) {
			uri := textOf(el)
			return Tracking{Event: el.SelectAttrValue("event", ""), URI: uri}, uri != ""
		})
	})
}

func (m *Manifest) ClickTrackings() []string {
	return collect(m, func(doc *Manifest) []string {
		if linear := doc.linear(); linear != nil {
			return texts(linear.FindElements("VideoClicks/ClickTracking"))
		}
		return nil
	})
}

// Get reads the first element matching path, an etree path relative to the document such as
// "VAST/Ad/InLine/AdTitle". A last segment of the form "@name" reads that attribute instead.
// Get reports false when nothing matches.
func (m *Manifest) Get(path string) (string, bool) {
	attr := ""
	if i := strings.LastIndex(path, "/@"); i >= 0 {
		path, attr = path[:i], path[i+2:]
	}
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return "", false
	}
	el := m.doc.FindElementPath(compiled)
	if el == nil {
		return "", false
	}
	if attr == "" {
		return textOf(el), true
	}
	if a := el.SelectAttr(attr); a != nil {
		return a.Value, true
	}
	return "", false
}

// XML writes the document back out.
func (m *Manifest) XML() ([]byte, error) {
	return m.doc.WriteToBytes()
}

func collect[T any](m *Manifest, read func(*Manifest) []T) []T {
	var all []T
	for _, wrapper := range m.wrappers {
		all = append(all, read(wrapper)...)
	}
	return append(all, read(m)...)
}

func texts(elements []*etree.Element) []string {
	return lo.FilterMap(elements, func(el *etree.Element, _ int) (string, bool) {
		text := textOf(el)
		return text, text != ""
	})
}

func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func parseMediaFile(el *etree.Element) MediaFile {
	return MediaFile{
		ID:                  el.SelectAttrValue("id", ""),
		Delivery:            el.SelectAttrValue("delivery", ""),
		Type:                el.SelectAttrValue("type", ""),
		URI:                 textOf(el),
		APIFramework:        el.SelectAttrValue("apiFramework", ""),
		Bitrate:             intAttr(el, "bitrate", intAttr(el, "maxBitrate", 0)),
		Width:               intAttr(el, "width", 0),
		Height:              intAttr(el, "height", 0),
		Scalable:            boolAttr(el, "scalable"),
		MaintainAspectRatio: boolAttr(el, "maintainAspectRatio"),
	}
}

func intAttr(el *etree.Element, name string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue(name, "")))
	if err != nil {
		return fallback
	}
	return value
}

func boolAttr(el *etree.Element, name string) bool {
	value, _ := strconv.ParseBool(strings.TrimSpace(el.SelectAttrValue(name, "")))
	return value
}

// Package environment answers what the current page can play.
package environment

import (
	"strings"

	"github.com/mssola/user_agent"

	"github.com/prebid/vast-player/vpaid"
)

// Playability is how confident the environment is that it can play a content type.
type Playability int

const (
	Unplayable Playability = iota
	MaybePlayable
	ProbablyPlayable
)

// Capabilities abstracts plugin availability and native media-type support.
type Capabilities interface {
	CanPlay(mimeType string) Playability
	IsDesktop() bool
}

// MediaProber answers the way HTMLMediaElement.canPlayType does: "probably", "maybe" or "".
type MediaProber interface {
	CanPlayType(mimeType string) string
}

// Environment implements Capabilities from a user agent string, the list of installed
// plugin MIME types, and a native media prober.
type Environment struct {
	desktop bool
	plugins map[string]struct{}
	prober  MediaProber
}

// New classifies userAgent once. prober may be nil, in which case no native type is
// playable.
func New(userAgent string, pluginMIMETypes []string, prober MediaProber) *Environment {
	plugins := make(map[string]struct{}, len(pluginMIMETypes))
	for _, mimeType := range pluginMIMETypes {
		plugins[strings.ToLower(mimeType)] = struct{}{}
	}
	return &Environment{
		desktop: isDesktop(userAgent),
		plugins: plugins,
		prober:  prober,
	}
}

func (e *Environment) IsDesktop() bool {
	return e.desktop
}

func (e *Environment) CanPlay(mimeType string) Playability {
	switch strings.ToLower(mimeType) {
	case vpaid.MIMEFlash:
		if _, ok := e.plugins[vpaid.MIMEFlash]; ok {
			return ProbablyPlayable
		}
		return Unplayable
	case vpaid.MIMEJavaScript, vpaid.MIMEXJavaScript:
		return ProbablyPlayable
	}

	if e.prober == nil {
		return Unplayable
	}
	switch e.prober.CanPlayType(mimeType) {
	case "probably":
		return ProbablyPlayable
	case "maybe":
		return MaybePlayable
	default:
		return Unplayable
	}
}

var mobileMarkers = []string{"Android", "Silk", "Mobile", "PlayBook"}

func isDesktop(userAgent string) bool {
	ua := user_agent.New(userAgent)
	if ua.Mobile() {
		return false
	}
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return false
		}
	}
	return true
}

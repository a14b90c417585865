package environment

import "strings"

// StaticProber answers canPlayType from a fixed table keyed by MIME type, for hosts with no
// real media stack to ask.
type StaticProber map[string]string

// DefaultProber reflects what a current desktop browser reports for common ad encodings.
var DefaultProber = StaticProber{
	"video/mp4":       "probably",
	"video/webm":      "probably",
	"video/ogg":       "maybe",
	"video/3gpp":      "maybe",
	"video/quicktime": "maybe",
}

func (p StaticProber) CanPlayType(mimeType string) string {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	return p[base]
}

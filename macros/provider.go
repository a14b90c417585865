package macros

import (
	"encoding/binary"
	"fmt"
	"net/url"
	"time"

	"github.com/gofrs/uuid"
)

// Standard VAST macro names, as they appear between brackets in beacon URLs.
const (
	MacroKeyErrorCode    = "ERRORCODE"
	MacroKeyCacheBusting = "CACHEBUSTING"
	MacroKeyTimestamp    = "TIMESTAMP"
)

// ErrorCodeUndefined is the VAST error code for an undefined VPAID error.
const ErrorCodeUndefined = "901"

type Provider interface {
	// GetMacro returns the value for key, and whether the provider knows key at all
	GetMacro(key string) (string, bool)
}

// StaticProvider serves fixed values, URL encoded.
type StaticProvider map[string]string

func (p StaticProvider) GetMacro(key string) (string, bool) {
	value, ok := p[key]
	if !ok {
		return "", false
	}
	return url.QueryEscape(value), true
}

type standardProvider struct {
	now func() time.Time
}

// NewStandardProvider serves the macros every beacon may use regardless of event:
// CACHEBUSTING and TIMESTAMP. Values are computed on every lookup.
func NewStandardProvider() Provider {
	return &standardProvider{now: time.Now}
}

func (p *standardProvider) GetMacro(key string) (string, bool) {
	switch key {
	case MacroKeyCacheBusting:
		return cacheBuster(), true
	case MacroKeyTimestamp:
		return url.QueryEscape(p.now().UTC().Format(time.RFC3339)), true
	}
	return "", false
}

// cacheBuster returns 8 random digits.
func cacheBuster() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("%08d", time.Now().UnixNano()%100000000)
	}
	return fmt.Sprintf("%08d", binary.BigEndian.Uint64(id[:8])%100000000)
}

type chain []Provider

// Chain asks each provider in turn and returns the first known value.
func Chain(providers ...Provider) Provider {
	return chain(providers)
}

func (c chain) GetMacro(key string) (string, bool) {
	for _, p := range c {
		if value, ok := p.GetMacro(key); ok {
			return value, true
		}
	}
	return "", false
}

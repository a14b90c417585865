package vpaid

import (
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// PlayerVersion is the version this player offers during the handshake.
const PlayerVersion = "2.0"

// MaxSupportedMajor is the newest major version the player can drive.
const MaxSupportedMajor = 2

// Version is the parsed result of a handshake. Segments that are missing or not numeric are
// absent.
type Version struct {
	Major mo.Option[int]
	Minor mo.Option[int]
	Patch mo.Option[int]

	raw string
}

// ParseVersion parses "major[.minor[.patch]]". It never fails: each segment is read up to its
// first non-digit, and a segment with no leading digits is treated as absent.
func ParseVersion(version string) Version {
	parts := strings.Split(version, ".")
	segment := func(i int) mo.Option[int] {
		if i >= len(parts) {
			return mo.None[int]()
		}
		return parseSegment(parts[i])
	}

	return Version{
		Major: segment(0),
		Minor: segment(1),
		Patch: segment(2),
		raw:   version,
	}
}

func parseSegment(segment string) mo.Option[int] {
	segment = strings.TrimSpace(segment)
	end := 0
	if end < len(segment) && (segment[end] == '-' || segment[end] == '+') {
		end++
	}
	digits := end
	for end < len(segment) && segment[end] >= '0' && segment[end] <= '9' {
		end++
	}
	if end == digits {
		return mo.None[int]()
	}

	n, err := strconv.Atoi(segment[:end])
	if err != nil {
		return mo.None[int]()
	}
	return mo.Some(n)
}

// String returns the version exactly as the creative reported it.
func (v Version) String() string {
	return v.raw
}

// Supported reports whether the player can drive a creative of this version. Only the major
// segment matters, and a creative that reports no major version is given the benefit of the
// doubt.
func (v Version) Supported() bool {
	return v.Major.OrElse(0) <= MaxSupportedMajor
}

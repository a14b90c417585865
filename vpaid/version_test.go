package vpaid

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		description string
		given       string
		major       mo.Option[int]
		minor       mo.Option[int]
		patch       mo.Option[int]
	}{
		{
			description: "Full",
			given:       "1.1.0",
			major:       mo.Some(1),
			minor:       mo.Some(1),
			patch:       mo.Some(0),
		},
		{
			description: "Major And Minor",
			given:       "2.0",
			major:       mo.Some(2),
			minor:       mo.Some(0),
			patch:       mo.None[int](),
		},
		{
			description: "Major Only",
			given:       "3",
			major:       mo.Some(3),
			minor:       mo.None[int](),
			patch:       mo.None[int](),
		},
		{
			description: "Trailing Garbage In Segment",
			given:       "2.0beta.4",
			major:       mo.Some(2),
			minor:       mo.Some(0),
			patch:       mo.Some(4),
		},
		{
			description: "Malformed Segment",
			given:       "x.1",
			major:       mo.None[int](),
			minor:       mo.Some(1),
			patch:       mo.None[int](),
		},
		{
			description: "Empty",
			given:       "",
			major:       mo.None[int](),
			minor:       mo.None[int](),
			patch:       mo.None[int](),
		},
	}

	for _, test := range testCases {
		version := ParseVersion(test.given)

		assert.Equal(t, test.major, version.Major, test.description+" major")
		assert.Equal(t, test.minor, version.Minor, test.description+" minor")
		assert.Equal(t, test.patch, version.Patch, test.description+" patch")
		assert.Equal(t, test.given, version.String(), test.description+" string")
	}
}

func TestVersionEquality(t *testing.T) {
	assert.True(t, ParseVersion("2.1.0") == ParseVersion("2.1.0"))
	assert.False(t, ParseVersion("2.1") == ParseVersion("2.1.0"))
	assert.False(t, ParseVersion("2.01") == ParseVersion("2.1"))
}

func TestVersionSupported(t *testing.T) {
	assert.True(t, ParseVersion("1.0").Supported())
	assert.True(t, ParseVersion("2.0").Supported())
	assert.True(t, ParseVersion("2.9.9").Supported())
	assert.False(t, ParseVersion("3.0").Supported())
	assert.False(t, ParseVersion("10").Supported())
}

func TestIsEvent(t *testing.T) {
	assert.Len(t, Events, 26)
	assert.True(t, IsEvent(AdClickThru))
	assert.False(t, IsEvent(InterfaceReady))
	assert.False(t, IsEvent("ready"))
}

// Package vpaid holds the event vocabulary shared by every ad backend and the version
// handshake used by the interactive ones.
package vpaid

// VPAID 2.0 event names. Every backend reports its lifecycle through these, regardless of
// what the underlying host calls them.
const (
	AdLoaded               = "AdLoaded"
	AdStarted              = "AdStarted"
	AdStopped              = "AdStopped"
	AdSkipped              = "AdSkipped"
	AdSkippableStateChange = "AdSkippableStateChange"
	AdSizeChange           = "AdSizeChange"
	AdLinearChange         = "AdLinearChange"
	AdDurationChange       = "AdDurationChange"
	AdExpandedChange       = "AdExpandedChange"
	AdRemainingTimeChange  = "AdRemainingTimeChange"
	AdVolumeChange         = "AdVolumeChange"
	AdImpression           = "AdImpression"
	AdVideoStart           = "AdVideoStart"
	AdVideoFirstQuartile   = "AdVideoFirstQuartile"
	AdVideoMidpoint        = "AdVideoMidpoint"
	AdVideoThirdQuartile   = "AdVideoThirdQuartile"
	AdVideoComplete        = "AdVideoComplete"
	AdClickThru            = "AdClickThru"
	AdInteraction          = "AdInteraction"
	AdUserAcceptInvitation = "AdUserAcceptInvitation"
	AdUserMinimize         = "AdUserMinimize"
	AdUserClose            = "AdUserClose"
	AdPaused               = "AdPaused"
	AdPlaying              = "AdPlaying"
	AdLog                  = "AdLog"
	AdError                = "AdError"
)

// Events is the full vocabulary, in the order the VPAID specification lists it.
var Events = []string{
	AdLoaded,
	AdStarted,
	AdStopped,
	AdSkipped,
	AdSkippableStateChange,
	AdSizeChange,
	AdLinearChange,
	AdDurationChange,
	AdExpandedChange,
	AdRemainingTimeChange,
	AdVolumeChange,
	AdImpression,
	AdVideoStart,
	AdVideoFirstQuartile,
	AdVideoMidpoint,
	AdVideoThirdQuartile,
	AdVideoComplete,
	AdClickThru,
	AdInteraction,
	AdUserAcceptInvitation,
	AdUserMinimize,
	AdUserClose,
	AdPaused,
	AdPlaying,
	AdLog,
	AdError,
}

var eventSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Events))
	for _, event := range Events {
		set[event] = struct{}{}
	}
	return set
}()

// IsEvent reports whether name belongs to the vocabulary.
func IsEvent(name string) bool {
	_, ok := eventSet[name]
	return ok
}

// Events raised by the plugin runtime itself rather than the creative.
const (
	InterfaceReady  = "VPAIDInterfaceReady"
	InterfaceResize = "VPAIDInterfaceResize"
)

// ViewModeNormal is the only view mode this player requests.
const ViewModeNormal = "normal"

// MIME types that mark a creative encoding as interactive.
const (
	MIMEJavaScript  = "application/javascript"
	MIMEXJavaScript = "application/x-javascript"
	MIMEFlash       = "application/x-shockwave-flash"
)

// APIFramework is the MediaFile apiFramework value of interactive creatives.
const APIFramework = "VPAID"

package dom

// Native media element events.
const (
	MediaAbort          = "abort"
	MediaCanPlay        = "canplay"
	MediaCanPlayThrough = "canplaythrough"
	MediaDurationChange = "durationchange"
	MediaEmptied        = "emptied"
	MediaEncrypted      = "encrypted"
	MediaEnded          = "ended"
	MediaError          = "error"
	MediaInterruptBegin = "interruptbegin"
	MediaInterruptEnd   = "interruptend"
	MediaLoadedData     = "loadeddata"
	MediaLoadedMetadata = "loadedmetadata"
	MediaLoadStart      = "loadstart"
	MediaAudioAvailable = "mozaudioavailable"
	MediaPause          = "pause"
	MediaPlay           = "play"
	MediaPlaying        = "playing"
	MediaProgress       = "progress"
	MediaRateChange     = "ratechange"
	MediaSeeked         = "seeked"
	MediaSeeking        = "seeking"
	MediaStalled        = "stalled"
	MediaSuspend        = "suspend"
	MediaTimeUpdate     = "timeupdate"
	MediaVolumeChange   = "volumechange"
	MediaWaiting        = "waiting"
)

// Click is the user click event on an element.
const Click = "click"

// MediaEvents lists every native media event name.
var MediaEvents = []string{
	MediaAbort,
	MediaCanPlay,
	MediaCanPlayThrough,
	MediaDurationChange,
	MediaEmptied,
	MediaEncrypted,
	MediaEnded,
	MediaError,
	MediaInterruptBegin,
	MediaInterruptEnd,
	MediaLoadedData,
	MediaLoadedMetadata,
	MediaLoadStart,
	MediaAudioAvailable,
	MediaPause,
	MediaPlay,
	MediaPlaying,
	MediaProgress,
	MediaRateChange,
	MediaSeeked,
	MediaSeeking,
	MediaStalled,
	MediaSuspend,
	MediaTimeUpdate,
	MediaVolumeChange,
	MediaWaiting,
}

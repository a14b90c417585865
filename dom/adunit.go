package dom

// CreativeData is passed to initAd.
type CreativeData struct {
	AdParameters string
}

// EnvironmentVars is passed to initAd.
type EnvironmentVars struct {
	Slot                 Node
	VideoSlot            MediaElement
	VideoSlotCanAutoPlay bool
}

// AdUnit is the VPAID 2.0 ad unit API.
type AdUnit interface {
	HandshakeVersion(playerVersion string) string
	InitAd(width, height float64, viewMode string, desiredBitrate int, creativeData CreativeData, environmentVars EnvironmentVars)
	StartAd()
	StopAd()
	PauseAd()
	ResumeAd()
	ResizeAd(width, height float64, viewMode string)
	ExpandAd()
	CollapseAd()
	SkipAd()

	GetAdLinear() bool
	GetAdWidth() float64
	GetAdHeight() float64
	GetAdExpanded() bool
	GetAdSkippableState() bool
	GetAdRemainingTime() float64
	GetAdDuration() float64
	GetAdVolume() float64
	SetAdVolume(volume float64)
	GetAdCompanions() string
	GetAdIcons() bool
}

// ScriptAdUnit is an ad unit running as script, which reports events through subscriptions.
type ScriptAdUnit interface {
	AdUnit
	Subscribe(handler func(args ...any), event string)
}

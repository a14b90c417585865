package vast

import (
	"github.com/prebid/vast-player/vpaid"
)

// MediaFile is one creative encoding offered by a linear creative.
type MediaFile struct {
	ID                  string
	Delivery            string
	Type                string
	URI                 string
	APIFramework        string
	Bitrate             int
	Width               int
	Height              int
	Scalable            bool
	MaintainAspectRatio bool
}

// IsJavaScriptVPAID reports whether f is a VPAID creative implemented in script.
func (f MediaFile) IsJavaScriptVPAID() bool {
	return (f.Type == vpaid.MIMEJavaScript || f.Type == vpaid.MIMEXJavaScript) && f.APIFramework == vpaid.APIFramework
}

// IsFlashVPAID reports whether f is a VPAID creative running in the Flash plugin.
func (f MediaFile) IsFlashVPAID() bool {
	return f.Type == vpaid.MIMEFlash && f.APIFramework == vpaid.APIFramework
}

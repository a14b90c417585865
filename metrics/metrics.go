package metrics

import "time"

// LoadStatus is the outcome of loading an ad into a player backend.
type LoadStatus string

const (
	LoadStatusOK  LoadStatus = "ok"
	LoadStatusErr LoadStatus = "err"
)

func LoadStatuses() []LoadStatus {
	return []LoadStatus{
		LoadStatusOK,
		LoadStatusErr,
	}
}

// FetchStatus is the outcome of fetching a VAST tag.
type FetchStatus string

const (
	FetchStatusOK  FetchStatus = "ok"
	FetchStatusErr FetchStatus = "err"
)

func FetchStatuses() []FetchStatus {
	return []FetchStatus{
		FetchStatusOK,
		FetchStatusErr,
	}
}

// Variants lists the backend names a player load is recorded under.
func Variants() []string {
	return []string{
		"html_video",
		"javascript_vpaid",
		"flash_vpaid",
	}
}

// MetricsEngine is a generic interface to record player metrics into the desired backend.
// Fetches and loads fire once per VASTPlayer.Load call. Pixels fire once per beacon URL,
// so a single ad event usually records several of them.
type MetricsEngine interface {
	RecordManifestFetch(status FetchStatus, length time.Duration)
	RecordPlayerLoad(variant string, status LoadStatus)
	RecordPixelFired(event string)
}

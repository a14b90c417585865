package errortypes

// NotReady should be used when a player operation or ad property is accessed before the
// player has finished loading an ad.
type NotReady struct {
	Message string
}

func (err *NotReady) Error() string {
	return err.Message
}

func (err *NotReady) Code() int {
	return NotReadyErrorCode
}

func (err *NotReady) Severity() Severity {
	return SeverityWarning
}

// NotLoaded should be used when a backend has no live session, either because load has not
// completed yet or because the session was already torn down.
type NotLoaded struct {
	Message string
}

func (err *NotLoaded) Error() string {
	return err.Message
}

func (err *NotLoaded) Code() int {
	return NotLoadedErrorCode
}

func (err *NotLoaded) Severity() Severity {
	return SeverityWarning
}

// AlreadyStarted is returned when an ad which has already played is asked to start again.
type AlreadyStarted struct {
	Message string
}

func (err *AlreadyStarted) Error() string {
	return err.Message
}

func (err *AlreadyStarted) Code() int {
	return AlreadyStartedErrorCode
}

func (err *AlreadyStarted) Severity() Severity {
	return SeverityWarning
}

// NotStarted is returned when an ad is asked to resume before it was ever started.
type NotStarted struct {
	Message string
}

func (err *NotStarted) Error() string {
	return err.Message
}

func (err *NotStarted) Code() int {
	return NotStartedErrorCode
}

func (err *NotStarted) Severity() Severity {
	return SeverityWarning
}

// UnsupportedVersion should be used when the version handshake with an interactive creative
// reports a major version this player cannot drive.
//
// The session is torn down before this error is returned.
type UnsupportedVersion struct {
	Message string
}

func (err *UnsupportedVersion) Error() string {
	return err.Message
}

func (err *UnsupportedVersion) Code() int {
	return UnsupportedVersionErrorCode
}

func (err *UnsupportedVersion) Severity() Severity {
	return SeverityFatal
}

// NoPlayableMedia should be used when none of the offered creative encodings can be played by
// the selected backend in the current environment.
type NoPlayableMedia struct {
	Message string
}

func (err *NoPlayableMedia) Error() string {
	return err.Message
}

func (err *NoPlayableMedia) Code() int {
	return NoPlayableMediaErrorCode
}

func (err *NoPlayableMedia) Severity() Severity {
	return SeverityFatal
}

// HostFailure wraps an error reported by the hosting runtime: the native media element,
// the creative script or the plugin.
type HostFailure struct {
	Message string
	Cause   error
}

func (err *HostFailure) Error() string {
	return err.Message
}

func (err *HostFailure) Unwrap() error {
	return err.Cause
}

func (err *HostFailure) Code() int {
	return HostFailureErrorCode
}

func (err *HostFailure) Severity() Severity {
	return SeverityFatal
}

// FetchFailure should be used when the ad manifest could not be retrieved or parsed.
//
// No retry is performed; the caller decides whether to load again.
type FetchFailure struct {
	Message string
	Cause   error
}

func (err *FetchFailure) Error() string {
	return err.Message
}

func (err *FetchFailure) Unwrap() error {
	return err.Cause
}

func (err *FetchFailure) Code() int {
	return FetchFailureErrorCode
}

func (err *FetchFailure) Severity() Severity {
	return SeverityFatal
}

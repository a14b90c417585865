package errortypes

import "errors"

// Defines numeric codes for well-known errors.
const (
	UnknownErrorCode  = 999
	NotReadyErrorCode = iota
	NotLoadedErrorCode
	AlreadyStartedErrorCode
	NotStartedErrorCode
	UnsupportedVersionErrorCode
	NoPlayableMediaErrorCode
	HostFailureErrorCode
	FetchFailureErrorCode
)

// Coder provides an error code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	var coder Coder
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return UnknownErrorCode
}

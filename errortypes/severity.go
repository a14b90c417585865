package errortypes

import "errors"

// Severity represents how an error affects the ad session.
type Severity int

const (
	// SeverityUnknown represents an unknown severity level.
	SeverityUnknown Severity = iota

	// SeverityFatal represents an error after which the ad session no longer exists.
	SeverityFatal

	// SeverityWarning represents a usage error. The ad session, if any, is left untouched.
	SeverityWarning
)

// IsFatal returns true unless the error is labeled with a Severity other than SeverityFatal.
func IsFatal(err error) bool {
	var s Coder
	return !errors.As(err, &s) || s.Severity() == SeverityFatal
}

// IsWarning returns true if an error is labeled with a Severity of SeverityWarning.
func IsWarning(err error) bool {
	var s Coder
	return errors.As(err, &s) && s.Severity() == SeverityWarning
}

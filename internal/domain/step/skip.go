package step

import "errors"

// SkipError signals that a step chose not to act because a prerequisite
// is absent. It is an outcome, not a failure.
type SkipError struct {
	Reason string
}

// Error implements error.
func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns a *SkipError with the given reason.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// IsSkip reports whether err is, or wraps, a *SkipError, and returns it.
func IsSkip(err error) (*SkipError, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip, true
	}
	return nil, false
}

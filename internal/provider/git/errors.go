package git

import (
	"errors"
	"fmt"
)

// SyncError reports a failed git operation against a repository.
type SyncError struct {
	Op     string
	Dir    string
	URL    string
	Reason string
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("git %s failed for %s", e.Op, e.Dir)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsSyncError reports whether err is a git synchronization failure.
func IsSyncError(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr)
}

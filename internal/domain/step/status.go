package step

// Status is the probed state of a step.
type Status string

const (
	// StatusSatisfied indicates the target condition already holds.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step must mutate the host.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the state could not be determined.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// NeedsAction returns true if Apply has to run.
func (s Status) NeedsAction() bool {
	return s != StatusSatisfied
}

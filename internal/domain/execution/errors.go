package execution

import (
	"fmt"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

// FatalStepError is the failure of a mandatory step. It aborts the run;
// the host is left partially provisioned and safe to re-run.
type FatalStepError struct {
	StepID step.ID
	Err    error
}

// Error implements error.
func (e *FatalStepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.StepID, e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalStepError) Unwrap() error {
	return e.Err
}

// TolerableStepError is the failure of a best-effort step. It is logged
// and the run continues.
type TolerableStepError struct {
	StepID step.ID
	Err    error
}

// Error implements error.
func (e *TolerableStepError) Error() string {
	return fmt.Sprintf("step %s failed (tolerated): %v", e.StepID, e.Err)
}

// Unwrap returns the underlying error.
func (e *TolerableStepError) Unwrap() error {
	return e.Err
}

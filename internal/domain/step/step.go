// Package step defines the unit of host convergence: a probe of current
// state followed, when needed, by the minimal mutation reaching the target.
package step

// Step is an idempotent unit of provisioning.
// Running Apply after a NeedsApply Check and then running Check again
// must report Satisfied, or a step that always converges (such as a
// stack deploy) must be safe to repeat.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// Policy reports whether a failure aborts the run.
	Policy() Policy

	// Check probes the host. It must not mutate anything.
	Check(ctx RunContext) (Status, error)

	// Plan describes the change Apply would make.
	Plan(ctx RunContext) (Diff, error)

	// Apply performs the mutation.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain(ctx ExplainContext) Explanation
}

// Policy is the failure policy of a step.
type Policy string

const (
	// Mandatory steps establish infrastructure later steps build on; a
	// failure aborts the run.
	Mandatory Policy = "mandatory"
	// Tolerable steps manage optional or best-effort content; a failure
	// is logged and the run continues.
	Tolerable Policy = "tolerable"
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// Fatal reports whether a failure under this policy aborts the run.
func (p Policy) Fatal() bool {
	return p != Tolerable
}

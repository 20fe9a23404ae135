// Package execution runs a plan of provisioning steps strictly in order
// and records what each one did.
package execution

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

// Outcome is what happened to a step during a run.
type Outcome string

const (
	// OutcomeApplied means the step mutated the host successfully.
	OutcomeApplied Outcome = "applied"
	// OutcomeSatisfied means the target already held; nothing was done.
	OutcomeSatisfied Outcome = "satisfied"
	// OutcomeSkipped means a prerequisite was absent and the step chose not to act.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeTolerated means a tolerable step failed; the run continued.
	OutcomeTolerated Outcome = "tolerated"
	// OutcomeFailed means a mandatory step failed; the run aborted.
	OutcomeFailed Outcome = "failed"
	// OutcomePlanned means a dry run found the step would apply.
	OutcomePlanned Outcome = "planned"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{
	OutcomeApplied,
	OutcomeSatisfied,
	OutcomePlanned,
	OutcomeSkipped,
	OutcomeTolerated,
	OutcomeFailed,
}

// Result captures the outcome of one step.
type Result struct {
	stepID   step.ID
	policy   step.Policy
	outcome  Outcome
	err      error
	reason   string
	duration time.Duration
	diff     step.Diff
	summary  string
}

// NewResult creates a Result.
func NewResult(id step.ID, policy step.Policy, outcome Outcome, err error) Result {
	return Result{
		stepID:  id,
		policy:  policy,
		outcome: outcome,
		err:     err,
	}
}

// StepID returns the ID of the step.
func (r Result) StepID() step.ID { return r.stepID }

// Policy returns the failure policy the step ran under.
func (r Result) Policy() step.Policy { return r.policy }

// Outcome returns what happened.
func (r Result) Outcome() Outcome { return r.outcome }

// Error returns the failure, if any.
func (r Result) Error() error { return r.err }

// Reason returns why a step was skipped.
func (r Result) Reason() string { return r.reason }

// Duration returns how long Check and Apply took together.
func (r Result) Duration() time.Duration { return r.duration }

// Diff returns the change that was (or would be) made.
func (r Result) Diff() step.Diff { return r.diff }

// Summary returns the step's one-line explanation.
func (r Result) Summary() string { return r.summary }

// WithDuration returns a copy with duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.duration = d
	return r
}

// WithDiff returns a copy with diff set.
func (r Result) WithDiff(d step.Diff) Result {
	r.diff = d
	return r
}

// WithReason returns a copy with the skip reason set.
func (r Result) WithReason(reason string) Result {
	r.reason = reason
	return r
}

// WithSummary returns a copy with the explanation summary set.
func (r Result) WithSummary(summary string) Result {
	r.summary = summary
	return r
}

// Ledger is the ordered record of a single run. It lives only as long as
// the process; nothing is persisted.
type Ledger struct {
	results []Result
}

// NewLedger creates a Ledger holding results in order.
func NewLedger(results ...Result) *Ledger {
	l := &Ledger{}
	for _, r := range results {
		l.add(r)
	}
	return l
}

func (l *Ledger) add(r Result) {
	l.results = append(l.results, r)
}

// Results returns the results in execution order.
func (l *Ledger) Results() []Result {
	out := make([]Result, len(l.results))
	copy(out, l.results)
	return out
}

// Len returns the number of recorded results.
func (l *Ledger) Len() int {
	return len(l.results)
}

// Count returns how many steps ended with outcome.
func (l *Ledger) Count(outcome Outcome) int {
	n := 0
	for _, r := range l.results {
		if r.outcome == outcome {
			n++
		}
	}
	return n
}

// Find returns the result for id.
func (l *Ledger) Find(id string) (Result, bool) {
	for _, r := range l.results {
		if r.stepID.String() == id {
			return r, true
		}
	}
	return Result{}, false
}

// Failed returns the fatal result that aborted the run, if any.
func (l *Ledger) Failed() (Result, bool) {
	for _, r := range l.results {
		if r.outcome == OutcomeFailed {
			return r, true
		}
	}
	return Result{}, false
}

// Summary returns counts for every outcome that occurred.
func (l *Ledger) Summary() string {
	parts := make([]string, 0, len(Outcomes))
	for _, o := range Outcomes {
		if n := l.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		return "no steps run"
	}
	return strings.Join(parts, ", ")
}

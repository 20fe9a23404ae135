package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/homestack/internal/adapters/logging"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Sequencer runs a Plan one step at a time, check-then-act.
// It holds no host state; each Run starts from a fresh probe.
type Sequencer struct {
	logger ports.Logger
	dryRun bool
	now    func() time.Time
	phase  Phase
}

// NewSequencer creates a Sequencer logging to logger.
func NewSequencer(logger ports.Logger) *Sequencer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Sequencer{
		logger: logger,
		now:    time.Now,
		phase:  PhaseIdle,
	}
}

// WithDryRun returns a Sequencer that only checks and plans.
// A dry run never aborts: every step is probed so the full picture is reported.
func (s *Sequencer) WithDryRun(dryRun bool) *Sequencer {
	return &Sequencer{
		logger: s.logger,
		dryRun: dryRun,
		now:    s.now,
		phase:  PhaseIdle,
	}
}

// Phase returns the lifecycle phase the last Run ended in.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Run executes plan in order. It returns the ledger of outcomes and, when
// a mandatory step failed, a *FatalStepError; the remaining steps are not
// attempted. Cancellation of ctx is honoured between steps.
func (s *Sequencer) Run(ctx context.Context, plan *Plan) (*Ledger, error) {
	lc, err := newLifecycle()
	if err != nil {
		return nil, err
	}
	defer lc.stop()

	lc.send(eventStart)
	s.phase = lc.phase()

	ledger := &Ledger{}
	steps := plan.Steps()
	rc := step.NewRunContext(ctx).WithDryRun(s.dryRun).WithLogger(s.logger)

	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			s.logger.Error(ctx, "run interrupted", ports.F("before", st.ID().String()), ports.F("error", err))
			lc.send(eventAbort)
			s.phase = lc.phase()
			return ledger, err
		}

		result := s.runStep(rc, st, i+1, len(steps))
		ledger.add(result)

		if result.Outcome() == OutcomeFailed && !s.dryRun {
			lc.send(eventAbort)
			s.phase = lc.phase()
			return ledger, result.Error()
		}
	}

	lc.send(eventFinish)
	s.phase = lc.phase()
	return ledger, nil
}

func (s *Sequencer) runStep(rc step.RunContext, st step.Step, n, total int) Result {
	id := st.ID()
	logger := s.logger.With(ports.F("step", id.String()))
	rc = rc.WithLogger(logger)
	ctx := rc.Context()

	summary := st.Explain(step.NewExplainContext()).Summary()
	logger.Info(ctx, fmt.Sprintf("[%d/%d] %s", n, total, summary))

	start := s.now()
	base := func(outcome Outcome, err error) Result {
		return NewResult(id, st.Policy(), outcome, err).
			WithSummary(summary).
			WithDuration(s.now().Sub(start))
	}

	status, err := st.Check(rc)
	if err == nil && !status.NeedsAction() {
		logger.Info(ctx, "already satisfied")
		return base(OutcomeSatisfied, nil)
	}

	var diff step.Diff
	if err == nil {
		diff, err = st.Plan(rc)
	}

	if err == nil && s.dryRun {
		if !diff.IsEmpty() {
			logger.Info(ctx, "would apply", ports.F("change", diff.Summary()))
		}
		return base(OutcomePlanned, nil).WithDiff(diff)
	}

	if err == nil {
		err = st.Apply(rc)
	}

	if err == nil {
		logger.Info(ctx, "applied", ports.F("took", s.now().Sub(start).Round(time.Millisecond)))
		return base(OutcomeApplied, nil).WithDiff(diff)
	}

	if skip, ok := step.IsSkip(err); ok {
		logger.Warn(ctx, "skipped", ports.F("reason", skip.Reason))
		return base(OutcomeSkipped, nil).WithReason(skip.Reason)
	}

	if st.Policy().Fatal() {
		logger.Error(ctx, "failed", ports.F("error", err))
		return base(OutcomeFailed, &FatalStepError{StepID: id, Err: err}).WithDiff(diff)
	}

	logger.Warn(ctx, "failed, continuing", ports.F("error", err))
	return base(OutcomeTolerated, &TolerableStepError{StepID: id, Err: err}).WithDiff(diff)
}

// Package app wires configuration, providers and the sequencer into a
// provisioning run.
package app

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/homestack/internal/adapters/accounts"
	"github.com/felixgeelhaar/homestack/internal/adapters/command"
	"github.com/felixgeelhaar/homestack/internal/adapters/filesystem"
	"github.com/felixgeelhaar/homestack/internal/adapters/logging"
	"github.com/felixgeelhaar/homestack/internal/domain/execution"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Homestack is the main application orchestrator.
type Homestack struct {
	runner   ports.CommandRunner
	fs       ports.FileSystem
	accounts ports.AccountLookup
	logger   ports.Logger
	out      io.Writer
	now      func() time.Time
	newRunID func() string
}

// Option configures Homestack.
type Option func(*Homestack)

// WithRunner replaces the host command runner.
func WithRunner(r ports.CommandRunner) Option {
	return func(h *Homestack) { h.runner = r }
}

// WithFileSystem replaces the host filesystem.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(h *Homestack) { h.fs = fs }
}

// WithAccounts replaces the account lookup.
func WithAccounts(a ports.AccountLookup) Option {
	return func(h *Homestack) { h.accounts = a }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(h *Homestack) { h.now = now }
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(fn func() string) Option {
	return func(h *Homestack) { h.newRunID = fn }
}

// New creates a Homestack acting on the real host.
func New(out io.Writer, logger ports.Logger, opts ...Option) *Homestack {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	h := &Homestack{
		runner:   command.NewRealRunner().WithEnv("LC_ALL=C"),
		fs:       filesystem.NewRealFileSystem(),
		accounts: accounts.NewLookup(),
		logger:   logger,
		out:      out,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Apply converges the host to b.
func (h *Homestack) Apply(ctx context.Context, b hostconfig.Bundle) (*RunReport, error) {
	return h.run(ctx, b, false)
}

// Plan probes every step and reports what Apply would change. It never
// mutates the host.
func (h *Homestack) Plan(ctx context.Context, b hostconfig.Bundle) (*RunReport, error) {
	return h.run(ctx, b, true)
}

func (h *Homestack) run(ctx context.Context, b hostconfig.Bundle, dryRun bool) (*RunReport, error) {
	runID := h.newRunID()
	logger := h.logger.With(ports.F("run_id", runID))
	ctx = ports.ContextWithLogger(ctx, logger)

	plan, err := h.BuildPlan(b)
	if err != nil {
		return nil, err
	}

	started := h.now()
	logger.Info(ctx, "provisioning started",
		ports.F("user", b.TargetUser),
		ports.F("steps", plan.Len()),
		ports.F("dry_run", dryRun))

	seq := execution.NewSequencer(logger).WithDryRun(dryRun)
	ledger, runErr := seq.Run(ctx, plan)

	report := &RunReport{
		RunID:    runID,
		Bundle:   b,
		Ledger:   ledger,
		Phase:    seq.Phase(),
		DryRun:   dryRun,
		Started:  started,
		Finished: h.now(),
		Err:      runErr,
	}

	if runErr != nil {
		logger.Error(ctx, "provisioning aborted", ports.F("summary", ledger.Summary()), ports.F("error", runErr))
		return report, runErr
	}
	logger.Info(ctx, "provisioning finished",
		ports.F("summary", ledger.Summary()),
		ports.F("took", report.Took().Round(time.Millisecond)))
	return report, nil
}

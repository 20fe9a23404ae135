package step

import (
	"context"

	"github.com/felixgeelhaar/homestack/internal/adapters/logging"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// RunContext carries what a step needs while checking or applying.
type RunContext struct {
	ctx    context.Context
	dryRun bool
	logger ports.Logger
}

// NewRunContext creates a RunContext. The logger is taken from ctx when
// present, otherwise a no-op logger is used.
func NewRunContext(ctx context.Context) RunContext {
	logger := ports.LoggerFromContext(ctx)
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return RunContext{ctx: ctx, logger: logger}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// Logger returns the logger for the current step.
func (r RunContext) Logger() ports.Logger {
	return r.logger
}

// WithDryRun returns a copy with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	r.dryRun = dryRun
	return r
}

// WithLogger returns a copy using logger.
func (r RunContext) WithLogger(logger ports.Logger) RunContext {
	r.logger = logger
	r.ctx = ports.ContextWithLogger(r.ctx, logger)
	return r
}

// ExplainContext provides context for generating step explanations.
type ExplainContext struct {
	verbose bool
}

// NewExplainContext creates a new ExplainContext.
func NewExplainContext() ExplainContext {
	return ExplainContext{}
}

// Verbose returns whether verbose explanations are requested.
func (e ExplainContext) Verbose() bool {
	return e.verbose
}

// WithVerbose returns a copy with verbose mode set.
func (e ExplainContext) WithVerbose(verbose bool) ExplainContext {
	e.verbose = verbose
	return e
}

package command

import (
	"context"
	"time"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// LoggingRunner surfaces every invocation and its output on the log channel.
type LoggingRunner struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// WithLogging decorates runner with logging.
func WithLogging(runner ports.CommandRunner, logger ports.Logger) *LoggingRunner {
	return &LoggingRunner{runner: runner, logger: logger}
}

// Run executes the command and logs the call, exit status and output.
func (l *LoggingRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	logger := l.logger
	if fromCtx := ports.LoggerFromContext(ctx); fromCtx != nil {
		logger = fromCtx
	}

	call := ports.CommandCall{Command: command, Args: args}
	logger.Debug(ctx, "exec", ports.F("cmd", call.String()))

	start := time.Now()
	result, err := l.runner.Run(ctx, command, args...)
	took := time.Since(start).Round(time.Millisecond)

	switch {
	case err != nil:
		logger.Warn(ctx, "command could not run", ports.F("cmd", call.String()), ports.F("error", err))
	case !result.Success():
		logger.Warn(ctx, "command exited non-zero",
			ports.F("cmd", call.String()),
			ports.F("exit", result.ExitCode),
			ports.F("took", took),
			ports.F("output", result.Output()))
	default:
		logger.Debug(ctx, "command finished", ports.F("cmd", call.String()), ports.F("took", took))
		if out := result.Output(); out != "" {
			logger.Debug(ctx, "output", ports.F("cmd", command), ports.F("text", out))
		}
	}

	return result, err
}

var _ ports.CommandRunner = (*LoggingRunner)(nil)

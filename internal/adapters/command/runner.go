// Package command provides adapters for invoking external tools.
package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// RealRunner executes commands on the host, one attempt per call.
type RealRunner struct {
	env []string
}

// NewRealRunner creates a new RealRunner inheriting the process environment.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// WithEnv returns a runner that appends env ("KEY=value") to the
// inherited environment of every command.
func (r *RealRunner) WithEnv(env ...string) *RealRunner {
	merged := make([]string, 0, len(r.env)+len(env))
	merged = append(merged, r.env...)
	merged = append(merged, env...)
	return &RealRunner{env: merged}
}

// Run executes a command and returns the result. A non-zero exit is
// reported in the result; err is set only when the process could not run.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}

	return result, nil
}

var _ ports.CommandRunner = (*RealRunner)(nil)

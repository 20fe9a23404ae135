// Package ports defines interfaces for the host collaborators the sequencer drives.
package ports

import (
	"context"
	"fmt"
	"strings"
)

// CommandResult represents the result of executing an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Output returns trimmed stdout, falling back to stderr when stdout is empty.
func (r CommandResult) Output() string {
	if out := strings.TrimSpace(r.Stdout); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stderr)
}

// Err returns a *CommandError when the command did not succeed.
func (r CommandResult) Err(command string, args ...string) error {
	if r.Success() {
		return nil
	}
	return &CommandError{Call: CommandCall{Command: command, Args: args}, Result: r}
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// String renders the call as a single command line.
func (c CommandCall) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// CommandError reports a command that ran but exited non-zero.
type CommandError struct {
	Call   CommandCall
	Result CommandResult
}

// Error implements error.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Call.String(), e.Result.ExitCode)
	if detail := strings.TrimSpace(e.Result.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// CommandRunner executes external commands.
// A non-zero exit is reported through CommandResult, not as an error;
// the error is reserved for commands that could not be started at all.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// RunChecked runs a command and folds a non-zero exit into the returned error.
func RunChecked(ctx context.Context, runner CommandRunner, command string, args ...string) (CommandResult, error) {
	result, err := runner.Run(ctx, command, args...)
	if err != nil {
		return result, fmt.Errorf("%s: %w", CommandCall{Command: command, Args: args}.String(), err)
	}
	return result, result.Err(command, args...)
}

// Package commandutil holds helpers shared by providers that probe the
// host through external tools.
package commandutil

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// IsCommandNotFound reports whether an error indicates a missing executable.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return false
}

// Probe runs a read-only command. A missing executable is reported as
// found=false with no error, so a probe of a tool that is not installed
// yet reads as "needs apply" rather than a failure.
func Probe(ctx context.Context, runner ports.CommandRunner, command string, args ...string) (result ports.CommandResult, found bool, err error) {
	result, err = runner.Run(ctx, command, args...)
	if IsCommandNotFound(err) {
		return result, false, nil
	}
	if err != nil {
		return result, false, err
	}
	return result, true, nil
}

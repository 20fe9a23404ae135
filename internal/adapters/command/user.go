package command

import (
	"context"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// UserRunner runs every command as another local account through sudo.
// The sequencer itself runs as root; files a step creates on behalf of
// the target user (clones, virtual environments) must be owned by them.
type UserRunner struct {
	runner ports.CommandRunner
	user   string
}

// AsUser wraps runner so commands execute as user with user's HOME.
func AsUser(runner ports.CommandRunner, user string) *UserRunner {
	return &UserRunner{runner: runner, user: user}
}

// User returns the account commands run as.
func (u *UserRunner) User() string {
	return u.user
}

// Run executes command as the wrapped user.
func (u *UserRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	argv := make([]string, 0, len(args)+5)
	argv = append(argv, "-u", u.user, "-H", "--", command)
	argv = append(argv, args...)
	return u.runner.Run(ctx, "sudo", argv...)
}

var _ ports.CommandRunner = (*UserRunner)(nil)

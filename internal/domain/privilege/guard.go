// Package privilege verifies the process may mutate the host.
package privilege

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PermissionError reports that the process lacks superuser rights.
type PermissionError struct {
	EUID int
}

// Error implements error.
func (e *PermissionError) Error() string {
	return fmt.Sprintf("must be run as root (effective uid %d); re-run with sudo", e.EUID)
}

// Guard checks the effective user of the process.
type Guard struct {
	euid func() int
}

// Option configures a Guard.
type Option func(*Guard)

// WithEUID overrides how the effective UID is read.
func WithEUID(fn func() int) Option {
	return func(g *Guard) {
		g.euid = fn
	}
}

// NewGuard creates a Guard reading the real effective UID.
func NewGuard(opts ...Option) *Guard {
	g := &Guard{euid: unix.Geteuid}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Require returns a *PermissionError unless the process runs as root.
func (g *Guard) Require() error {
	if euid := g.euid(); euid != 0 {
		return &PermissionError{EUID: euid}
	}
	return nil
}

package ports

import "errors"

// ErrUnknownAccount is returned when a user account cannot be found.
var ErrUnknownAccount = errors.New("unknown user account")

// Account describes a local user account.
type Account struct {
	Name    string
	UID     int
	GID     int
	HomeDir string
}

// AccountLookup resolves local user accounts.
type AccountLookup interface {
	LookupAccount(name string) (Account, error)
}

// Package accounts resolves local user accounts from the host's user database.
package accounts

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Lookup implements ports.AccountLookup with os/user.
type Lookup struct{}

// NewLookup creates a new Lookup.
func NewLookup() *Lookup {
	return &Lookup{}
}

// LookupAccount resolves name to its uid, gid and home directory.
func (l *Lookup) LookupAccount(name string) (ports.Account, error) {
	u, err := user.Lookup(name)
	if err != nil {
		var unknown user.UnknownUserError
		if errors.As(err, &unknown) {
			return ports.Account{}, fmt.Errorf("%w: %s", ports.ErrUnknownAccount, name)
		}
		return ports.Account{}, err
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return ports.Account{}, fmt.Errorf("account %s: non-numeric uid %q", name, u.Uid)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return ports.Account{}, fmt.Errorf("account %s: non-numeric gid %q", name, u.Gid)
	}

	return ports.Account{
		Name:    u.Username,
		UID:     uid,
		GID:     gid,
		HomeDir: u.HomeDir,
	}, nil
}

var _ ports.AccountLookup = (*Lookup)(nil)

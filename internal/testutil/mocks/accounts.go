package mocks

import (
	"fmt"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Accounts is a static ports.AccountLookup.
type Accounts map[string]ports.Account

// LookupAccount returns the registered account for name.
func (a Accounts) LookupAccount(name string) (ports.Account, error) {
	if acct, ok := a[name]; ok {
		return acct, nil
	}
	return ports.Account{}, fmt.Errorf("%w: %s", ports.ErrUnknownAccount, name)
}

var _ ports.AccountLookup = Accounts(nil)

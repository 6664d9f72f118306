// Package payout manages the seller's saved bank accounts. The collection is
// owned screen state; the only invariant is that at most one account is the
// default.
package payout

import (
	"errors"

	"github.com/google/uuid"
)

// Currency is the settlement currency of a bank account.
type Currency string

const (
	CurrencyNGN  Currency = "NGN"
	CurrencyUSDC Currency = "USDC"
)

// BankAccount is one saved payout destination.
type BankAccount struct {
	ID            string
	BankName      string
	AccountNumber string
	AccountName   string
	Default       bool
	Currency      Currency
}

var (
	// ErrAccountNotFound signals an unknown account id.
	ErrAccountNotFound = errors.New("payout: account not found")
	// ErrIncomplete signals a new account missing required fields.
	ErrIncomplete = errors.New("payout: bank name, account number and account name are required")
)

// Accounts is the owned collection of a seller's bank accounts.
type Accounts struct {
	items       []BankAccount
	idGenerator func() string
}

// NewAccounts builds an empty collection.
func NewAccounts() *Accounts {
	return &Accounts{idGenerator: func() string { return uuid.NewString() }}
}

// WithIDGenerator replaces the id source. Used by tests.
func (a *Accounts) WithIDGenerator(gen func() string) *Accounts {
	a.idGenerator = gen
	return a
}

// List returns a copy of the accounts in insertion order.
func (a *Accounts) List() []BankAccount {
	out := make([]BankAccount, len(a.items))
	copy(out, a.items)
	return out
}

// Add appends an account. The first account always becomes the default; an
// account added as default demotes the previous one.
func (a *Accounts) Add(account BankAccount) (BankAccount, error) {
	if account.BankName == "" || account.AccountNumber == "" || account.AccountName == "" {
		return BankAccount{}, ErrIncomplete
	}
	account.ID = a.idGenerator()
	if len(a.items) == 0 {
		account.Default = true
	}
	if account.Default {
		for i := range a.items {
			a.items[i].Default = false
		}
	}
	a.items = append(a.items, account)
	return account, nil
}

// SetDefault marks the account as the single default.
func (a *Accounts) SetDefault(accountID string) error {
	found := false
	for i := range a.items {
		if a.items[i].ID == accountID {
			found = true
		}
	}
	if !found {
		return ErrAccountNotFound
	}
	for i := range a.items {
		a.items[i].Default = a.items[i].ID == accountID
	}
	return nil
}

// Remove deletes the account. Removing the default promotes the first
// remaining account.
func (a *Accounts) Remove(accountID string) error {
	idx := -1
	for i := range a.items {
		if a.items[i].ID == accountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrAccountNotFound
	}
	a.items = append(a.items[:idx], a.items[idx+1:]...)

	if len(a.items) == 0 {
		return nil
	}
	for i := range a.items {
		if a.items[i].Default {
			return nil
		}
	}
	a.items[0].Default = true
	return nil
}

// Default returns the current default account, if any.
func (a *Accounts) Default() (BankAccount, bool) {
	for _, acc := range a.items {
		if acc.Default {
			return acc, true
		}
	}
	return BankAccount{}, false
}

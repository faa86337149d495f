// Package ledger is the gateway to the double-entry book. A Session is
// one exclusive writable handle over the book; every operation against
// it runs serialized, and a batch holds the session for its whole
// duration rather than re-acquiring it per entry.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a resolved handle into the chart of accounts.
type Account struct {
	ID   int64
	Name string
	Path string // full dotted path from the root
	Type string
}

// Currency is a resolved commodity handle.
type Currency struct {
	ID   int64
	Code string // ISO 4217
}

// Session is the contract the posting core consumes. The concrete book
// lives in SQLite (see Open); tests substitute fakes.
type Session interface {
	// ResolveAccount walks the account tree segment by segment using
	// exact, case-sensitive child name matches. A missing segment
	// returns (nil, nil), not an error.
	ResolveAccount(dottedPath string) (*Account, error)

	// EnsureAccount resolves an account, creating any missing
	// segments along the way. Used when bootstrapping the chart.
	EnsureAccount(dottedPath string) (*Account, error)

	// LookupCurrency resolves an ISO 4217 code registered in the book.
	LookupCurrency(code string) (*Currency, error)

	// EnsureCurrency registers a currency code if it is not known yet.
	EnsureCurrency(code string) (*Currency, error)

	// Begin opens a transaction for edit. The caller must Commit or
	// Rollback the returned handle.
	Begin(date time.Time, description string, currency *Currency) (Tx, error)

	// Accounts returns the full dotted names of every account in the
	// book, sorted.
	Accounts() ([]string, error)

	// Balance sums the committed split values of one account.
	Balance(account *Account) (decimal.Decimal, error)

	// Save flushes the book to durable storage.
	Save() error

	// Close releases the session.
	Close() error
}

// Tx is an open, not yet durable transaction.
type Tx interface {
	// AddLeg attaches a signed split to the transaction.
	AddLeg(account *Account, amount decimal.Decimal) error

	// Commit makes the transaction durable. On failure nothing is
	// persisted.
	Commit() error

	// Rollback discards the half-built transaction.
	Rollback() error
}

// AccountNotFoundError reports a required account path that did not
// resolve.
type AccountNotFoundError struct {
	Path string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.Path)
}

// SessionError reports a failure of the book itself: open, save,
// close, or a storage-level transaction fault.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("ledger session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// UnknownCurrencyError reports a currency code that is not registered
// in the book.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("currency %q is not registered in the book", e.Code)
}

// Package posting turns logical money movements into balanced
// double-entry transactions against the ledger, with per-entry failure
// isolation during batch import.
package posting

import (
	"time"

	"github.com/mgaray/ledgerpost/pkg/money"
)

// Leg is one account-amount pair of a double-entry transaction. The
// amount is signed: negative decreases the account (credit, the source
// of the money), positive increases it (debit, the destination).
type Leg struct {
	AccountKey string
	Amount     money.Amount
}

// Credit builds a leg that takes value out of an account.
func Credit(accountKey string, amount money.Amount) Leg {
	return Leg{AccountKey: accountKey, Amount: money.New(amount.Value.Neg(), amount.Currency)}
}

// Debit builds a leg that puts value into an account.
func Debit(accountKey string, amount money.Amount) Leg {
	return Leg{AccountKey: accountKey, Amount: amount}
}

// Transaction is a transient, fully specified posting. It is owned by
// the Builder until commit or rollback; after commit the ledger owns
// persistence.
type Transaction struct {
	Date        time.Time
	Description string
	Currency    string
	Legs        []Leg
}

// BatchEntry is one line of an imported statement, consumed one at a
// time by PostBatch.
type BatchEntry struct {
	Date           time.Time
	Description    string
	Amount         money.Amount
	SourceKey      string
	DestinationKey string
}

// BatchFailure records one entry that could not be posted.
type BatchFailure struct {
	Entry   BatchEntry
	Kind    ErrorKind
	Message string
}

// BatchReport accumulates the outcome of a batch import.
type BatchReport struct {
	Succeeded int
	Failed    []BatchFailure
}

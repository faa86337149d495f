package posting

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/ledger"
	"github.com/mgaray/ledgerpost/pkg/money"
)

// Builder materializes balanced transactions against a ledger session.
// Leg account keys are translated through the configured short-key map
// first; a key with no mapping is taken to already be a full dotted
// path, which is how statement destinations arrive.
type Builder struct {
	session ledger.Session
	paths   map[string]string
}

// NewBuilder creates a Builder over an open session. paths maps short
// account keys to dotted account paths and may be nil.
func NewBuilder(session ledger.Session, paths map[string]string) *Builder {
	return &Builder{session: session, paths: paths}
}

// accountPath translates a leg key to a dotted path.
func (b *Builder) accountPath(key string) string {
	if path, ok := b.paths[key]; ok {
		return path
	}
	return key
}

// Post builds and commits one balanced transaction. Every leg account
// must resolve and the legs must sum to exactly zero per currency
// before anything touches the book. Once the transaction is open for
// edit, any failure rolls it back before the error surfaces, so the
// book never holds a partially posted transaction.
func (b *Builder) Post(tx Transaction) error {
	if len(tx.Legs) == 0 {
		return ErrNoLegs
	}

	// Round each leg at the posting boundary, then verify balance on
	// the rounded values.
	rounded := make([]Leg, len(tx.Legs))
	for i, leg := range tx.Legs {
		currency := leg.Amount.Currency
		if currency == "" {
			currency = tx.Currency
		}
		rounded[i] = Leg{
			AccountKey: leg.AccountKey,
			Amount:     money.New(money.RoundCents(leg.Amount.Value), currency),
		}
	}
	if err := checkBalance(rounded); err != nil {
		return err
	}

	// Resolve everything before opening the transaction so a bad key
	// never leaves a half-built edit behind.
	accounts := make([]*ledger.Account, len(rounded))
	for i, leg := range rounded {
		path := b.accountPath(leg.AccountKey)
		account, err := b.session.ResolveAccount(path)
		if err != nil {
			return fmt.Errorf("resolving %q: %w", path, err)
		}
		if account == nil {
			return &ledger.AccountNotFoundError{Path: path}
		}
		accounts[i] = account
	}

	currency, err := b.session.LookupCurrency(tx.Currency)
	if err != nil {
		return err
	}

	handle, err := b.session.Begin(tx.Date, tx.Description, currency)
	if err != nil {
		return err
	}
	for i, leg := range rounded {
		if err := handle.AddLeg(accounts[i], leg.Amount.Value); err != nil {
			if rbErr := handle.Rollback(); rbErr != nil {
				slog.Error("rollback failed", "description", tx.Description, "error", rbErr)
			}
			return fmt.Errorf("adding leg for %q: %w", leg.AccountKey, err)
		}
	}
	if err := handle.Commit(); err != nil {
		if rbErr := handle.Rollback(); rbErr != nil {
			slog.Error("rollback failed", "description", tx.Description, "error", rbErr)
		}
		return err
	}
	return nil
}

// checkBalance verifies the per-currency zero-sum invariant. The sums
// must be exactly zero, not approximately: a residual means the caller
// built bad legs, and silently coercing it would hide the bug.
func checkBalance(legs []Leg) error {
	sums := make(map[string]decimal.Decimal)
	order := []string{}
	for _, leg := range legs {
		if _, seen := sums[leg.Amount.Currency]; !seen {
			order = append(order, leg.Amount.Currency)
		}
		sums[leg.Amount.Currency] = sums[leg.Amount.Currency].Add(leg.Amount.Value)
	}
	for _, currency := range order {
		if !sums[currency].IsZero() {
			return &UnbalancedTransactionError{Currency: currency, Residual: sums[currency]}
		}
	}
	return nil
}

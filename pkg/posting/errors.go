package posting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/ledger"
	"github.com/mgaray/ledgerpost/pkg/money"
)

// ErrNoLegs is returned when a transaction is built without any legs.
var ErrNoLegs = errors.New("transaction has no legs")

// UnbalancedTransactionError reports legs that do not sum to zero in
// some currency. It indicates a caller bug, not bad input: the builder
// never auto-balances, callers must supply legs that already net to
// zero.
type UnbalancedTransactionError struct {
	Currency string
	Residual decimal.Decimal
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("transaction does not balance: residual %s %s", e.Residual, e.Currency)
}

// ErrorKind classifies a batch entry failure for the report.
type ErrorKind string

const (
	KindAccountNotFound ErrorKind = "account_not_found"
	KindInvalidInput    ErrorKind = "invalid_input"
	KindUnbalanced      ErrorKind = "unbalanced"
	KindSession         ErrorKind = "session"
)

// classify maps an error from a single posting attempt to a report
// kind.
func classify(err error) ErrorKind {
	var anf *ledger.AccountNotFoundError
	var ube *UnbalancedTransactionError
	var ife *money.InputFormatError
	switch {
	case errors.As(err, &anf):
		return KindAccountNotFound
	case errors.As(err, &ube):
		return KindUnbalanced
	case errors.As(err, &ife):
		return KindInvalidInput
	default:
		return KindSession
	}
}

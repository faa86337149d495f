// Package payroll computes gross salary components from a known net
// payment under a configured deduction schedule, and builds the ledger
// legs for the resulting payroll transaction.
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/money"
)

// RuleKind distinguishes how a deduction rule's amount is computed.
type RuleKind int

const (
	// Fixed deducts a constant amount.
	Fixed RuleKind = iota
	// Percentage deducts a percentage (0-100) of the gross.
	Percentage
)

func (k RuleKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Percentage:
		return "percentage"
	}
	return fmt.Sprintf("RuleKind(%d)", int(k))
}

// Rule is one deduction taken out of the gross salary, posted against
// its own target account.
type Rule struct {
	Name       string
	Kind       RuleKind
	Amount     decimal.Decimal // fixed amount, or percentage points 0-100
	AccountKey string
}

// AmountOn computes the rule's deduction for a given gross, rounded
// half-up to cents exactly once per rule.
func (r Rule) AmountOn(gross decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case Fixed:
		return money.RoundCents(r.Amount)
	case Percentage:
		return money.RoundCents(gross.Mul(r.Amount.Div(hundred)))
	}
	panic(fmt.Sprintf("unknown rule kind %d", int(r.Kind)))
}

// Schedule is the ordered deduction rule list, loaded once from
// configuration and never mutated at runtime.
type Schedule []Rule

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ConfigurationError reports a schedule invariant violation. It is
// fatal and surfaced before any ledger access.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid deduction schedule: " + e.Reason
}

// Validate checks the schedule invariants: amounts are non-negative and
// the percentage rules sum to strictly less than 100, otherwise the
// gross-up divisor would be zero or negative.
func (s Schedule) Validate() error {
	for _, r := range s {
		if r.Amount.IsNegative() {
			return &ConfigurationError{Reason: fmt.Sprintf("rule %q has negative amount %s", r.Name, r.Amount)}
		}
		if r.AccountKey == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("rule %q has no target account", r.Name)}
		}
	}
	if s.percentRate().GreaterThanOrEqual(one) {
		return &ConfigurationError{Reason: fmt.Sprintf("percentage deductions sum to %s%%, must stay below 100%%", s.percentRate().Mul(hundred))}
	}
	return nil
}

// fixedSum is the sum of all Fixed rule amounts.
func (s Schedule) fixedSum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range s {
		if r.Kind == Fixed {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}

// percentRate is the summed Percentage rule amounts expressed as a
// rate (0.14 for 14%).
func (s Schedule) percentRate() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range s {
		if r.Kind == Percentage {
			sum = sum.Add(r.Amount)
		}
	}
	return sum.Div(hundred)
}

package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/posting"
)

// Accounts names the short account keys a payroll posting touches.
type Accounts struct {
	IncomeKey      string // period salary income
	BonusIncomeKey string // bonus income, may equal IncomeKey
	BankKey        string // bank account receiving the net
}

// BuildLegs constructs the payroll transaction legs: credits to the
// income accounts for the gross components, one debit per deduction
// rule, and the net debit to the bank.
//
// The bank debit is not the net the user typed in. It is derived as
// gross minus the per-rule rounded deductions, re-rounded, which
// guarantees the legs net to exactly zero. The deduction math runs on
// periodGross + bonusGross (the rounded components), and the derived
// net may drift a cent from the original input; the ledger reflects
// internally consistent rounding rather than the typed value.
func BuildLegs(periodGross, bonusGross decimal.Decimal, schedule Schedule, accounts Accounts, currency string) []posting.Leg {
	gross := periodGross.Add(bonusGross)

	legs := []posting.Leg{
		posting.Credit(accounts.IncomeKey, money.New(periodGross, currency)),
	}
	if bonusGross.IsPositive() {
		legs = append(legs, posting.Credit(accounts.BonusIncomeKey, money.New(bonusGross, currency)))
	}

	net := gross
	deductions := make([]posting.Leg, 0, len(schedule))
	for _, rule := range schedule {
		amount := rule.AmountOn(gross)
		deductions = append(deductions, posting.Debit(rule.AccountKey, money.New(amount, currency)))
		net = net.Sub(amount)
	}

	legs = append(legs, posting.Debit(accounts.BankKey, money.New(money.RoundCents(net), currency)))
	return append(legs, deductions...)
}

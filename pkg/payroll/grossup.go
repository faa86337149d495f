package payroll

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mgaray/ledgerpost/pkg/money"
)

// ErrNonPositiveNet is returned when the net amount to gross up is zero
// or negative.
var ErrNonPositiveNet = errors.New("net amount must be positive")

// Result holds the computed gross components. GrossTotal is kept
// unrounded; PeriodGross and BonusGross are rounded to cents and are
// the values that get posted. PeriodGross + BonusGross is not
// guaranteed to equal GrossTotal rounded bit-for-bit; downstream
// deduction math recomputes on the rounded components.
type Result struct {
	GrossTotal  decimal.Decimal
	PeriodGross decimal.Decimal
	BonusGross  decimal.Decimal
}

// GrossUp inverts the deduction schedule to recover gross amounts from
// a known net payment. Percentage deductions apply to the gross, not
// the net, so recovering the gross means solving
//
//	net = gross - fixedSum - gross*percentRate
//
// for gross: gross = (net + fixedSum) / (1 - percentRate).
//
// When bonusBase is non-nil the bonus gross is bonusRate percent of
// that base (the best salary of the semester, supplied by the caller).
// When it is nil the bonus is assumed to be exactly one third of the
// total gross. That is an approximation inherited from how the salary
// was historically split, not tax law.
func GrossUp(net decimal.Decimal, bonusBase *decimal.Decimal, schedule Schedule, bonusRate decimal.Decimal) (Result, error) {
	if err := schedule.Validate(); err != nil {
		return Result{}, err
	}
	if !net.IsPositive() {
		return Result{}, ErrNonPositiveNet
	}

	divisor := one.Sub(schedule.percentRate())
	grossTotal := net.Add(schedule.fixedSum()).Div(divisor)

	var bonusGross decimal.Decimal
	if bonusBase != nil {
		bonusGross = money.RoundCents(bonusBase.Mul(bonusRate.Div(hundred)))
	} else {
		bonusGross = money.RoundCents(grossTotal.Div(decimal.NewFromInt(3)))
	}
	periodGross := money.RoundCents(grossTotal.Sub(bonusGross))

	return Result{
		GrossTotal:  grossTotal,
		PeriodGross: periodGross,
		BonusGross:  bonusGross,
	}, nil
}

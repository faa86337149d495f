// Package money provides exact decimal amounts and parsing of
// human-entered numeric strings. All ledger arithmetic goes through
// decimal.Decimal; binary floating point would accumulate cent-level
// drift across a statement's worth of postings.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount couples a decimal value with an ISO 4217 currency code.
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// New creates an Amount.
func New(value decimal.Decimal, currency string) Amount {
	return Amount{Value: value, Currency: currency}
}

// RoundCents rounds half-up to 2 decimal places. It is applied only at
// the point a value is about to be posted, never on intermediate ratios.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// InputFormatError reports an unparsable numeric or date string.
type InputFormatError struct {
	Input  string
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// Parse converts a numeric string to a decimal. Either ',' or '.' is
// accepted as the decimal separator, with the other character treated
// as a thousands separator. When a string carries multiple '.'
// characters, all but the last are treated as thousands separators, so
// "1.234,56", "1,234.56" and "1234.56" all parse to 1234.56.
func Parse(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, &InputFormatError{Input: s, Reason: "empty string"}
	}

	// The rightmost of ',' and '.' is the decimal separator; the other
	// character only ever groups thousands.
	var clean string
	if strings.LastIndex(trimmed, ",") > strings.LastIndex(trimmed, ".") {
		clean = strings.ReplaceAll(trimmed, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(trimmed, ",", "")
	}

	// Ambiguous "1.234.56": everything before the last dot is grouping.
	if strings.Count(clean, ".") > 1 {
		last := strings.LastIndex(clean, ".")
		clean = strings.ReplaceAll(clean[:last], ".", "") + clean[last:]
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, &InputFormatError{Input: s, Reason: "not a number"}
	}
	return d, nil
}

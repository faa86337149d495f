package posting

import (
	"fmt"
	"log/slog"

	"github.com/mgaray/ledgerpost/pkg/money"
)

// PostBatch posts statement entries one at a time, in input order, each
// as its own two-leg transaction: a credit against the entry's source
// account and a debit against its destination. A failure posting one
// entry is rolled back, recorded in the report, and never aborts the
// rest of the batch; a handful of malformed statement lines should not
// block the import.
func (b *Builder) PostBatch(entries []BatchEntry, sourceByCurrency map[string]string) BatchReport {
	var report BatchReport

	for _, entry := range entries {
		if err := b.postEntry(entry, sourceByCurrency); err != nil {
			slog.Error("batch entry failed",
				"description", entry.Description,
				"date", entry.Date.Format("2006-01-02"),
				"error", err,
			)
			report.Failed = append(report.Failed, BatchFailure{
				Entry:   entry,
				Kind:    classify(err),
				Message: err.Error(),
			})
			continue
		}
		report.Succeeded++
		slog.Info("posted",
			"description", entry.Description,
			"amount", entry.Amount.Value.StringFixed(2),
			"currency", entry.Amount.Currency,
		)
	}

	return report
}

// postEntry posts one batch entry. The source account comes from the
// entry itself when set, otherwise from the per-currency source map
// (the statement's card account for that currency).
func (b *Builder) postEntry(entry BatchEntry, sourceByCurrency map[string]string) error {
	if !entry.Amount.Value.IsPositive() {
		return &money.InputFormatError{
			Input:  entry.Amount.Value.String(),
			Reason: "statement amount must be positive",
		}
	}

	source := entry.SourceKey
	if source == "" {
		mapped, ok := sourceByCurrency[entry.Amount.Currency]
		if !ok {
			return fmt.Errorf("no source account configured for currency %q: %w",
				entry.Amount.Currency, &money.InputFormatError{Input: entry.Amount.Currency, Reason: "unsupported currency"})
		}
		source = mapped
	}

	return b.Post(Transaction{
		Date:        entry.Date,
		Description: entry.Description,
		Currency:    entry.Amount.Currency,
		Legs: []Leg{
			Credit(source, entry.Amount),
			Debit(entry.DestinationKey, entry.Amount),
		},
	})
}

// Package statement loads credit-card statement batches from YAML
// files. One file holds the entries of one card's statement; each
// entry becomes its own two-leg transaction during import.
package statement

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/posting"
)

// File is one parsed statement file.
type File struct {
	Card    string  `yaml:"card"`
	Entries []Entry `yaml:"entries"`
}

// Entry is one raw statement line as written in the file.
type Entry struct {
	Date        string `yaml:"date"`        // DD/MM/YYYY
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Currency    string `yaml:"currency"`    // optional, defaults to the chart's base currency
	Destination string `yaml:"destination"` // dotted account path or short key
}

// Load reads a statement file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse statement YAML: %w", err)
	}
	if file.Card == "" {
		return nil, fmt.Errorf("statement file %s names no card", path)
	}
	return &file, nil
}

// ParseDate parses the DD/MM/YYYY dates statements are written in.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, &money.InputFormatError{Input: s, Reason: "expected DD/MM/YYYY"}
	}
	return t, nil
}

// BatchEntries converts the raw entries into batch entries ready for
// posting. A line that fails to parse is isolated the same way a
// posting failure is: it lands in the returned failure list and the
// remaining lines still convert. defaultCurrency fills entries that
// name no currency.
func (f *File) BatchEntries(defaultCurrency string) ([]posting.BatchEntry, []posting.BatchFailure) {
	var (
		entries  []posting.BatchEntry
		failures []posting.BatchFailure
	)
	for _, raw := range f.Entries {
		currency := raw.Currency
		if currency == "" {
			currency = defaultCurrency
		}
		entry := posting.BatchEntry{
			Description:    raw.Description,
			DestinationKey: raw.Destination,
		}

		date, err := ParseDate(raw.Date)
		if err != nil {
			failures = append(failures, posting.BatchFailure{
				Entry: entry, Kind: posting.KindInvalidInput, Message: err.Error(),
			})
			continue
		}
		amount, err := money.Parse(raw.Amount)
		if err != nil {
			failures = append(failures, posting.BatchFailure{
				Entry: entry, Kind: posting.KindInvalidInput, Message: err.Error(),
			})
			continue
		}

		entry.Date = date
		entry.Amount = money.New(amount, currency)
		entries = append(entries, entry)
	}
	return entries, failures
}

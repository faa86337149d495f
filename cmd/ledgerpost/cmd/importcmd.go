package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgaray/ledgerpost/pkg/posting"
	"github.com/mgaray/ledgerpost/pkg/statement"
)

var importDryRun bool

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import <statement.yaml> [more files...]",
	Short: "Import credit-card statement batches",
	Long: `Import one or more statement files into the book.

Each statement file names a card and its entries. Every entry becomes
its own two-leg transaction: a credit against the card's liability
account for the entry's currency, and a debit against the destination
account. A failing entry is rolled back and reported; the rest of the
batch still posts.

Example:
  ledgerpost import statements/visa-2025-06.yaml
  ledgerpost import --dry-run statements/visa-2025-06.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if failed := runImport(args); failed {
			os.Exit(1)
		}
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and print entries without posting")
}

// runImport posts every statement file and reports per-entry results.
// It returns true when any entry failed, so the process can exit
// non-zero after the book is saved and closed.
func runImport(args []string) bool {
	cfg, chart := loadSetup()

	var builder *posting.Builder
	if !importDryRun {
		book, cleanup := openBook(cfg)
		defer cleanup()
		builder = posting.NewBuilder(book, chart.AccountPaths())
	}

	anyFailed := false
	for _, path := range args {
		file, err := statement.Load(path)
		exitOnError(err, "failed to load statement file")

		sources, ok := chart.CardSources(file.Card)
		if !ok {
			exitOnError(fmt.Errorf("card %q is not configured", file.Card), "unknown card")
		}

		entries, parseFailures := file.BatchEntries(chart.BaseCurrency)
		slog.Info("loaded statement", "file", path, "card", file.Card, "entries", len(entries))

		if importDryRun {
			fmt.Printf("[DRY RUN] %s (%s): %d entries parse cleanly, %d malformed\n",
				path, file.Card, len(entries), len(parseFailures))
			for _, entry := range entries {
				fmt.Printf("  %s  %-40s %12s %s -> %s\n",
					entry.Date.Format("02/01/2006"), entry.Description,
					entry.Amount.Value.StringFixed(2), entry.Amount.Currency, entry.DestinationKey)
			}
			for _, failure := range parseFailures {
				fmt.Printf("  [SKIP] %s: %s\n", failure.Entry.Description, failure.Message)
			}
			continue
		}

		report := builder.PostBatch(entries, sources)
		report.Failed = append(parseFailures, report.Failed...)

		fmt.Printf("\n=== %s (%s) ===\n", path, file.Card)
		fmt.Printf("Posted:  %d\n", report.Succeeded)
		fmt.Printf("Failed:  %d\n", len(report.Failed))
		for _, failure := range report.Failed {
			fmt.Printf("  [%s] %s: %s\n", failure.Kind, failure.Entry.Description, failure.Message)
		}
		if len(report.Failed) > 0 {
			anyFailed = true
		}
	}

	return anyFailed
}

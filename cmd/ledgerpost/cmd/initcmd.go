package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the book from the chart file",
	Long: `Create every account path named in the chart file and register
the configured currencies. Existing accounts are left untouched, so
init is safe to re-run after adding accounts to the chart.

Example:
  ledgerpost init`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, chart := loadSetup()

	session, cleanup := openBook(cfg)
	defer cleanup()

	for _, code := range chart.Currencies {
		_, err := session.EnsureCurrency(code)
		exitOnError(err, fmt.Sprintf("failed to register currency %s", code))
		slog.Debug("currency registered", "code", code)
	}

	paths := make([]string, 0, len(chart.AccountPaths()))
	for _, path := range chart.AccountPaths() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	created := 0
	for _, path := range paths {
		existing, err := session.ResolveAccount(path)
		exitOnError(err, "failed to resolve account")
		if existing != nil {
			continue
		}
		_, err = session.EnsureAccount(path)
		exitOnError(err, fmt.Sprintf("failed to create account %s", path))
		slog.Info("account created", "path", path)
		created++
	}

	fmt.Printf("Book ready: %d currencies, %d new accounts.\n", len(chart.Currencies), created)
}

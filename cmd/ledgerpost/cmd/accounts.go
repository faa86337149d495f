package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// accountsCmd represents the accounts command.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the chart of accounts",
	Long: `List the full dotted name of every account in the book,
sorted alphabetically. Copy a path from here when a command asks for a
source or destination account.

Example:
  ledgerpost accounts`,
	Run: runAccounts,
}

func runAccounts(cmd *cobra.Command, args []string) {
	cfg, _ := loadSetup()

	session, cleanup := openBook(cfg)
	defer cleanup()

	names, err := session.Accounts()
	exitOnError(err, "failed to list accounts")

	if len(names) == 0 {
		fmt.Println("The book has no accounts yet. Run `ledgerpost init` first.")
		return
	}

	fmt.Println("=== Chart of accounts ===")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("\n%d accounts\n", len(names))
}

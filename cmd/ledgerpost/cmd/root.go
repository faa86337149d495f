// Package cmd provides CLI commands for ledgerpost.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgaray/ledgerpost/pkg/config"
	"github.com/mgaray/ledgerpost/pkg/ledger"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerpost",
	Short: "Automated postings into a double-entry ledger",
	Long: `ledgerpost automates postings into a double-entry ledger book.

It supports:
- Posting a payroll transaction by grossing up a known net payment
  under the configured deduction schedule
- Posting single manual transactions
- Importing credit-card statement batches with per-entry failure isolation
- Bootstrapping and listing the chart of accounts

Example:
  ledgerpost init
  ledgerpost payroll --net 2265985.00 --bonus-base 1834099.20
  ledgerpost import statements/visa-2025-06.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(payrollCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(topupCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// bookCleanup is registered by openBook so exitOnError can save and
// close the book even though os.Exit skips deferred calls.
var bookCleanup func()

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		if bookCleanup != nil {
			bookCleanup()
		}
		os.Exit(1)
	}
}

// loadSetup loads the env config and the chart file.
func loadSetup() (*config.Config, *config.Chart) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("ledger.dbPath", "ledger.chartPath"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	chart, err := config.LoadChart(cfg.Ledger.ChartPath)
	exitOnError(err, "failed to load chart file")

	return cfg, chart
}

// openBook opens the ledger session. The returned cleanup saves and
// closes the book; it runs on every exit path once the open succeeded.
func openBook(cfg *config.Config) (*ledger.SQLiteSession, func()) {
	slog.Debug("opening book", "path", cfg.Ledger.DBPath)
	session, err := ledger.Open(cfg.Ledger.DBPath)
	exitOnError(err, "failed to open ledger book")

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true
		if err := session.Save(); err != nil {
			slog.Error("failed to save book", "error", err)
		}
		if err := session.Close(); err != nil {
			slog.Error("failed to close session", "error", err)
		}
	}
	bookCleanup = cleanup
	return session, cleanup
}

// Package main is the entry point for the ledgerpost CLI.
package main

import (
	"os"

	"github.com/mgaray/ledgerpost/cmd/ledgerpost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

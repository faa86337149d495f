// Package config provides configuration management for ledgerpost.
// Runtime settings (paths, debug) come from environment variables and
// .env files; the chart of accounts and the deduction schedule come
// from a YAML chart file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Ledger LedgerConfig
	Debug  bool
}

// LedgerConfig represents book-related configuration.
type LedgerConfig struct {
	DBPath    string // SQLite book file
	ChartPath string // YAML chart/schedule file
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Ledger: LedgerConfig{
			DBPath:    os.Getenv("LEDGER_DB_PATH"),
			ChartPath: getEnvOrDefault("LEDGER_CHART_PATH", "config/chart.yaml"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that the named required fields are set. Field names
// use dotted paths, e.g. "ledger.dbPath".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, field := range required {
		var value string
		switch field {
		case "ledger.dbPath":
			value = c.Ledger.DBPath
		case "ledger.chartPath":
			value = c.Ledger.ChartPath
		}

		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/payroll"
)

// chartFile mirrors the YAML layout of the chart file.
type chartFile struct {
	BaseCurrency string            `yaml:"base_currency"`
	Currencies   []string          `yaml:"currencies"`
	BonusRate    string            `yaml:"bonus_rate"`
	Accounts     map[string]string `yaml:"accounts"`
	Deductions   []deductionEntry  `yaml:"deductions"`
	Cards        map[string]map[string]string `yaml:"cards"`
	Payroll      payrollAccounts   `yaml:"payroll"`
	Topup        topupAccounts     `yaml:"topup"`
}

type deductionEntry struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Amount  string `yaml:"amount"`
	Account string `yaml:"account"`
}

type payrollAccounts struct {
	Income      string `yaml:"income"`
	BonusIncome string `yaml:"bonus_income"`
	Bank        string `yaml:"bank"`
}

type topupAccounts struct {
	Asset      string `yaml:"asset"`
	Income     string `yaml:"income"`
	Adjustment string `yaml:"adjustment"`
}

// Chart is the immutable process-wide chart configuration: the short
// key to dotted path account map, the deduction schedule, and the
// account bindings each operation needs. It is constructed once at
// startup and passed explicitly to the calculators and posters.
type Chart struct {
	BaseCurrency string
	Currencies   []string
	BonusRate    decimal.Decimal // percentage, default 50
	Deductions   payroll.Schedule
	Payroll      payroll.Accounts
	Topup        TopupAccounts
	accounts     map[string]string
	cards        map[string]map[string]string
}

// TopupAccounts names the accounts the card top-up operation touches.
type TopupAccounts struct {
	AssetKey      string
	IncomeKey     string
	AdjustmentKey string
}

// LoadChart reads and validates the YAML chart file.
func LoadChart(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var file chartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse chart YAML: %w", err)
	}

	chart := &Chart{
		BaseCurrency: file.BaseCurrency,
		Currencies:   file.Currencies,
		BonusRate:    decimal.NewFromInt(50),
		accounts:     file.Accounts,
		cards:        file.Cards,
		Payroll: payroll.Accounts{
			IncomeKey:      file.Payroll.Income,
			BonusIncomeKey: file.Payroll.BonusIncome,
			BankKey:        file.Payroll.Bank,
		},
		Topup: TopupAccounts{
			AssetKey:      file.Topup.Asset,
			IncomeKey:     file.Topup.Income,
			AdjustmentKey: file.Topup.Adjustment,
		},
	}
	if chart.BaseCurrency == "" {
		return nil, &payroll.ConfigurationError{Reason: "chart file has no base_currency"}
	}
	if len(chart.Currencies) == 0 {
		chart.Currencies = []string{chart.BaseCurrency}
	}
	if file.BonusRate != "" {
		rate, err := money.Parse(file.BonusRate)
		if err != nil {
			return nil, &payroll.ConfigurationError{Reason: fmt.Sprintf("invalid bonus_rate %q", file.BonusRate)}
		}
		chart.BonusRate = rate
	}

	schedule, err := buildSchedule(file.Deductions)
	if err != nil {
		return nil, err
	}
	chart.Deductions = schedule

	if err := chart.Deductions.Validate(); err != nil {
		return nil, err
	}
	return chart, nil
}

// buildSchedule converts the YAML deduction entries into the typed
// schedule, rejecting unknown kinds up front.
func buildSchedule(entries []deductionEntry) (payroll.Schedule, error) {
	schedule := make(payroll.Schedule, 0, len(entries))
	for _, entry := range entries {
		amount, err := money.Parse(entry.Amount)
		if err != nil {
			return nil, &payroll.ConfigurationError{Reason: fmt.Sprintf("rule %q has invalid amount %q", entry.Name, entry.Amount)}
		}

		var kind payroll.RuleKind
		switch entry.Kind {
		case "fixed":
			kind = payroll.Fixed
		case "percentage":
			kind = payroll.Percentage
		default:
			return nil, &payroll.ConfigurationError{Reason: fmt.Sprintf("rule %q has unknown kind %q", entry.Name, entry.Kind)}
		}

		schedule = append(schedule, payroll.Rule{
			Name:       entry.Name,
			Kind:       kind,
			Amount:     amount,
			AccountKey: entry.Account,
		})
	}
	return schedule, nil
}

// AccountPath translates a short account key to its dotted path.
func (c *Chart) AccountPath(key string) (string, bool) {
	path, ok := c.accounts[key]
	return path, ok
}

// AccountPaths returns the short key to dotted path map.
func (c *Chart) AccountPaths() map[string]string {
	result := make(map[string]string, len(c.accounts))
	for k, v := range c.accounts {
		result[k] = v
	}
	return result
}

// CardSources returns the per-currency source account keys for a card.
func (c *Chart) CardSources(card string) (map[string]string, bool) {
	sources, ok := c.cards[card]
	return sources, ok
}

// Cards returns the configured card names.
func (c *Chart) Cards() []string {
	names := make([]string, 0, len(c.cards))
	for name := range c.cards {
		names = append(names, name)
	}
	return names
}

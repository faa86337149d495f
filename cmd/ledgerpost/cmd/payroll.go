package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/payroll"
	"github.com/mgaray/ledgerpost/pkg/posting"
	"github.com/mgaray/ledgerpost/pkg/statement"
)

var (
	payrollNet       string
	payrollBonusBase string
	payrollGross     string
	payrollBonus     string
	payrollDate      string
	payrollDesc      string
)

// payrollCmd represents the payroll command.
var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Post a payroll transaction",
	Long: `Post the monthly payroll transaction.

With --net, the gross components are recovered from the net payment by
inverting the deduction schedule (percentage deductions apply to the
gross, so this solves a linear equation rather than adding deductions
back). Add --bonus-base to split out a bonus computed from the best
salary of the semester; without it, the bonus is approximated as one
third of the total gross.

With --gross (and optionally --bonus-gross), the gross amounts are
taken as given and no inversion happens.

Example:
  ledgerpost payroll --net 2265985.00 --bonus-base 1834099.20
  ledgerpost payroll --gross 1834099.20`,
	Run: runPayroll,
}

func init() {
	payrollCmd.Flags().StringVar(&payrollNet, "net", "", "net amount received in the bank")
	payrollCmd.Flags().StringVar(&payrollBonusBase, "bonus-base", "", "best gross salary of the semester, used as the bonus base")
	payrollCmd.Flags().StringVar(&payrollGross, "gross", "", "period gross salary (skips the gross-up inversion)")
	payrollCmd.Flags().StringVar(&payrollBonus, "bonus-gross", "", "bonus gross amount, only with --gross")
	payrollCmd.Flags().StringVar(&payrollDate, "date", "", "posting date (DD/MM/YYYY), default today")
	payrollCmd.Flags().StringVar(&payrollDesc, "description", "", "transaction description, default derived from the month")

	payrollCmd.MarkFlagsMutuallyExclusive("net", "gross")
	payrollCmd.MarkFlagsOneRequired("net", "gross")
}

func runPayroll(cmd *cobra.Command, args []string) {
	cfg, chart := loadSetup()

	date := time.Now()
	if payrollDate != "" {
		parsed, err := statement.ParseDate(payrollDate)
		exitOnError(err, "invalid --date")
		date = parsed
	}

	var periodGross, bonusGross decimal.Decimal
	switch {
	case payrollGross != "":
		parsed, err := money.Parse(payrollGross)
		exitOnError(err, "invalid --gross")
		periodGross = money.RoundCents(parsed)
		if payrollBonus != "" {
			parsedBonus, err := money.Parse(payrollBonus)
			exitOnError(err, "invalid --bonus-gross")
			bonusGross = money.RoundCents(parsedBonus)
		}

	default:
		net, err := money.Parse(payrollNet)
		exitOnError(err, "invalid --net")

		var bonusBase *decimal.Decimal
		if payrollBonusBase != "" {
			parsed, err := money.Parse(payrollBonusBase)
			exitOnError(err, "invalid --bonus-base")
			bonusBase = &parsed
		}

		result, err := payroll.GrossUp(net, bonusBase, chart.Deductions, chart.BonusRate)
		exitOnError(err, "gross-up failed")
		periodGross = result.PeriodGross
		bonusGross = result.BonusGross
		slog.Debug("grossed up",
			"gross_total", result.GrossTotal.String(),
			"period_gross", periodGross.StringFixed(2),
			"bonus_gross", bonusGross.StringFixed(2),
		)
	}

	description := payrollDesc
	if description == "" {
		description = fmt.Sprintf("Sueldo %s", date.Format("January 2006"))
		if bonusGross.IsPositive() {
			description = fmt.Sprintf("Sueldo y Aguinaldo %s", date.Format("January 2006"))
		}
	}

	legs := payroll.BuildLegs(periodGross, bonusGross, chart.Deductions, chart.Payroll, chart.BaseCurrency)

	session, cleanup := openBook(cfg)
	defer cleanup()

	builder := posting.NewBuilder(session, chart.AccountPaths())
	err := builder.Post(posting.Transaction{
		Date:        date,
		Description: description,
		Currency:    chart.BaseCurrency,
		Legs:        legs,
	})
	exitOnError(err, "failed to post payroll transaction")

	fmt.Println("Payroll posted.")
	fmt.Printf("  Period gross: %s\n", periodGross.StringFixed(2))
	if bonusGross.IsPositive() {
		fmt.Printf("  Bonus gross:  %s\n", bonusGross.StringFixed(2))
	}
	for _, leg := range legs {
		fmt.Printf("  %-28s %15s %s\n", leg.AccountKey, leg.Amount.Value.StringFixed(2), leg.Amount.Currency)
	}
}

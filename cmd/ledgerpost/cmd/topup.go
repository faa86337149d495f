package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgaray/ledgerpost/pkg/ledger"
	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/posting"
)

var topupAmount string

// topupCmd represents the topup command.
var topupCmd = &cobra.Command{
	Use:   "topup",
	Short: "Post the monthly corporate-card top-up",
	Long: `Post the monthly top-up of the corporate benefit card.

The card balance does not accumulate: any remaining balance is first
moved to the configured adjustment expense account, then the new
amount is posted from the benefit income account to the card. Both
transactions are dated the 12th of the current month.

Example:
  ledgerpost topup --amount 150000.00`,
	Run: runTopup,
}

func init() {
	topupCmd.Flags().StringVar(&topupAmount, "amount", "", "new amount to load onto the card (required)")
	topupCmd.MarkFlagRequired("amount")
}

func runTopup(cmd *cobra.Command, args []string) {
	cfg, chart := loadSetup()

	amount, err := money.Parse(topupAmount)
	exitOnError(err, "invalid --amount")
	if !amount.IsPositive() {
		exitOnError(fmt.Errorf("amount must be positive, got %s", amount), "invalid --amount")
	}

	if chart.Topup.AssetKey == "" || chart.Topup.IncomeKey == "" || chart.Topup.AdjustmentKey == "" {
		exitOnError(fmt.Errorf("chart file has no topup account bindings"), "invalid configuration")
	}

	now := time.Now()
	date := time.Date(now.Year(), now.Month(), 12, 0, 0, 0, 0, now.Location())

	session, cleanup := openBook(cfg)
	defer cleanup()

	assetPath, ok := chart.AccountPath(chart.Topup.AssetKey)
	if !ok {
		assetPath = chart.Topup.AssetKey
	}
	asset, err := session.ResolveAccount(assetPath)
	exitOnError(err, "failed to resolve card account")
	if asset == nil {
		exitOnError(&ledger.AccountNotFoundError{Path: assetPath}, "failed to resolve card account")
	}

	builder := posting.NewBuilder(session, chart.AccountPaths())

	// Zero out whatever is left before loading the new amount.
	balance, err := session.Balance(asset)
	exitOnError(err, "failed to read card balance")
	if balance.IsPositive() {
		residual := money.New(balance, chart.BaseCurrency)
		err := builder.Post(posting.Transaction{
			Date:        date,
			Description: "Ajuste por saldo no acumulable de beneficio corporativo",
			Currency:    chart.BaseCurrency,
			Legs: []posting.Leg{
				posting.Credit(chart.Topup.AssetKey, residual),
				posting.Debit(chart.Topup.AdjustmentKey, residual),
			},
		})
		exitOnError(err, "failed to post balance adjustment")
		fmt.Printf("Residual balance of %s moved to adjustments.\n", balance.StringFixed(2))
	}

	value := money.New(amount, chart.BaseCurrency)
	err = builder.Post(posting.Transaction{
		Date:        date,
		Description: "Recarga mensual de beneficios corporativos",
		Currency:    chart.BaseCurrency,
		Legs: []posting.Leg{
			posting.Credit(chart.Topup.IncomeKey, value),
			posting.Debit(chart.Topup.AssetKey, value),
		},
	})
	exitOnError(err, "failed to post top-up")

	fmt.Printf("Top-up posted: the card now holds %s %s (dated %s).\n",
		amount.StringFixed(2), chart.BaseCurrency, date.Format("02/01/2006"))
}

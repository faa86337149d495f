package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgaray/ledgerpost/pkg/money"
	"github.com/mgaray/ledgerpost/pkg/posting"
	"github.com/mgaray/ledgerpost/pkg/statement"
)

var (
	postAmount   string
	postFrom     string
	postTo       string
	postDesc     string
	postDate     string
	postCurrency string
)

// postCmd represents the post command.
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a single manual transaction",
	Long: `Post one two-leg transaction: money moves out of the source
account (credit) and into the destination account (debit). Accounts
may be named by their short chart key or by the full dotted path.

Example:
  ledgerpost post --amount 19865.60 \
    --from pasivo_tc_gali_visa_ars \
    --to "Gastos.Bienes y servicios varios" \
    --description "MERPAGO*4PRODUCTOS" --date 20/05/2025`,
	Run: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postAmount, "amount", "", "amount to move (required)")
	postCmd.Flags().StringVar(&postFrom, "from", "", "source account key or path (required)")
	postCmd.Flags().StringVar(&postTo, "to", "", "destination account key or path (required)")
	postCmd.Flags().StringVar(&postDesc, "description", "", "transaction description (required)")
	postCmd.Flags().StringVar(&postDate, "date", "", "posting date (DD/MM/YYYY), default today")
	postCmd.Flags().StringVar(&postCurrency, "currency", "", "ISO 4217 code, default the chart's base currency")

	postCmd.MarkFlagRequired("amount")
	postCmd.MarkFlagRequired("from")
	postCmd.MarkFlagRequired("to")
	postCmd.MarkFlagRequired("description")
}

func runPost(cmd *cobra.Command, args []string) {
	cfg, chart := loadSetup()

	amount, err := money.Parse(postAmount)
	exitOnError(err, "invalid --amount")
	if !amount.IsPositive() {
		exitOnError(fmt.Errorf("amount must be positive, got %s", amount), "invalid --amount")
	}

	date := time.Now()
	if postDate != "" {
		parsed, err := statement.ParseDate(postDate)
		exitOnError(err, "invalid --date")
		date = parsed
	}

	currency := postCurrency
	if currency == "" {
		currency = chart.BaseCurrency
	}

	session, cleanup := openBook(cfg)
	defer cleanup()

	builder := posting.NewBuilder(session, chart.AccountPaths())
	value := money.New(amount, currency)
	err = builder.Post(posting.Transaction{
		Date:        date,
		Description: postDesc,
		Currency:    currency,
		Legs: []posting.Leg{
			posting.Credit(postFrom, value),
			posting.Debit(postTo, value),
		},
	})
	exitOnError(err, "failed to post transaction")

	fmt.Println("Transaction posted.")
	fmt.Printf("  Date:        %s\n", date.Format("02/01/2006"))
	fmt.Printf("  Description: %s\n", postDesc)
	fmt.Printf("  Amount:      %s %s\n", amount.StringFixed(2), currency)
	fmt.Printf("  From:        %s\n", postFrom)
	fmt.Printf("  To:          %s\n", postTo)
}

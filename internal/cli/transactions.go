package cli

import (
	"fmt"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/report"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/validation"
)

type transactionsOptions struct {
	*rootOptions
	security string
	year     string
	action   string
	csv      bool
}

func newTransactionsCmd(root *rootOptions) *cobra.Command {
	opts := &transactionsOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List ledger transactions, newest first",
		Long: `List ledger transactions, newest first.

Use --csv to export the listing with a header row, for example:
  portfolio transactions --year 2024 --type dividend --csv > dividends.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransactions(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.security, "security", "", "Only include this security")
	cmd.Flags().StringVar(&opts.year, "year", "", "Only include transactions of this calendar year")
	cmd.Flags().StringVar(&opts.action, "type", "", "Only include this transaction type (buy, sell, dividend, ...)")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Write CSV instead of a table; takes precedence over --json")
	return cmd
}

// transactionFilter validates the listing flags on top of the account filter.
func (o *transactionsOptions) transactionFilter() (model.TransactionFilter, error) {
	filter, err := o.filter()
	if err != nil {
		return model.TransactionFilter{}, err
	}
	fields := map[string]string{}
	tf := model.TransactionFilter{Filter: filter, Security: o.security}
	if err := validation.ValidateLabel(o.security); err != nil {
		fields["security"] = err.Error()
	}
	if o.year != "" {
		if tf.Year, err = validation.ValidateYear(o.year); err != nil {
			fields["year"] = err.Error()
		}
	}
	if o.action != "" {
		if tf.Action, err = validation.ValidateAction(o.action); err != nil {
			fields["type"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return model.TransactionFilter{}, &validation.Error{Fields: fields}
	}
	return tf, nil
}

func runTransactions(cmd *cobra.Command, opts *transactionsOptions) error {
	tf, err := opts.transactionFilter()
	if err != nil {
		return err
	}
	snap, err := opts.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	rows := service.Transactions(snap, tf)
	if opts.csv {
		if err := gocsv.Marshal(&rows, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	}

	f := newFormatter(cmd.OutOrStdout(), opts.jsonOutput)
	return f.render(rows, func() error {
		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			shares := ""
			if r.Shares != 0 {
				shares = strconv.FormatFloat(r.Shares, 'f', -1, 64)
			}
			table = append(table, []string{
				r.Date, r.Type, r.Account, r.Security, shares, amount(r.Amount, r.Currency), r.Note,
			})
		}
		return f.table([]string{"Date", "Type", "Account", "Security", "Shares", "Amount", "Note"}, table)
	})
}

func amount(v float64, currency string) string {
	if currency == "" || currency == model.DefaultCurrency {
		return report.KRW(v)
	}
	return currency + " " + strconv.FormatFloat(v, 'f', 2, 64)
}

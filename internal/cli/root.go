// Package cli implements the portfolio command line: one-shot views of a
// ledger file and the serve command running the HTTP API.
package cli

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/validation"
	"github.com/ndewijer/portfolio-ledger/internal/version"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfg *config.Config
	log zerolog.Logger

	jsonOutput  bool
	ledgerPath  string
	offline     bool
	owner       string
	broker      string
	accountType string

	// lookups returns the price and exchange rate sources; nil uses Yahoo and Naver
	// behind the SQLite cache.
	lookups func(db *sql.DB) (service.PriceLookup, service.FxLookup)
}

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config, log zerolog.Logger) *cobra.Command {
	return newRootCmd(&rootOptions{cfg: cfg, log: log})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio analytics over a broker transaction ledger",
		Long: `Reads a broker-exported transaction ledger (CSV), replays it into positions,
values them with current quotes and prints summary, performance, risk,
account and yearly income views.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.jsonOutput, "json", "j", false, "Output in JSON format")
	flags.StringVarP(&opts.ledgerPath, "ledger", "l", opts.cfg.Ledger.Path, "Path to the ledger CSV")
	flags.BoolVar(&opts.offline, "offline", opts.cfg.Valuation.Offline, "Value with cached quotes and rates only")
	flags.StringVar(&opts.owner, "owner", "", "Only include accounts of this owner")
	flags.StringVar(&opts.broker, "broker", "", "Only include accounts at this broker")
	flags.StringVar(&opts.accountType, "account-type", "", "Only include accounts of this type")

	cmd.AddCommand(
		newSummaryCmd(opts),
		newPerformanceCmd(opts),
		newRiskCmd(opts),
		newAccountsCmd(opts),
		newYearlyCmd(opts),
		newTransactionsCmd(opts),
		newFiltersCmd(opts),
		newDiagnosticsCmd(opts),
		newReportCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// filter validates the account filter flags.
func (o *rootOptions) filter() (model.Filter, error) {
	fields := map[string]string{}
	check := func(flag, v string) string {
		if err := validation.ValidateLabel(v); err != nil {
			fields[flag] = err.Error()
			return ""
		}
		return v
	}
	f := model.Filter{
		Owner:       check("owner", o.owner),
		Broker:      check("broker", o.broker),
		AccountType: check("account-type", o.accountType),
	}
	if len(fields) > 0 {
		return model.Filter{}, &validation.Error{Fields: fields}
	}
	return f, nil
}

// snapshot loads and values the ledger once for a one-shot command.
func (o *rootOptions) snapshot(ctx context.Context) (*model.Snapshot, error) {
	a, err := o.newApp(ctx)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.portfolio.Load(ctx, a.source)
}

// view runs a snapshot command: validate the filter, load the ledger and
// hand both to run.
func (o *rootOptions) view(cmd *cobra.Command, run func(f *formatter, snap *model.Snapshot, filter model.Filter) error) error {
	filter, err := o.filter()
	if err != nil {
		return err
	}
	snap, err := o.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	return run(newFormatter(cmd.OutOrStdout(), o.jsonOutput), snap, filter)
}

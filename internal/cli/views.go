package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/report"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total assets, cash and stock ratios and income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, runSummary)
		},
	}
}

func runSummary(f *formatter, snap *model.Snapshot, filter model.Filter) error {
	s := service.Summarize(snap, filter)
	return f.render(s, func() error {
		rows := [][]string{
			{"Total assets", report.KRW(s.TotalAssets)},
			{"Cash", report.KRW(s.TotalCash) + " (" + report.Percent(s.CashRatio) + ")"},
			{"Stocks", report.KRW(s.TotalStockValue) + " (" + report.Percent(s.StockRatio) + ")"},
			{"Cost basis", report.KRW(s.TotalCostBasis)},
			{"Invested", report.KRW(s.TotalInvestment)},
			{"Unrealized", report.SignedKRW(s.UnrealizedGainLoss) + " (" + report.SignedPercent(s.ReturnRate) + ")"},
			{"Dividends", report.KRW(s.Income.Dividend)},
			{"Interest", report.KRW(s.Income.Interest)},
			{"Realized", report.SignedKRW(s.Income.SellProfit)},
			{"Holdings", holdingsLabel(s.TotalHoldings, s.PricedHoldings)},
			{"Accounts", strconv.Itoa(s.AccountCount)},
		}
		if err := f.table([]string{"Metric", "Value"}, rows); err != nil {
			return err
		}
		if err := f.heading("By owner"); err != nil {
			return err
		}
		if err := f.table(allocationHeaders("Owner"), allocationRows(s.ByOwner)); err != nil {
			return err
		}
		if err := f.heading("By account type"); err != nil {
			return err
		}
		return f.table(allocationHeaders("Account type"), allocationRows(s.ByAccountType))
	})
}

func holdingsLabel(total, priced int) string {
	if total == priced {
		return strconv.Itoa(total)
	}
	return strconv.Itoa(total) + " (" + strconv.Itoa(priced) + " priced)"
}

func allocationHeaders(name string) []string {
	return []string{name, "Cash", "Stocks", "Total", "Ratio"}
}

func allocationRows(groups []model.AllocationGroup) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Name, report.KRW(g.Cash), report.KRW(g.StockValue), report.KRW(g.Total), report.Percent(g.Ratio)})
	}
	return rows
}

func newPerformanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "performance",
		Short: "Rank holdings by return rate and show per-account results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, runPerformance)
		},
	}
}

func runPerformance(f *formatter, snap *model.Snapshot, filter model.Filter) error {
	p := service.Performance(snap, filter)
	return f.render(p, func() error {
		headers := []string{"Security", "Account", "Value", "Gain/Loss", "Return"}
		if err := f.table(headers, performerRows(p.TopPerformers)); err != nil {
			return err
		}
		if err := f.heading("Bottom performers"); err != nil {
			return err
		}
		if err := f.table(headers, performerRows(p.BottomPerformers)); err != nil {
			return err
		}
		if err := f.heading("Accounts"); err != nil {
			return err
		}
		rows := make([][]string, 0, len(p.AccountPerformance))
		for _, a := range p.AccountPerformance {
			rows = append(rows, []string{
				a.DisplayName,
				strconv.Itoa(a.Holdings),
				report.KRW(a.CurrentValue),
				report.SignedKRW(a.UnrealizedGainLoss),
				report.SignedPercent(a.ReturnRate),
				report.SignedKRW(a.LifetimeReturn),
			})
		}
		return f.table([]string{"Account", "Holdings", "Value", "Unrealized", "Return", "Lifetime"}, rows)
	})
}

func performerRows(entries []model.HoldingPerformance) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Security,
			e.DisplayName,
			report.KRW(e.CurrentValue),
			report.SignedKRW(e.UnrealizedGainLoss),
			report.SignedPercent(e.ReturnRate),
		})
	}
	return rows
}

func newRiskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Show win rate, concentration and return dispersion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, runRisk)
		},
	}
}

func runRisk(f *formatter, snap *model.Snapshot, filter model.Filter) error {
	r := service.Risk(snap, filter)
	return f.render(r, func() error {
		rows := [][]string{
			{"Win rate", report.Percent(r.WinRate)},
			{"Gain / loss holdings", strconv.Itoa(r.GainHoldings) + " / " + strconv.Itoa(r.LossHoldings)},
			{"Total gain", report.SignedKRW(r.TotalGain)},
			{"Total loss", report.SignedKRW(r.TotalLoss)},
			{"Max gain", extreme(r.MaxGain)},
			{"Max loss", extreme(r.MaxLoss)},
			{"Top 5 concentration", report.Percent(r.ConcentrationRatio)},
			{"HHI", strconv.FormatFloat(r.HHI, 'f', 2, 64)},
			{"Return mean", report.SignedPercent(r.ReturnRateMean)},
			{"Return std dev", report.Percent(r.ReturnRateStdDev)},
		}
		if err := f.table([]string{"Metric", "Value"}, rows); err != nil {
			return err
		}
		if err := f.heading("Largest holdings"); err != nil {
			return err
		}
		top := make([][]string, 0, len(r.TopHoldings))
		for _, h := range r.TopHoldings {
			top = append(top, []string{h.Security, h.Account, report.KRW(h.CurrentValue), report.Percent(h.Weight)})
		}
		return f.table([]string{"Security", "Account", "Value", "Weight"}, top)
	})
}

func extreme(h *model.HoldingPerformance) string {
	if h == nil {
		return "-"
	}
	return h.Security + " " + report.SignedPercent(h.ReturnRate)
}

func newAccountsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Show accounts grouped by owner and account type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, runAccounts)
		},
	}
}

func runAccounts(f *formatter, snap *model.Snapshot, filter model.Filter) error {
	d := service.AccountsDetailed(snap, filter)
	return f.render(d, func() error {
		var rows [][]string
		for _, o := range d.Owners {
			for _, t := range o.Types {
				for _, a := range t.Accounts {
					rows = append(rows, []string{
						o.Owner,
						t.AccountType,
						a.DisplayName,
						strconv.Itoa(len(a.Holdings)),
						report.KRW(a.Totals.Cash),
						report.KRW(a.Totals.StockValue),
						report.KRW(a.Totals.Total),
					})
				}
			}
		}
		rows = append(rows, []string{"Total", "", "", "", report.KRW(d.Totals.Cash), report.KRW(d.Totals.StockValue), report.KRW(d.Totals.Total)})
		return f.table([]string{"Owner", "Type", "Account", "Holdings", "Cash", "Stocks", "Total"}, rows)
	})
}

func newYearlyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "yearly",
		Short: "Show realized income by year, account and security",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, runYearly)
		},
	}
}

func runYearly(f *formatter, snap *model.Snapshot, filter model.Filter) error {
	y := service.YearlyReturns(snap, filter)
	return f.render(y, func() error {
		rows := make([][]string, 0, len(y.Buckets)+len(y.Years))
		for _, node := range y.Years {
			for _, b := range y.Buckets {
				if b.Year != node.Year {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(b.Year), b.Owner, b.Account, b.Security,
					report.KRW(b.Dividend), report.SignedKRW(b.SellProfit), report.KRW(b.Interest), report.SignedKRW(b.Total),
				})
			}
			t := node.Totals
			rows = append(rows, []string{
				strconv.Itoa(node.Year), "Total", "", "",
				report.KRW(t.Dividend), report.SignedKRW(t.SellProfit), report.KRW(t.Interest), report.SignedKRW(t.Total),
			})
		}
		return f.table([]string{"Year", "Owner", "Account", "Security", "Dividend", "Sell profit", "Interest", "Total"}, rows)
	})
}

func newFiltersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the owners, brokers and account types found in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, func(f *formatter, snap *model.Snapshot, _ model.Filter) error {
				o := service.FilterOptions(snap)
				return f.render(o, func() error {
					var rows [][]string
					for _, v := range o.Owners {
						rows = append(rows, []string{"owner", v})
					}
					for _, v := range o.Brokers {
						rows = append(rows, []string{"broker", v})
					}
					for _, v := range o.AccountTypes {
						rows = append(rows, []string{"account-type", v})
					}
					return f.table([]string{"Flag", "Value"}, rows)
				})
			})
		},
	}
}

func newDiagnosticsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "List rows and securities that could not be loaded or valued",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.view(cmd, func(f *formatter, snap *model.Snapshot, _ model.Filter) error {
				diags := snap.Diagnostics()
				if diags == nil {
					diags = []model.Diagnostic{}
				}
				return f.render(diags, func() error {
					rows := make([][]string, 0, len(diags))
					for _, d := range diags {
						row := ""
						if d.Row > 0 {
							row = strconv.Itoa(d.Row)
						}
						rows = append(rows, []string{string(d.Kind), row, d.Account, d.Security, d.Message})
					}
					return f.table([]string{"Kind", "Row", "Account", "Security", "Message"}, rows)
				})
			})
		},
	}
}

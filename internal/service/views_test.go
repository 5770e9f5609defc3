package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

// portfolioFixture is a two-owner ledger:
//
//	민호 토스 종합매매: cash 189,500; 삼성전자 15 shares, basis 16,500, price 1,500
//	지현 키움 ISA:     cash 45,300;  카카오 20 shares, basis 40,000, price 1,500
//	                              네이버 5 shares, basis 15,000, no price
//
// Income: realized 1,000 and dividend 5,000 (민호, 2024), interest 300 (지현, 2024).
func portfolioFixture(t *testing.T) *model.Snapshot {
	t.Helper()
	rows := testutil.NewLedger().
		Deposit("2023-01-02", accountA, 200000).
		Deposit("2023-01-02", accountB, 100000).
		Buy("2023-01-10", accountA, "삼성전자", 10, 1000).
		Buy("2023-02-10", accountA, "삼성전자", 10, 1200).
		Buy("2023-05-01", accountB, "카카오", 20, 2000).
		Buy("2023-06-01", accountB, "네이버", 5, 3000).
		Sell("2024-03-01", accountA, "삼성전자", 5, 1300).
		Dividend("2024-04-01", accountA, "삼성전자", 5000).
		Interest("2024-06-30", accountB, 300).
		Rows()
	prices := testutil.NewMockPriceLookup().
		WithPrice("삼성전자", 1500).
		WithPrice("카카오", 1500)
	return testutil.LoadSnapshot(t, rows, prices, nil)
}

// TestSummarize tests portfolio totals and allocation.
//
// WHY: The summary is the dashboard headline. Totals must match the sum of
// holdings and cash, unpriced holdings must not distort the return rate, and
// the cash and stock ratios must split total assets.
func TestSummarize(t *testing.T) {
	snap := portfolioFixture(t)

	t.Run("unfiltered", func(t *testing.T) {
		// Execute
		sum := service.Summarize(snap, model.Filter{})

		// Assert
		assert.Equal(t, 234800.0, sum.TotalCash)
		assert.Equal(t, 52500.0, sum.TotalStockValue)
		assert.Equal(t, 287300.0, sum.TotalAssets)
		assert.Equal(t, 71500.0, sum.TotalCostBasis)
		assert.Equal(t, 56500.0, sum.TotalInvestment, "unpriced basis excluded")
		assert.Equal(t, -4000.0, sum.UnrealizedGainLoss)
		assert.Equal(t, -7.08, sum.ReturnRate)
		assert.Equal(t, 81.73, sum.CashRatio)
		assert.Equal(t, 18.27, sum.StockRatio)
		assert.InDelta(t, 100, sum.CashRatio+sum.StockRatio, 0.1)

		assert.Equal(t, 3, sum.TotalHoldings)
		assert.Equal(t, 2, sum.PricedHoldings)
		assert.Equal(t, 1, sum.GainHoldings)
		assert.Equal(t, 1, sum.LossHoldings)
		assert.Equal(t, 2, sum.AccountCount)

		assert.Equal(t, model.IncomeTotals{Dividend: 5000, SellProfit: 1000, Interest: 300, Total: 6300}, sum.Income)

		require.Len(t, sum.ByOwner, 2)
		assert.Equal(t, "민호", sum.ByOwner[0].Name)
		assert.Equal(t, 212000.0, sum.ByOwner[0].Total)
		assert.Equal(t, 73.79, sum.ByOwner[0].Ratio)
		assert.Equal(t, "지현", sum.ByOwner[1].Name)
		assert.Equal(t, 75300.0, sum.ByOwner[1].Total)

		require.Len(t, sum.ByAccountType, 2)
		assert.Equal(t, "종합매매", sum.ByAccountType[0].Name)
		assert.Equal(t, "ISA", sum.ByAccountType[1].Name)
	})

	t.Run("filtered by owner", func(t *testing.T) {
		sum := service.Summarize(snap, model.Filter{Owner: "지현"})

		assert.Equal(t, 45300.0, sum.TotalCash)
		assert.Equal(t, 30000.0, sum.TotalStockValue)
		assert.Equal(t, 75300.0, sum.TotalAssets)
		assert.Equal(t, -25.0, sum.ReturnRate)
		assert.Equal(t, 1, sum.AccountCount)
		assert.Equal(t, 300.0, sum.Income.Total)
	})

	t.Run("filter matching nothing yields zero totals", func(t *testing.T) {
		sum := service.Summarize(snap, model.Filter{Owner: "없는사람"})

		assert.Zero(t, sum.TotalAssets)
		assert.Zero(t, sum.CashRatio)
		assert.Zero(t, sum.StockRatio)
		assert.Zero(t, sum.ReturnRate)
		assert.Zero(t, sum.AccountCount)
		assert.Empty(t, sum.ByOwner)
	})

	t.Run("owner filters partition the total", func(t *testing.T) {
		all := service.Summarize(snap, model.Filter{})
		var total float64
		for _, owner := range service.FilterOptions(snap).Owners {
			total += service.Summarize(snap, model.Filter{Owner: owner}).TotalAssets
		}
		assert.InDelta(t, all.TotalAssets, total, 0.01)
	})
}

// TestSummarize_EmptyLedger tests views over a ledger without rows.
func TestSummarize_EmptyLedger(t *testing.T) {
	snap := testutil.LoadSnapshot(t, testutil.NewLedger().Rows(), nil, nil)

	sum := service.Summarize(snap, model.Filter{})

	assert.Zero(t, sum.TotalAssets)
	assert.Zero(t, sum.TotalHoldings)
	assert.Zero(t, sum.ReturnRate)
	assert.Empty(t, service.Performance(snap, model.Filter{}).TopPerformers)
	assert.Zero(t, service.Risk(snap, model.Filter{}).WinRate)
	assert.Empty(t, service.YearlyReturns(snap, model.Filter{}).Buckets)
}

// TestPerformance tests holding rankings and per-account aggregates.
//
// WHY: Unpriced holdings have a return rate of zero that means "unknown",
// not "flat"; ranking them would push real losers out of the bottom list.
func TestPerformance(t *testing.T) {
	snap := portfolioFixture(t)

	perf := service.Performance(snap, model.Filter{})

	require.Len(t, perf.TopPerformers, 2)
	assert.Equal(t, "삼성전자", perf.TopPerformers[0].Security)
	assert.Equal(t, 36.36, perf.TopPerformers[0].ReturnRate)
	assert.Equal(t, "카카오", perf.TopPerformers[1].Security)

	require.Len(t, perf.BottomPerformers, 2)
	assert.Equal(t, "카카오", perf.BottomPerformers[0].Security)
	assert.Equal(t, -25.0, perf.BottomPerformers[0].ReturnRate)

	require.Len(t, perf.AccountPerformance, 2)
	a := perf.AccountPerformance[0]
	assert.Equal(t, accountA, a.Account)
	assert.Equal(t, 189500.0, a.Cash)
	assert.Equal(t, 1000.0, a.RealizedGainLoss)
	assert.Equal(t, 5000.0, a.Dividends)
	assert.Equal(t, 36.36, a.ReturnRate)
	assert.Equal(t, 12000.0, a.LifetimeReturn)

	b := perf.AccountPerformance[1]
	assert.Equal(t, accountB, b.Account)
	assert.Equal(t, 2, b.Holdings)
	assert.Equal(t, 40000.0, b.TotalCost, "priced holdings only")
	assert.Equal(t, -25.0, b.ReturnRate)
	assert.Equal(t, -9700.0, b.LifetimeReturn)
}

// TestPerformance_TopN tests that rankings are capped and ties are ordered deterministically.
func TestPerformance_TopN(t *testing.T) {
	b := testutil.NewLedger()
	prices := testutil.NewMockPriceLookup()
	for _, s := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7"} {
		b.Buy("2024-01-10", accountA, s, 1, 1000)
		prices.WithPrice(s, 1100)
	}
	snap := testutil.LoadSnapshot(t, b.Rows(), prices, nil)

	perf := service.Performance(snap, model.Filter{})

	require.Len(t, perf.TopPerformers, service.TopN)
	require.Len(t, perf.BottomPerformers, service.TopN)
	for i, hp := range perf.TopPerformers {
		assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5"}[i], hp.Security)
	}
}

// TestRisk tests win rate, extremes and concentration.
//
// WHY: Win rate counts unpriced holdings in its denominator so a portfolio
// with missing quotes is not reported as healthier than it is.
func TestRisk(t *testing.T) {
	snap := portfolioFixture(t)

	r := service.Risk(snap, model.Filter{})

	assert.Equal(t, 3, r.TotalHoldings)
	assert.Equal(t, 2, r.PricedHoldings)
	assert.Equal(t, 33.33, r.WinRate)
	assert.Equal(t, 6000.0, r.TotalGain)
	assert.Equal(t, -10000.0, r.TotalLoss)
	require.NotNil(t, r.MaxGain)
	assert.Equal(t, "삼성전자", r.MaxGain.Security)
	require.NotNil(t, r.MaxLoss)
	assert.Equal(t, "카카오", r.MaxLoss.Security)

	assert.Equal(t, 100.0, r.ConcentrationRatio)
	require.Len(t, r.TopHoldings, 3)
	assert.Equal(t, "카카오", r.TopHoldings[0].Security)
	assert.Equal(t, 57.14, r.TopHoldings[0].Weight)
	assert.Equal(t, "네이버", r.TopHoldings[2].Security)
	assert.Equal(t, 5102.04, r.HHI)
	assert.Equal(t, 5.68, r.ReturnRateMean)
	assert.Equal(t, 43.39, r.ReturnRateStdDev)
}

// TestRisk_ConcentrationMonotonic tests that adding a small holding never raises concentration.
func TestRisk_ConcentrationMonotonic(t *testing.T) {
	b := testutil.NewLedger()
	prices := testutil.NewMockPriceLookup()
	previous := math.Inf(1)
	for i, s := range []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"} {
		b.Buy("2024-01-10", accountA, s, float64(10-i), 1000)
		prices.WithPrice(s, 1000)

		r := service.Risk(testutil.LoadSnapshot(t, b.Rows(), prices, nil), model.Filter{})

		assert.LessOrEqual(t, r.ConcentrationRatio, previous, "after %d holdings", i+1)
		assert.LessOrEqual(t, len(r.TopHoldings), service.TopN)
		previous = r.ConcentrationRatio
	}
	assert.Less(t, previous, 100.0)
}

// TestYearlyReturns tests the yearly income breakdown.
//
// WHY: Yearly returns feed tax planning. Every level must add up, and income
// without a security must still be attributed to its account.
func TestYearlyReturns(t *testing.T) {
	snap := portfolioFixture(t)

	y := service.YearlyReturns(snap, model.Filter{})

	require.Len(t, y.Buckets, 2)
	assert.Equal(t, model.YearlyReturn{
		Year: 2024, Owner: "민호", AccountType: "종합매매", Account: accountA, Security: "삼성전자",
		IncomeTotals: model.IncomeTotals{Dividend: 5000, SellProfit: 1000, Total: 6000},
	}, y.Buckets[0])
	assert.Equal(t, model.CashSecurity, y.Buckets[1].Security)
	assert.Equal(t, 300.0, y.Buckets[1].Interest)

	require.Len(t, y.Years, 1)
	year := y.Years[0]
	assert.Equal(t, 2024, year.Year)
	assert.Equal(t, 6300.0, year.Totals.Total)
	require.Len(t, year.Owners, 2)
	assert.Equal(t, "민호", year.Owners[0].Name)
	assert.Equal(t, 6000.0, year.Owners[0].Totals.Total)
	require.Len(t, year.Owners[0].Children, 1)
	acct := year.Owners[0].Children[0].Children[0]
	assert.Equal(t, accountA, acct.Name)
	require.Len(t, acct.Securities, 1)

	for _, b := range y.Buckets {
		assert.InDelta(t, b.Dividend+b.SellProfit+b.Interest, b.Total, 0.01)
	}
}

// TestAccountsDetailed tests the owner, account type, account tree.
func TestAccountsDetailed(t *testing.T) {
	snap := portfolioFixture(t)

	d := service.AccountsDetailed(snap, model.Filter{})

	assert.Equal(t, 287300.0, d.Totals.Total)
	require.Len(t, d.Owners, 2)
	assert.Equal(t, "민호", d.Owners[0].Owner)
	assert.Equal(t, 212000.0, d.Owners[0].Totals.Total)

	jihyun := d.Owners[1]
	require.Len(t, jihyun.Types, 1)
	require.Len(t, jihyun.Types[0].Accounts, 1)
	acct := jihyun.Types[0].Accounts[0]
	assert.Equal(t, "키움 ISA", acct.DisplayName)
	require.Len(t, acct.Holdings, 2)
	assert.Equal(t, "카카오", acct.Holdings[0].Security, "largest value first")
	assert.Equal(t, 45300.0, acct.Totals.Cash)
	assert.Equal(t, 75300.0, acct.Totals.Total)
}

// TestTransactions tests the transaction listing and its filters.
func TestTransactions(t *testing.T) {
	snap := portfolioFixture(t)

	t.Run("newest first", func(t *testing.T) {
		rows := service.Transactions(snap, model.TransactionFilter{})
		require.Len(t, rows, 9)
		assert.Equal(t, "2024-06-30", rows[0].Date)
		assert.Equal(t, "interest", rows[0].Type)
		assert.Equal(t, "2023-01-02", rows[8].Date)
		assert.Equal(t, accountB, rows[8].Account, "same-day rows by account")
		assert.Equal(t, accountA, rows[7].Account)
	})

	t.Run("combined filters", func(t *testing.T) {
		rows := service.Transactions(snap, model.TransactionFilter{Year: 2023, Action: model.ActionBuy})
		assert.Len(t, rows, 4)

		rows = service.Transactions(snap, model.TransactionFilter{Security: "삼성전자"})
		assert.Len(t, rows, 4)

		rows = service.Transactions(snap, model.TransactionFilter{Filter: model.Filter{Owner: "지현"}})
		assert.Len(t, rows, 4)
		for _, r := range rows {
			assert.Equal(t, "지현", r.Owner)
		}
	})
}

// TestFilterOptions tests the distinct filter values in display order.
func TestFilterOptions(t *testing.T) {
	opts := service.FilterOptions(portfolioFixture(t))

	assert.Equal(t, []string{"민호", "지현"}, opts.Owners)
	assert.Equal(t, []string{"토스", "키움"}, opts.Brokers)
	assert.Equal(t, []string{"종합매매", "ISA"}, opts.AccountTypes)
}

// TestViews_ZeroFilterMatchesUnfiltered tests that an explicit empty filter and every-account filters agree.
func TestViews_ZeroFilterMatchesUnfiltered(t *testing.T) {
	snap := portfolioFixture(t)
	ctx := context.Background()
	svc := testutil.NewTestPortfolioService(t, nil, nil)

	d, err := svc.Dashboard(ctx, snap, model.Filter{})
	require.NoError(t, err)

	assert.Equal(t, service.Summarize(snap, model.Filter{}), d.Summary)
	assert.Equal(t, service.Performance(snap, model.Filter{}), d.Performance)
	assert.Equal(t, service.Risk(snap, model.Filter{}), d.Risk)
	assert.Equal(t, service.YearlyReturns(snap, model.Filter{}), d.YearlyReturns)
	assert.Equal(t, snap.ID.String(), d.SnapshotID)
}

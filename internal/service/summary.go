package service

import (
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// Summarize computes portfolio totals and asset allocation for the accounts
// selected by f. The zero Filter selects every account.
//
// ReturnRate is UnrealizedGainLoss / TotalInvestment * 100 over holdings with
// an available price, and 0 when nothing was invested. CashRatio and
// StockRatio sum to 100 whenever total assets are non-zero.
func Summarize(snap *model.Snapshot, f model.Filter) model.PortfolioSummary {
	s := newScope(snap, f)

	sum := model.PortfolioSummary{
		AccountCount:  len(s.accounts),
		TotalHoldings: len(s.holdings),
		ByOwner:       []model.AllocationGroup{},
		ByAccountType: []model.AllocationGroup{},
	}

	for _, c := range s.cash {
		sum.TotalCash += c.BalanceKRW
	}
	for _, h := range s.holdings {
		sum.TotalStockValue += h.CurrentValue
		sum.TotalCostBasis += h.TotalCost
		if !h.PriceAvailable {
			continue
		}
		sum.PricedHoldings++
		sum.TotalInvestment += h.TotalCost
		sum.UnrealizedGainLoss += h.UnrealizedGainLoss
		switch {
		case h.UnrealizedGainLoss > 0:
			sum.GainHoldings++
		case h.UnrealizedGainLoss < 0:
			sum.LossHoldings++
		}
	}

	sum.TotalCash = round(sum.TotalCash)
	sum.TotalStockValue = round(sum.TotalStockValue)
	sum.TotalCostBasis = round(sum.TotalCostBasis)
	sum.TotalInvestment = round(sum.TotalInvestment)
	sum.UnrealizedGainLoss = round(sum.UnrealizedGainLoss)
	sum.TotalAssets = round(sum.TotalCash + sum.TotalStockValue)
	sum.ReturnRate = round(percent(sum.UnrealizedGainLoss, sum.TotalInvestment))
	sum.CashRatio = round(percent(sum.TotalCash, sum.TotalAssets))
	sum.StockRatio = round(percent(sum.TotalStockValue, sum.TotalAssets))
	sum.Income = s.income("")

	sum.ByOwner = s.allocation(sum.TotalAssets, func(a model.Account) model.Label { return a.Owner })
	sum.ByAccountType = s.allocation(sum.TotalAssets, func(a model.Account) model.Label { return a.Type })
	return sum
}

// allocation groups cash and stock value by an account label, in label display order.
func (s scope) allocation(total float64, by func(model.Account) model.Label) []model.AllocationGroup {
	groups := map[string]*model.AllocationGroup{}
	var labels []model.Label
	group := func(account string) *model.AllocationGroup {
		l := by(s.account(account))
		g, ok := groups[l.Name]
		if !ok {
			g = &model.AllocationGroup{Name: l.Name}
			groups[l.Name] = g
			labels = append(labels, l)
		}
		return g
	}

	for _, a := range s.accounts {
		group(a.FullName)
	}
	for _, c := range s.cash {
		g := group(c.Account)
		g.Cash += c.BalanceKRW
	}
	for _, h := range s.holdings {
		g := group(h.Account)
		g.StockValue += h.CurrentValue
	}

	slices.SortStableFunc(labels, accounts.CompareLabels)
	out := make([]model.AllocationGroup, 0, len(labels))
	for _, l := range labels {
		g := groups[l.Name]
		g.Cash = round(g.Cash)
		g.StockValue = round(g.StockValue)
		g.Total = round(g.Cash + g.StockValue)
		g.Ratio = round(percent(g.Total, total))
		out = append(out, *g)
	}
	return out
}

package service

import (
	"cmp"
	"math"
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// TopN is the number of holdings in each ranking and in the concentration ratio.
const TopN = 5

// Performance ranks the priced holdings of the accounts selected by f by
// return rate and aggregates performance per account.
//
// Holdings without a price are left out of the rankings. Ties in return rate
// are broken by absolute gain/loss (larger first), then security, then account.
func Performance(snap *model.Snapshot, f model.Filter) model.PortfolioPerformance {
	s := newScope(snap, f)

	var ranked []model.HoldingPerformance
	for _, h := range s.holdings {
		if h.PriceAvailable {
			ranked = append(ranked, holdingPerformance(h))
		}
	}

	top := slices.Clone(ranked)
	slices.SortStableFunc(top, func(a, b model.HoldingPerformance) int {
		return cmp.Or(cmp.Compare(b.ReturnRate, a.ReturnRate), tieBreak(a, b))
	})
	bottom := slices.Clone(ranked)
	slices.SortStableFunc(bottom, func(a, b model.HoldingPerformance) int {
		return cmp.Or(cmp.Compare(a.ReturnRate, b.ReturnRate), tieBreak(a, b))
	})

	return model.PortfolioPerformance{
		TopPerformers:      firstN(top, TopN),
		BottomPerformers:   firstN(bottom, TopN),
		AccountPerformance: s.accountPerformance(),
	}
}

func tieBreak(a, b model.HoldingPerformance) int {
	return cmp.Or(
		cmp.Compare(math.Abs(b.UnrealizedGainLoss), math.Abs(a.UnrealizedGainLoss)),
		cmp.Compare(a.Security, b.Security),
		cmp.Compare(a.Account, b.Account),
	)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func holdingPerformance(h model.Holding) model.HoldingPerformance {
	return model.HoldingPerformance{
		Security:           h.Security,
		Account:            h.Account,
		DisplayName:        h.DisplayName,
		Owner:              h.Owner,
		ReturnRate:         h.UnrealizedGainLossRate,
		UnrealizedGainLoss: h.UnrealizedGainLoss,
		CurrentValue:       h.CurrentValue,
		TotalCost:          h.TotalCost,
	}
}

// accountPerformance aggregates every account in scope, in display order.
func (s scope) accountPerformance() []model.AccountPerformance {
	byAccount := make(map[string]*model.AccountPerformance, len(s.accounts))
	out := make([]model.AccountPerformance, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = model.AccountPerformance{
			Account:     a.FullName,
			DisplayName: a.DisplayName,
			Owner:       a.Owner.Name,
			Broker:      a.Broker.Name,
			AccountType: a.Type.Name,
		}
		byAccount[a.FullName] = &out[i]
	}

	for _, c := range s.cash {
		if ap, ok := byAccount[c.Account]; ok {
			ap.Cash += c.BalanceKRW
		}
	}
	for _, h := range s.holdings {
		ap, ok := byAccount[h.Account]
		if !ok {
			continue
		}
		ap.Holdings++
		ap.CurrentValue += h.CurrentValue
		if h.PriceAvailable {
			ap.TotalCost += h.TotalCost
			ap.UnrealizedGainLoss += h.UnrealizedGainLoss
		}
	}
	for _, e := range s.events {
		ap, ok := byAccount[e.Account]
		if !ok {
			continue
		}
		v := s.eventKRW(e)
		switch e.Kind {
		case model.IncomeSellProfit:
			ap.RealizedGainLoss += v
		case model.IncomeDividend:
			ap.Dividends += v
		case model.IncomeInterest:
			ap.Interest += v
		}
	}

	for i := range out {
		ap := &out[i]
		ap.Cash = round(ap.Cash)
		ap.CurrentValue = round(ap.CurrentValue)
		ap.TotalCost = round(ap.TotalCost)
		ap.UnrealizedGainLoss = round(ap.UnrealizedGainLoss)
		ap.RealizedGainLoss = round(ap.RealizedGainLoss)
		ap.Dividends = round(ap.Dividends)
		ap.Interest = round(ap.Interest)
		ap.ReturnRate = round(percent(ap.UnrealizedGainLoss, ap.TotalCost))
		ap.LifetimeReturn = round(ap.RealizedGainLoss + ap.Dividends + ap.Interest + ap.UnrealizedGainLoss)
	}
	return out
}

package service

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// Risk computes win rate, gain/loss extremes and concentration for the
// accounts selected by f.
//
// WinRate counts holdings in profit against every open holding, including
// those without a price. The concentration ratio is the share of total stock
// value held by the TopN largest holdings by current value (ties by security);
// unpriced holdings are ranked with a value of zero.
func Risk(snap *model.Snapshot, f model.Filter) model.PortfolioRisk {
	s := newScope(snap, f)

	r := model.PortfolioRisk{
		TotalHoldings: len(s.holdings),
		TopHoldings:   []model.ConcentrationEntry{},
	}

	var rates []float64
	var best, worst *model.HoldingPerformance
	for _, h := range s.holdings {
		if !h.PriceAvailable {
			continue
		}
		r.PricedHoldings++
		rates = append(rates, h.UnrealizedGainLossRate)

		hp := holdingPerformance(h)
		switch {
		case h.UnrealizedGainLoss > 0:
			r.GainHoldings++
			r.TotalGain += h.UnrealizedGainLoss
			if best == nil || cmp.Or(cmp.Compare(best.ReturnRate, hp.ReturnRate), tieBreak(hp, *best)) < 0 {
				best = &hp
			}
		case h.UnrealizedGainLoss < 0:
			r.LossHoldings++
			r.TotalLoss += h.UnrealizedGainLoss
			if worst == nil || cmp.Or(cmp.Compare(hp.ReturnRate, worst.ReturnRate), tieBreak(hp, *worst)) < 0 {
				worst = &hp
			}
		}
	}
	r.MaxGain, r.MaxLoss = best, worst
	r.TotalGain = round(r.TotalGain)
	r.TotalLoss = round(r.TotalLoss)
	r.WinRate = round(percent(float64(r.GainHoldings), float64(r.TotalHoldings)))

	if len(rates) > 0 {
		mean, std := stat.MeanStdDev(rates, nil)
		if len(rates) < 2 {
			std = 0
		}
		r.ReturnRateMean = round(mean)
		r.ReturnRateStdDev = round(std)
	}

	byValue := slices.Clone(s.holdings)
	slices.SortStableFunc(byValue, func(a, b model.Holding) int {
		return cmp.Or(
			cmp.Compare(b.CurrentValue, a.CurrentValue),
			cmp.Compare(a.Security, b.Security),
			cmp.Compare(a.Account, b.Account),
		)
	})

	values := make([]float64, len(byValue))
	for i, h := range byValue {
		values[i] = h.CurrentValue
	}
	total := floats.Sum(values)
	if total <= 0 {
		return r
	}

	top := firstN(byValue, TopN)
	var topValue float64
	for _, h := range top {
		topValue += h.CurrentValue
		r.TopHoldings = append(r.TopHoldings, model.ConcentrationEntry{
			Security:     h.Security,
			Account:      h.Account,
			CurrentValue: h.CurrentValue,
			Weight:       round(percent(h.CurrentValue, total)),
		})
	}
	r.ConcentrationRatio = round(percent(topValue, total))

	weights := make([]float64, len(values))
	floats.ScaleTo(weights, 100/total, values)
	r.HHI = round(floats.Dot(weights, weights))
	return r
}

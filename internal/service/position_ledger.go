package service

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// ReplayResult is the position ledger state after replaying every transaction.
type ReplayResult struct {
	Positions   []model.Position    // ordered by account, then security
	Cash        []model.CashBalance // ordered by account, then currency
	Events      []model.IncomeEvent // ordered by date, then row
	Diagnostics []model.Diagnostic  // ordered by row
}

type groupResult struct {
	position model.Position
	events   []model.IncomeEvent
	warnings []*apperrors.OversellWarning
}

// ReplayPositions rebuilds positions, cash balances and the realized income
// trace from date-ordered transactions.
//
// Transactions are grouped by (account, security). Each group is replayed
// sequentially in input order, which must be chronological; independent
// groups are replayed concurrently. Every goroutine owns one slot of the
// result slice, so no state is shared between groups. The result depends
// only on the input, and replaying the same transactions twice yields equal
// results.
//
// Oversells clamp the share count at zero and are reported as OversellWarning
// diagnostics. The returned error is non-nil only when ctx is cancelled.
func ReplayPositions(ctx context.Context, txs []model.Transaction) (ReplayResult, error) {
	groups := make(map[model.PositionKey][]model.Transaction)
	var cashEvents []model.IncomeEvent
	for _, tx := range txs {
		switch {
		case tx.Security != "" && (tx.Action.IsTrade() || tx.Action == model.ActionDividend || tx.Action == model.ActionInterest):
			key := model.PositionKey{Account: tx.Account, Security: tx.Security}
			groups[key] = append(groups[key], tx)
		case tx.Action == model.ActionDividend:
			cashEvents = append(cashEvents, incomeEvent(tx, model.IncomeDividend, tx.Gross()))
		case tx.Action == model.ActionInterest:
			cashEvents = append(cashEvents, incomeEvent(tx, model.IncomeInterest, tx.Gross()))
		}
	}

	keys := make([]model.PositionKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b model.PositionKey) int {
		return cmp.Or(cmp.Compare(a.Account, b.Account), cmp.Compare(a.Security, b.Security))
	})

	results := make([]groupResult, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = replayGroup(key, groups[key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReplayResult{}, err
	}

	res := ReplayResult{
		Positions: make([]model.Position, 0, len(results)),
		Cash:      replayCash(txs),
		Events:    cashEvents,
	}
	var warnings []*apperrors.OversellWarning
	for _, r := range results {
		res.Positions = append(res.Positions, r.position)
		res.Events = append(res.Events, r.events...)
		warnings = append(warnings, r.warnings...)
	}

	slices.SortStableFunc(res.Events, func(a, b model.IncomeEvent) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Row, b.Row))
	})
	slices.SortStableFunc(warnings, func(a, b *apperrors.OversellWarning) int {
		return cmp.Compare(a.Row, b.Row)
	})
	for _, w := range warnings {
		res.Diagnostics = append(res.Diagnostics, model.NewDiagnostic(w))
	}
	return res, nil
}

// replayGroup folds the transactions of one (account, security) pair into a Position.
//
// Buy:  cost basis grows by amount + fees + taxes; average cost = basis / shares.
// Sell: realized = proceeds - average cost * shares - fees - taxes; the basis
// shrinks by average cost * shares and the average cost is unchanged.
func replayGroup(key model.PositionKey, txs []model.Transaction) groupResult {
	r := groupResult{position: model.Position{Account: key.Account, Security: key.Security}}
	p := &r.position

	for _, tx := range txs {
		if p.Currency == "" {
			p.Currency = tx.Currency
		}
		if p.FirstActivity.IsZero() {
			p.FirstActivity = tx.Date
		}
		p.LastActivity = tx.Date

		switch tx.Action {
		case model.ActionBuy:
			gross := tx.Gross()
			shares := p.SharesHeld.Add(tx.Shares)
			basis := p.TotalCostBasis.Add(gross).Add(tx.Fees).Add(tx.Taxes)
			if shares.IsPositive() {
				p.AverageCost = basis.Div(shares)
			}
			p.SharesHeld = shares
			p.TotalCostBasis = basis
			p.TotalBought = p.TotalBought.Add(gross)
			p.LastTradePrice = tx.UnitPrice

		case model.ActionSell:
			r.sell(tx)

		case model.ActionDividend:
			p.DividendReceived = p.DividendReceived.Add(tx.Gross())
			r.events = append(r.events, incomeEvent(tx, model.IncomeDividend, tx.Gross()))

		case model.ActionInterest:
			p.InterestReceived = p.InterestReceived.Add(tx.Gross())
			r.events = append(r.events, incomeEvent(tx, model.IncomeInterest, tx.Gross()))
		}
	}
	return r
}

// sell applies one sell. When more shares are sold than held, only the held
// shares are matched against the average cost: proceeds and costs are
// prorated to the matched quantity, the rest has no known basis and is left
// out of realized gain/loss.
func (r *groupResult) sell(tx model.Transaction) {
	p := &r.position
	qty := tx.Shares
	proceeds := tx.Gross()
	costs := tx.Fees.Add(tx.Taxes)

	if qty.GreaterThan(p.SharesHeld) {
		r.warnings = append(r.warnings, &apperrors.OversellWarning{
			Row:       tx.Row,
			Account:   tx.Account,
			Security:  tx.Security,
			Requested: qty.String(),
			Held:      p.SharesHeld.String(),
		})
		p.Oversold = true

		matched := p.SharesHeld
		ratio := decimal.Zero
		if qty.IsPositive() {
			ratio = matched.Div(qty)
		}
		proceeds = proceeds.Mul(ratio)
		costs = costs.Mul(ratio)
		qty = matched
	}

	realized := proceeds.Sub(p.AverageCost.Mul(qty)).Sub(costs)
	p.RealizedGainLoss = p.RealizedGainLoss.Add(realized)
	p.TotalSold = p.TotalSold.Add(tx.Gross())
	p.LastTradePrice = tx.UnitPrice

	p.SharesHeld = p.SharesHeld.Sub(qty)
	if p.SharesHeld.IsPositive() {
		p.TotalCostBasis = p.TotalCostBasis.Sub(p.AverageCost.Mul(qty))
	} else {
		p.SharesHeld = decimal.Zero
		p.TotalCostBasis = decimal.Zero
	}

	r.events = append(r.events, incomeEvent(tx, model.IncomeSellProfit, realized))
}

func incomeEvent(tx model.Transaction, kind model.IncomeKind, amount decimal.Decimal) model.IncomeEvent {
	security := tx.Security
	if security == "" {
		security = model.CashSecurity
	}
	return model.IncomeEvent{
		Row:      tx.Row,
		Date:     tx.Date,
		Year:     tx.Year(),
		Account:  tx.Account,
		Security: security,
		Kind:     kind,
		Amount:   amount,
		Currency: tx.Currency,
	}
}

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/trace"
)

// PriceLookup returns the current price of a security. Implementations
// report a missing price with an error wrapping apperrors.ErrPriceUnavailable;
// any error is treated as unavailable.
type PriceLookup interface {
	Price(ctx context.Context, security string) (model.Quote, error)
}

// FxLookup returns how many KRW one unit of currency is worth.
type FxLookup interface {
	Rate(ctx context.Context, currency string) (float64, error)
}

// Valuation is the result of pricing a snapshot.
type Valuation struct {
	Holdings    []model.Holding
	Cash        []model.AccountCash
	Rates       map[string]float64
	Diagnostics []model.Diagnostic
	ValuedAt    time.Time
}

// ValuationService prices open positions through external price and FX lookups.
type ValuationService struct {
	prices      PriceLookup
	fx          FxLookup
	concurrency int
	log         zerolog.Logger
	now         func() time.Time
}

// unavailable reports every price and rate as unavailable.
type unavailable struct{}

func (unavailable) Price(context.Context, string) (model.Quote, error) {
	return model.Quote{}, apperrors.ErrPriceUnavailable
}

func (unavailable) Rate(context.Context, string) (float64, error) {
	return 0, apperrors.ErrFxUnavailable
}

// NewValuationService creates a ValuationService. concurrency bounds the
// number of lookups in flight; values below 1 mean one at a time. A nil
// lookup reports everything as unavailable.
func NewValuationService(prices PriceLookup, fx FxLookup, concurrency int, log zerolog.Logger) *ValuationService {
	if concurrency < 1 {
		concurrency = 1
	}
	if prices == nil {
		prices = unavailable{}
	}
	if fx == nil {
		fx = unavailable{}
	}
	return &ValuationService{
		prices:      prices,
		fx:          fx,
		concurrency: concurrency,
		log:         log.With().Str("component", "valuation").Logger(),
		now:         time.Now,
	}
}

type quoteResult struct {
	quote model.Quote
	err   error
}

// Value prices every open position of snap.
//
// Lookups for distinct securities and currencies run concurrently. A failed
// lookup never fails the valuation: the affected holding keeps
// PriceAvailable=false with zero value and return, and a diagnostic is
// recorded. Timeouts and cancellations of ctx surface the same way.
func (s *ValuationService) Value(ctx context.Context, snap *model.Snapshot) Valuation {
	ctx, span := trace.StartSpan(ctx, "valuation.Value",
		attribute.Int("positions", len(snap.Positions)))
	defer span.End()

	var open []model.Position
	for _, p := range snap.Positions {
		if p.IsOpen() {
			open = append(open, p)
		}
	}

	securities := distinct(open, func(p model.Position) string { return p.Security })
	currencies := s.currencies(snap)

	quotes := make([]quoteResult, len(securities))
	rates := make([]quoteResult, len(currencies))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, security := range securities {
		g.Go(func() error {
			q, err := s.prices.Price(ctx, security)
			if err == nil && !(q.Price > 0) {
				err = apperrors.ErrPriceUnavailable
			}
			quotes[i] = quoteResult{quote: q, err: err}
			return nil
		})
	}
	for i, currency := range currencies {
		g.Go(func() error {
			rates[i] = s.rate(ctx, currency)
			return nil
		})
	}
	_ = g.Wait()

	v := Valuation{
		Rates:    map[string]float64{model.DefaultCurrency: 1},
		ValuedAt: s.now(),
	}
	fxFailed := map[string]error{}
	for i, currency := range currencies {
		if rates[i].err != nil {
			fxFailed[currency] = rates[i].err
			continue
		}
		v.Rates[currency] = rates[i].quote.Price
	}

	priceOf := make(map[string]model.Quote, len(securities))
	for i, security := range securities {
		if quotes[i].err != nil {
			v.Diagnostics = append(v.Diagnostics, model.NewDiagnostic(
				&apperrors.PriceUnavailableError{Security: security, Err: quotes[i].err}))
			continue
		}
		priceOf[security] = quotes[i].quote
	}

	// Quotes may be reported in a currency no position or cash balance uses.
	for _, q := range priceOf {
		if q.Currency == "" {
			continue
		}
		c := normalizeCurrency(q.Currency)
		if _, ok := v.Rates[c]; ok || fxFailed[c] != nil {
			continue
		}
		if r := s.rate(ctx, c); r.err != nil {
			fxFailed[c] = r.err
		} else {
			v.Rates[c] = r.quote.Price
		}
	}

	failed := make([]string, 0, len(fxFailed))
	for c := range fxFailed {
		failed = append(failed, c)
	}
	slices.Sort(failed)
	for _, c := range failed {
		v.Diagnostics = append(v.Diagnostics, model.NewDiagnostic(
			&apperrors.FxUnavailableError{Currency: c, Err: fxFailed[c]}))
	}

	for _, p := range open {
		v.Holdings = append(v.Holdings, s.holding(snap, p, priceOf, v.Rates))
	}
	for _, c := range snap.Cash {
		v.Cash = append(v.Cash, cashValue(c, v.Rates))
	}

	for _, d := range v.Diagnostics {
		s.log.Warn().
			Str("kind", string(d.Kind)).
			Str("security", d.Security).
			Str("currency", d.Currency).
			Msg(d.Message)
	}
	s.log.Debug().
		Int("holdings", len(v.Holdings)).
		Int("securities", len(securities)).
		Int("currencies", len(currencies)).
		Int("diagnostics", len(v.Diagnostics)).
		Msg("Valuation completed")
	span.SetAttributes(attribute.Int("diagnostics", len(v.Diagnostics)))
	return v
}

// currencies returns every non-KRW currency used by positions, cash or income events.
func (s *ValuationService) currencies(snap *model.Snapshot) []string {
	seen := map[string]bool{}
	var out []string
	add := func(c string) {
		c = normalizeCurrency(c)
		if c == model.DefaultCurrency || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, p := range snap.Positions {
		add(p.Currency)
	}
	for _, c := range snap.Cash {
		add(c.Currency)
	}
	for _, e := range snap.Events {
		add(e.Currency)
	}
	slices.Sort(out)
	return out
}

func (s *ValuationService) rate(ctx context.Context, currency string) quoteResult {
	if money.GetCurrency(currency) == nil {
		return quoteResult{err: fmt.Errorf("%w: unknown currency code %q", apperrors.ErrFxUnavailable, currency)}
	}
	r, err := s.fx.Rate(ctx, currency)
	if err != nil {
		return quoteResult{err: err}
	}
	if !(r > 0) {
		return quoteResult{err: fmt.Errorf("%w: non-positive rate %v", apperrors.ErrFxUnavailable, r)}
	}
	return quoteResult{quote: model.Quote{Price: r, Currency: currency}}
}

func (s *ValuationService) holding(snap *model.Snapshot, p model.Position, prices map[string]model.Quote, rates map[string]float64) model.Holding {
	account, _ := snap.Account(p.Account)
	h := model.Holding{
		Account:     p.Account,
		DisplayName: account.DisplayName,
		Owner:       account.Owner.Name,
		Broker:      account.Broker.Name,
		AccountType: account.Type.Name,
		Security:    p.Security,
		Currency:    normalizeCurrency(p.Currency),
		Shares:      p.SharesHeld.InexactFloat64(),
		AverageCost: roundDecimal(p.AverageCost),
		Oversold:    p.Oversold,
	}

	rate, ok := rates[h.Currency]
	if !ok {
		return h
	}
	h.FxRate = rate
	h.TotalCost = toKRW(p.TotalCostBasis, rate)
	h.RealizedGainLoss = toKRW(p.RealizedGainLoss, rate)
	h.Dividends = toKRW(p.DividendReceived, rate)
	h.Interest = toKRW(p.InterestReceived, rate)

	q, ok := prices[p.Security]
	if !ok {
		return h
	}
	quoteCurrency := h.Currency
	if q.Currency != "" {
		quoteCurrency = normalizeCurrency(q.Currency)
	}
	quoteRate, ok := rates[quoteCurrency]
	if !ok {
		return h
	}

	// Price in the position's own currency.
	price := decimal.NewFromFloat(q.Price).Mul(decimal.NewFromFloat(quoteRate)).Div(decimal.NewFromFloat(rate))
	value := p.SharesHeld.Mul(price).Mul(decimal.NewFromFloat(rate))

	h.PriceAvailable = true
	h.CurrentPrice = roundDecimal(price)
	h.CurrentValue = round(value.InexactFloat64())
	h.UnrealizedGainLoss = round(h.CurrentValue - h.TotalCost)
	if h.TotalCost > 0 {
		h.UnrealizedGainLossRate = round(h.UnrealizedGainLoss / h.TotalCost * 100)
	}
	return h
}

func cashValue(c model.CashBalance, rates map[string]float64) model.AccountCash {
	currency := normalizeCurrency(c.Currency)
	ac := model.AccountCash{
		Account:  c.Account,
		Currency: currency,
		Balance:  roundDecimal(c.Balance),
	}
	if rate, ok := rates[currency]; ok {
		ac.BalanceKRW = toKRW(c.Balance, rate)
		ac.RateAvailable = true
	}
	return ac
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return model.DefaultCurrency
	}
	return c
}

func toKRW(d decimal.Decimal, rate float64) float64 {
	return round(d.Mul(decimal.NewFromFloat(rate)).InexactFloat64())
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		k := key(it)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

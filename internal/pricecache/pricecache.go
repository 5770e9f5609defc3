// Package pricecache persists quotes and exchange rates between valuations.
//
// Prices and Rates wrap a live lookup. A cached value younger than the TTL is
// served without calling the live source; an older one is refreshed, and is
// still served when the refresh fails. In offline mode the live source is
// never called.
package pricecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/repository"
)

// PriceSource is the live quote source being cached.
type PriceSource interface {
	Price(ctx context.Context, security string) (model.Quote, error)
}

// RateSource is the live exchange rate source being cached.
type RateSource interface {
	Rate(ctx context.Context, currency string) (float64, error)
}

// Options configures a cache decorator.
type Options struct {
	TTL     time.Duration
	Offline bool
	Log     zerolog.Logger
	Now     func() time.Time // defaults to time.Now
}

func (o Options) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

// Prices caches a PriceSource in the quote_cache table.
type Prices struct {
	next PriceSource
	repo *repository.QuoteCacheRepository
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewPrices creates a quote cache in front of next. next may be nil in offline mode.
func NewPrices(next PriceSource, repo *repository.QuoteCacheRepository, opts Options) *Prices {
	return &Prices{
		next: next,
		repo: repo,
		opts: opts,
		log:  opts.Log.With().Str("component", "quote_cache").Logger(),
		now:  opts.clock(),
	}
}

// Price implements service.PriceLookup.
func (p *Prices) Price(ctx context.Context, security string) (model.Quote, error) {
	cached, err := p.repo.GetQuote(ctx, security)
	hit := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrQuoteNotFound) {
		p.log.Warn().Err(err).Str("security", security).Msg("Failed to read quote cache")
	}

	if hit && (p.opts.Offline || p.now().Sub(cached.FetchedAt) < p.opts.TTL) {
		return cached.Quote, nil
	}
	if p.opts.Offline || p.next == nil {
		return model.Quote{}, fmt.Errorf("%w: %s not cached", apperrors.ErrPriceUnavailable, security)
	}

	q, err := p.next.Price(ctx, security)
	if err != nil {
		if hit {
			p.log.Warn().Err(err).Str("security", security).
				Time("fetched_at", cached.FetchedAt).Msg("Quote refresh failed, serving cached quote")
			return cached.Quote, nil
		}
		return model.Quote{}, err
	}

	q.Security = security
	if err := p.repo.UpsertQuote(ctx, model.CachedQuote{Quote: q, FetchedAt: p.now()}); err != nil {
		p.log.Warn().Err(err).Str("security", security).Msg("Failed to store quote")
	}
	return q, nil
}

// Rates caches a RateSource in the exchange_rate table, one row per currency and day.
type Rates struct {
	next RateSource
	repo *repository.ExchangeRateRepository
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewRates creates an exchange rate cache in front of next. next may be nil in offline mode.
func NewRates(next RateSource, repo *repository.ExchangeRateRepository, opts Options) *Rates {
	return &Rates{
		next: next,
		repo: repo,
		opts: opts,
		log:  opts.Log.With().Str("component", "fx_cache").Logger(),
		now:  opts.clock(),
	}
}

// Rate implements service.FxLookup.
func (r *Rates) Rate(ctx context.Context, currency string) (float64, error) {
	cached, err := r.repo.GetLatestExchangeRate(ctx, currency)
	hit := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrExchangeRateNotFound) {
		r.log.Warn().Err(err).Str("currency", currency).Msg("Failed to read exchange rate cache")
	}

	if hit && (r.opts.Offline || r.now().Sub(cached.FetchedAt) < r.opts.TTL) {
		return cached.Rate, nil
	}
	if r.opts.Offline || r.next == nil {
		return 0, fmt.Errorf("%w: %s not cached", apperrors.ErrFxUnavailable, currency)
	}

	rate, err := r.next.Rate(ctx, currency)
	if err != nil {
		if hit {
			r.log.Warn().Err(err).Str("currency", currency).
				Time("date", cached.Date).Msg("Exchange rate refresh failed, serving cached rate")
			return cached.Rate, nil
		}
		return 0, err
	}

	now := r.now().UTC()
	er := model.ExchangeRate{
		Currency:  currency,
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Rate:      rate,
		FetchedAt: now,
	}
	if err := r.repo.UpsertExchangeRate(ctx, er); err != nil {
		r.log.Warn().Err(err).Str("currency", currency).Msg("Failed to store exchange rate")
	}
	return rate, nil
}

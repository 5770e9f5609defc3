package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/database"
	"github.com/ndewijer/portfolio-ledger/internal/fx"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/pricecache"
	"github.com/ndewijer/portfolio-ledger/internal/repository"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/yahoo"
)

// app is the wired load pipeline.
type app struct {
	db        *sql.DB
	store     *service.SnapshotStore
	portfolio *service.PortfolioService
	system    *service.SystemService
	source    ledger.FileSource
}

// newApp opens the cache database (unless Database.Path is empty) and wires
// the price sources, valuation and portfolio services.
func (o *rootOptions) newApp(ctx context.Context) (*app, error) {
	var db *sql.DB
	if path := o.cfg.Database.Path; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		var err error
		if db, err = database.Open(ctx, path); err != nil {
			return nil, err
		}
		o.log.Debug().Str("path", path).Msg("Connected to cache database")
	}

	lookups := o.lookups
	if lookups == nil {
		lookups = o.liveLookups
	}
	prices, rates := lookups(db)

	valuation := service.NewValuationService(prices, rates, o.cfg.Valuation.Concurrency, o.log)
	store := service.NewSnapshotStore()
	portfolio := service.NewPortfolioService(accounts.NewResolver(o.cfg.Conventions), valuation, store, o.log)

	return &app{
		db:        db,
		store:     store,
		portfolio: portfolio,
		system:    service.NewSystemService(db, store),
		source:    ledger.FileSource(o.ledgerPath),
	}, nil
}

// liveLookups returns Yahoo quotes and Naver exchange rates, cached in db
// when there is one. Offline, only cached values are used.
func (o *rootOptions) liveLookups(db *sql.DB) (service.PriceLookup, service.FxLookup) {
	var livePrices pricecache.PriceSource
	var liveRates pricecache.RateSource
	if !o.offline {
		livePrices = yahoo.NewQuoteService(yahoo.NewFinanceClient(), o.log)
		liveRates = fx.NewNaverRates("", nil, o.log)
	}
	if db == nil {
		return livePrices, liveRates
	}

	prices := pricecache.NewPrices(livePrices, repository.NewQuoteCacheRepository(db), pricecache.Options{
		TTL:     o.cfg.Valuation.QuoteCacheTTL,
		Offline: o.offline,
		Log:     o.log,
	})
	rates := pricecache.NewRates(liveRates, repository.NewExchangeRateRepository(db), pricecache.Options{
		TTL:     o.cfg.Valuation.FxCacheTTL,
		Offline: o.offline,
		Log:     o.log,
	})
	return prices, rates
}

// Close closes the cache database.
func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

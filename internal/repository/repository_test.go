package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/repository"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

// TestQuoteCacheRepository tests storing and reading cached quotes.
//
// WHY: The quote cache serves prices when Yahoo is unreachable; an upsert
// that duplicated rows or lost the fetch time would serve stale prices as fresh.
func TestQuoteCacheRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteCacheRepository(db)

	t.Run("returns ErrQuoteNotFound when nothing is cached", func(t *testing.T) {
		_, err := repo.GetQuote(ctx, "삼성전자")
		assert.ErrorIs(t, err, apperrors.ErrQuoteNotFound)
	})

	t.Run("upsert replaces the previous quote", func(t *testing.T) {
		defer testutil.CleanDatabase(t, db)
		first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

		require.NoError(t, repo.UpsertQuote(ctx, model.CachedQuote{
			Quote:     model.Quote{Security: "삼성전자", Symbol: "005930.KS", Price: 70000, Currency: "KRW"},
			FetchedAt: first,
		}))
		require.NoError(t, repo.UpsertQuote(ctx, model.CachedQuote{
			Quote:     model.Quote{Security: "삼성전자", Symbol: "005930.KS", Price: 71000, Currency: "KRW"},
			FetchedAt: first.Add(time.Hour),
		}))

		q, err := repo.GetQuote(ctx, "삼성전자")
		require.NoError(t, err)
		assert.Equal(t, 71000.0, q.Price)
		assert.Equal(t, "005930.KS", q.Symbol)
		assert.True(t, q.FetchedAt.Equal(first.Add(time.Hour)))
		testutil.AssertRowCount(t, db, "quote_cache", 1)
	})

	t.Run("lists quotes ordered by security", func(t *testing.T) {
		defer testutil.CleanDatabase(t, db)
		now := time.Now().UTC()
		for _, s := range []string{"TSLA", "AAPL"} {
			require.NoError(t, repo.UpsertQuote(ctx, model.CachedQuote{
				Quote:     model.Quote{Security: s, Symbol: s, Price: 1, Currency: "USD"},
				FetchedAt: now,
			}))
		}

		quotes, err := repo.GetQuotes(ctx)
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, "AAPL", quotes[0].Security)
		assert.Equal(t, "TSLA", quotes[1].Security)
	})
}

// TestExchangeRateRepository tests the per-day exchange rate store.
//
// WHY: Rates are cached once per calendar day; reading yesterday's rate as
// today's would hide a failed refresh.
func TestExchangeRateRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewExchangeRateRepository(db)

	day1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, repo.UpsertExchangeRate(ctx, model.ExchangeRate{Currency: "USD", Date: day1, Rate: 1350, FetchedAt: day1}))
	require.NoError(t, repo.UpsertExchangeRate(ctx, model.ExchangeRate{Currency: "USD", Date: day2, Rate: 1360, FetchedAt: day2}))
	require.NoError(t, repo.UpsertExchangeRate(ctx, model.ExchangeRate{Currency: "USD", Date: day2, Rate: 1365, FetchedAt: day2.Add(time.Hour)}))

	t.Run("reads the rate of a day", func(t *testing.T) {
		er, err := repo.GetExchangeRate(ctx, "USD", day1)
		require.NoError(t, err)
		assert.Equal(t, 1350.0, er.Rate)
		assert.True(t, er.Date.Equal(day1))
	})

	t.Run("same-day upsert replaces the rate", func(t *testing.T) {
		er, err := repo.GetExchangeRate(ctx, "USD", day2)
		require.NoError(t, err)
		assert.Equal(t, 1365.0, er.Rate)
		testutil.AssertRowCount(t, db, "exchange_rate", 2)
	})

	t.Run("latest returns the newest day", func(t *testing.T) {
		er, err := repo.GetLatestExchangeRate(ctx, "USD")
		require.NoError(t, err)
		assert.True(t, er.Date.Equal(day2))
	})

	t.Run("unknown currency or day", func(t *testing.T) {
		_, err := repo.GetExchangeRate(ctx, "USD", day2.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
		_, err = repo.GetLatestExchangeRate(ctx, "JPY")
		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})
}

// TestParseTime tests both accepted storage formats.
func TestParseTime(t *testing.T) {
	d, err := repository.ParseTime("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = repository.ParseTime("2024-05-01T09:30:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC), d)

	_, err = repository.ParseTime("01/05/2024")
	assert.Error(t, err)
}

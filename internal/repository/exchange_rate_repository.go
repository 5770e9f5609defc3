package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// ExchangeRateRepository provides data access methods for the exchange_rate table.
// Rates are stored once per currency and calendar day.
type ExchangeRateRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewExchangeRateRepository creates a new ExchangeRateRepository with the provided database connection.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *ExchangeRateRepository) WithTx(tx *sql.Tx) *ExchangeRateRepository {
	return &ExchangeRateRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ExchangeRateRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetExchangeRate retrieves the rate of currency on the given day.
// Returns apperrors.ErrExchangeRateNotFound when no rate was stored for that day.
func (r *ExchangeRateRepository) GetExchangeRate(ctx context.Context, currency string, date time.Time) (model.ExchangeRate, error) {
	query := `
        SELECT currency, date, rate, fetched_at
        FROM exchange_rate
        WHERE currency = ? AND date = ?
    `

	var er model.ExchangeRate
	var dateStr, fetchedAt string
	err := r.getQuerier().QueryRowContext(ctx, query, currency, date.Format(dateLayout)).Scan(
		&er.Currency,
		&dateStr,
		&er.Rate,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to query exchange_rate: %w", err)
	}

	if er.Date, err = ParseTime(dateStr); err != nil {
		return model.ExchangeRate{}, err
	}
	if er.FetchedAt, err = ParseTime(fetchedAt); err != nil {
		return model.ExchangeRate{}, err
	}
	return er, nil
}

// GetLatestExchangeRate retrieves the most recent stored rate of currency.
// Returns apperrors.ErrExchangeRateNotFound when the currency was never stored.
func (r *ExchangeRateRepository) GetLatestExchangeRate(ctx context.Context, currency string) (model.ExchangeRate, error) {
	query := `
        SELECT currency, date, rate, fetched_at
        FROM exchange_rate
        WHERE currency = ?
        ORDER BY date DESC
        LIMIT 1
    `

	var er model.ExchangeRate
	var dateStr, fetchedAt string
	err := r.getQuerier().QueryRowContext(ctx, query, currency).Scan(
		&er.Currency,
		&dateStr,
		&er.Rate,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to query exchange_rate: %w", err)
	}

	if er.Date, err = ParseTime(dateStr); err != nil {
		return model.ExchangeRate{}, err
	}
	if er.FetchedAt, err = ParseTime(fetchedAt); err != nil {
		return model.ExchangeRate{}, err
	}
	return er, nil
}

// UpsertExchangeRate stores the rate of a currency for a day, replacing any
// rate stored earlier that day.
func (r *ExchangeRateRepository) UpsertExchangeRate(ctx context.Context, er model.ExchangeRate) error {
	query := `
        INSERT INTO exchange_rate (currency, date, rate, fetched_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(currency, date) DO UPDATE SET
            rate = excluded.rate,
            fetched_at = excluded.fetched_at
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		er.Currency,
		er.Date.Format(dateLayout),
		er.Rate,
		formatTime(er.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange_rate: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// QuoteCacheRepository provides data access methods for the quote_cache table.
// It keeps the last fetched quote of every security.
type QuoteCacheRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewQuoteCacheRepository creates a new QuoteCacheRepository with the provided database connection.
func NewQuoteCacheRepository(db *sql.DB) *QuoteCacheRepository {
	return &QuoteCacheRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *QuoteCacheRepository) WithTx(tx *sql.Tx) *QuoteCacheRepository {
	return &QuoteCacheRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *QuoteCacheRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetQuote retrieves the cached quote of a security.
// Returns apperrors.ErrQuoteNotFound when nothing was cached yet.
func (r *QuoteCacheRepository) GetQuote(ctx context.Context, security string) (model.CachedQuote, error) {
	query := `
        SELECT security, symbol, price, currency, fetched_at
        FROM quote_cache
        WHERE security = ?
    `

	var q model.CachedQuote
	var fetchedAt string
	err := r.getQuerier().QueryRowContext(ctx, query, security).Scan(
		&q.Security,
		&q.Symbol,
		&q.Price,
		&q.Currency,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CachedQuote{}, apperrors.ErrQuoteNotFound
	}
	if err != nil {
		return model.CachedQuote{}, fmt.Errorf("failed to query quote_cache: %w", err)
	}

	q.FetchedAt, err = ParseTime(fetchedAt)
	if err != nil {
		return model.CachedQuote{}, err
	}
	return q, nil
}

// UpsertQuote stores the latest quote of a security, replacing any earlier one.
func (r *QuoteCacheRepository) UpsertQuote(ctx context.Context, q model.CachedQuote) error {
	query := `
        INSERT INTO quote_cache (security, symbol, price, currency, fetched_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(security) DO UPDATE SET
            symbol = excluded.symbol,
            price = excluded.price,
            currency = excluded.currency,
            fetched_at = excluded.fetched_at
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		q.Security,
		q.Symbol,
		q.Price,
		q.Currency,
		formatTime(q.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quote_cache: %w", err)
	}
	return nil
}

// GetQuotes returns every cached quote ordered by security.
func (r *QuoteCacheRepository) GetQuotes(ctx context.Context) ([]model.CachedQuote, error) {
	query := `
        SELECT security, symbol, price, currency, fetched_at
        FROM quote_cache
        ORDER BY security ASC
    `

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote_cache: %w", err)
	}
	defer rows.Close()

	quotes := []model.CachedQuote{}
	for rows.Next() {
		var q model.CachedQuote
		var fetchedAt string
		if err := rows.Scan(&q.Security, &q.Symbol, &q.Price, &q.Currency, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote_cache row: %w", err)
		}
		q.FetchedAt, err = ParseTime(fetchedAt)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote_cache rows: %w", err)
	}
	return quotes, nil
}

package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// MockPriceLookup is an in-memory price source for valuation tests.
// Securities without a configured quote are reported as unavailable.
type MockPriceLookup struct {
	mu     sync.Mutex
	quotes map[string]model.Quote
	errs   map[string]error
	calls  map[string]int
}

// NewMockPriceLookup creates an empty MockPriceLookup.
func NewMockPriceLookup() *MockPriceLookup {
	return &MockPriceLookup{
		quotes: map[string]model.Quote{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

// WithPrice sets a KRW price for security.
func (m *MockPriceLookup) WithPrice(security string, price float64) *MockPriceLookup {
	return m.WithQuote(model.Quote{Security: security, Symbol: security, Price: price, Currency: model.DefaultCurrency})
}

// WithQuote sets the full quote returned for q.Security.
func (m *MockPriceLookup) WithQuote(q model.Quote) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[q.Security] = q
	return m
}

// WithError makes lookups of security fail with err.
func (m *MockPriceLookup) WithError(security string, err error) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[security] = err
	return m
}

// Price implements service.PriceLookup.
func (m *MockPriceLookup) Price(ctx context.Context, security string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[security]++
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}
	if err, ok := m.errs[security]; ok {
		return model.Quote{}, err
	}
	q, ok := m.quotes[security]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrPriceUnavailable, security)
	}
	return q, nil
}

// Calls returns how often security was looked up.
func (m *MockPriceLookup) Calls(security string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[security]
}

// MockFxLookup is an in-memory exchange rate source.
type MockFxLookup struct {
	mu    sync.Mutex
	rates map[string]float64
	err   error
	calls int
}

// NewMockFxLookup creates a MockFxLookup with no rates.
func NewMockFxLookup() *MockFxLookup {
	return &MockFxLookup{rates: map[string]float64{}}
}

// WithRate sets the KRW value of one unit of currency.
func (m *MockFxLookup) WithRate(currency string, rate float64) *MockFxLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[currency] = rate
	return m
}

// WithError makes every lookup fail with err.
func (m *MockFxLookup) WithError(err error) *MockFxLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Rate implements service.FxLookup.
func (m *MockFxLookup) Rate(_ context.Context, currency string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	r, ok := m.rates[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrExchangeRateNotFound, currency)
	}
	return r, nil
}

// Calls returns the number of lookups made.
func (m *MockFxLookup) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

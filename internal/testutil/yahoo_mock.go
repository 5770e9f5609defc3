package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/portfolio-ledger/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls.
type MockYahooClient struct {
	mu sync.Mutex
	// MockResponse is the response to return from query methods
	MockResponse yahoo.Response
	// MockError is the error to return from query methods
	MockError error
	// Symbols records every queried symbol in call order
	Symbols []string
}

// NewMockYahooClient creates a new mock Yahoo client with default test data.
// The default data includes 5 days of USD prices for "TEST".
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse: CreateMockYahooResponse("TEST", "USD", 5),
	}
}

// QueryFiveDaySymbol mocks the 5-day symbol query with predefined test data.
func (m *MockYahooClient) QueryFiveDaySymbol(_ context.Context, symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Symbols = append(m.Symbols, symbol)
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	return m.MockResponse, nil
}

// QueryCount returns how many times a query method was called.
func (m *MockYahooClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Symbols)
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified response.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// WithEmptyResponse configures the mock to return a chart without prices.
func (m *MockYahooClient) WithEmptyResponse() *MockYahooClient {
	m.MockResponse = yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{{Meta: yahoo.Meta{Symbol: "TEST", Currency: "USD"}}},
		},
	}
	return m
}

// CreateMockYahooResponse creates a mock chart response with `days` daily
// closes ending yesterday. Closes start at 100 and rise by 0.5 per day; the
// regular market price is left unset so the last close is the quote.
func CreateMockYahooResponse(symbol, currency string, days int) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, days)
	closes := make([]float64, days)
	for i := 0; i < days; i++ {
		timestamps[i] = yesterday.AddDate(0, 0, -days+i+1).Unix()
		closes[i] = 100 + float64(i)*0.5
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:   symbol,
						Currency: currency,
					},
					Timestamp: timestamps,
					Indicators: yahoo.Indicators{
						Quote: []yahoo.QuoteSeries{{Close: closes}},
					},
				},
			},
		},
	}
}

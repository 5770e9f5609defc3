package model

import "time"

// CachedQuote is a quote persisted by the quote cache.
type CachedQuote struct {
	Quote
	FetchedAt time.Time `json:"fetchedAt"`
}

// ExchangeRate is the KRW value of one unit of Currency on Date.
type ExchangeRate struct {
	Currency  string    `json:"currency"`
	Date      time.Time `json:"date"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetchedAt"`
}

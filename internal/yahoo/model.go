package yahoo

import "time"

// Response represents the raw JSON response structure of the Yahoo Finance
// chart API. Chart.Result typically holds one element.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart object of a Response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns for unknown symbols.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the metadata and price series of one symbol.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta is the symbol metadata of a Result.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	LongName           string  `json:"longName"`
	Shortname          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	PreviousClose      float64 `json:"chartPreviousClose"`
}

// Indicators holds the OHLCV arrays of a Result. Missing trading days are
// reported as null and decode to zero.
type Indicators struct {
	Quote []QuoteSeries `json:"quote"`
}

// QuoteSeries is one OHLCV series.
type QuoteSeries struct {
	Open   []float64 `json:"open"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
}

// PriceChart is the parsed form of a Response.
type PriceChart struct {
	Currency           string       `json:"currency"`
	Symbol             string       `json:"symbol"`
	ExchangeName       string       `json:"exchangeName"`
	LongName           string       `json:"longName"`
	RegularMarketPrice float64      `json:"regularMarketPrice"`
	Closes             []DailyClose `json:"closes"`
}

// DailyClose is the closing price of one trading day.
type DailyClose struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// LastPrice returns the regular market price, or the latest non-zero close
// when Yahoo does not report one.
func (c PriceChart) LastPrice() (float64, bool) {
	if c.RegularMarketPrice > 0 {
		return c.RegularMarketPrice, true
	}
	for i := len(c.Closes) - 1; i >= 0; i-- {
		if c.Closes[i].Close > 0 {
			return c.Closes[i].Close, true
		}
	}
	return 0, false
}

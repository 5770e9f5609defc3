package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
)

// DefaultBaseURL is the Yahoo Finance chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Client fetches chart data for a Yahoo symbol.
type Client interface {
	QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithURL(DefaultBaseURL, &http.Client{Timeout: 10 * time.Second})
}

// NewFinanceClientWithURL creates a client against another chart endpoint.
func NewFinanceClientWithURL(baseURL string, httpClient *http.Client) *FinanceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &FinanceClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// QueryFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
//
// Returns:
//   - Response: Raw API response containing price data
//   - error: If the HTTP request fails, API returns an error, or no results found
func (c *FinanceClient) QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	u := c.baseURL + url.PathEscape(symbol) + "?interval=1d&range=5d"
	result, err := c.queryYahoo(ctx, u)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return result, nil
}

// ParseChart converts a raw Yahoo Finance API response into a PriceChart.
// Timestamps and close prices must be present with matching lengths.
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no chart result")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		ExchangeName:       result.Meta.ExchangeName,
		LongName:           result.Meta.LongName,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
	}
	if len(result.Timestamp) == 0 {
		return chart, nil
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	chart.Closes = make([]DailyClose, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		chart.Closes[i] = DailyClose{Date: time.Unix(ts, 0).UTC(), Close: closes[i]}
	}
	return chart, nil
}

// queryYahoo executes a request against the Yahoo Finance API and decodes the
// response. A browser User-Agent is required to avoid being blocked.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: yahoo error: %s", apperrors.ErrSymbolNotFound, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}
	return response, nil
}

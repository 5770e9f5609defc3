// Package fx reads KRW exchange rates from the Naver Finance market index page.
package fx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
)

// DefaultURL is the Naver Finance exchange rate page.
const DefaultURL = "https://finance.naver.com/marketindex/?tabSel=exchange"

// Page headings of the rates listed on the market index page.
var currencyNames = map[string]string{
	"미국 USD":       "USD",
	"일본 JPY(100엔)": "JPY",
	"유럽연합 EUR":     "EUR",
	"중국 CNY":       "CNY",
	"영국 GBP":       "GBP",
	"호주 AUD":       "AUD",
	"캐나다 CAD":      "CAD",
	"스위스 CHF":      "CHF",
	"홍콩 HKD":       "HKD",
	"뉴질랜드 NZD":     "NZD",
}

// Rates quoted per 100 units.
var per100 = map[string]bool{"JPY": true}

// NaverRates scrapes all rates at once and keeps them for MaxAge, so the
// concurrent lookups of one valuation share a single page request.
type NaverRates struct {
	url        string
	httpClient *http.Client
	maxAge     time.Duration
	log        zerolog.Logger

	group     singleflight.Group
	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

// NewNaverRates creates a scraper for url. An empty url uses DefaultURL.
func NewNaverRates(url string, httpClient *http.Client, log zerolog.Logger) *NaverRates {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &NaverRates{
		url:        url,
		httpClient: httpClient,
		maxAge:     time.Minute,
		log:        log.With().Str("component", "fx").Logger(),
	}
}

// Rate returns how many KRW one unit of currency is worth.
func (n *NaverRates) Rate(ctx context.Context, currency string) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == "KRW" {
		return 1, nil
	}
	rates, err := n.all(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", apperrors.ErrFxUnavailable, currency, err)
	}
	rate, ok := rates[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %w: %s", apperrors.ErrFxUnavailable, apperrors.ErrExchangeRateNotFound, currency)
	}
	return rate, nil
}

func (n *NaverRates) all(ctx context.Context) (map[string]float64, error) {
	n.mu.Lock()
	if n.rates != nil && time.Since(n.fetchedAt) < n.maxAge {
		rates := n.rates
		n.mu.Unlock()
		return rates, nil
	}
	n.mu.Unlock()

	v, err, _ := n.group.Do("rates", func() (any, error) {
		rates, err := n.fetch(ctx)
		if err != nil {
			return nil, err
		}
		n.mu.Lock()
		n.rates, n.fetchedAt = rates, time.Now()
		n.mu.Unlock()
		n.log.Debug().Int("currencies", len(rates)).Msg("Exchange rates fetched")
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}

func (n *NaverRates) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	rates := ParseRates(doc)
	if len(rates) == 0 {
		return nil, fmt.Errorf("no exchange rates found on page")
	}
	return rates, nil
}

// ParseRates extracts the rates listed in the page's data_lst blocks.
// Entries with an unknown heading or unparsable value are skipped.
func ParseRates(doc *goquery.Document) map[string]float64 {
	rates := map[string]float64{}
	doc.Find("ul.data_lst li").Each(func(_ int, item *goquery.Selection) {
		h3 := item.Find("h3").First()
		name := strings.TrimSpace(h3.Find("span.blind").First().Text())
		if name == "" {
			name = strings.TrimSpace(h3.Text())
		}
		code, ok := currencyNames[name]
		if !ok {
			return
		}
		raw := strings.ReplaceAll(strings.TrimSpace(item.Find("span.value").First().Text()), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return
		}
		if per100[code] {
			v /= 100
		}
		rates[code] = v
	})
	return rates
}

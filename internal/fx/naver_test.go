package fx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/fx"
)

const page = `<html><body>
<ul class="data_lst" id="exchangeList">
  <li class="on"><a href="#"><h3 class="h_lst"><span class="blind">미국 USD</span></h3>
    <div class="head_info"><span class="value">1,365.50</span></div></a></li>
  <li><a href="#"><h3 class="h_lst"><span class="blind">일본 JPY(100엔)</span></h3>
    <div class="head_info"><span class="value">905.12</span></div></a></li>
  <li><a href="#"><h3 class="h_lst"><span class="blind">유럽연합 EUR</span></h3>
    <div class="head_info"><span class="value">-</span></div></a></li>
  <li><a href="#"><h3 class="h_lst"><span class="blind">WTI</span></h3>
    <div class="head_info"><span class="value">78.10</span></div></a></li>
</ul>
</body></html>`

// TestParseRates tests extraction of rates from the market index page.
//
// WHY: JPY is quoted per 100 yen; using the page value unscaled would
// overvalue yen holdings a hundredfold.
func TestParseRates(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	rates := fx.ParseRates(doc)

	require.Len(t, rates, 2)
	assert.Equal(t, 1365.5, rates["USD"])
	assert.InDelta(t, 9.0512, rates["JPY"], 1e-9)
}

// TestNaverRates_Rate tests the HTTP path and the shared page fetch.
func TestNaverRates_Rate(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	n := fx.NewNaverRates(srv.URL, srv.Client(), zerolog.Nop())
	ctx := context.Background()

	usd, err := n.Rate(ctx, "usd")
	require.NoError(t, err)
	assert.Equal(t, 1365.5, usd)

	krw, err := n.Rate(ctx, "KRW")
	require.NoError(t, err)
	assert.Equal(t, 1.0, krw)

	_, err = n.Rate(ctx, "EUR")
	assert.ErrorIs(t, err, apperrors.ErrFxUnavailable)
	assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)

	assert.Equal(t, int32(1), hits.Load(), "page fetched once")
}

// TestNaverRates_ServerError tests that a failed page request surfaces as FX unavailable.
func TestNaverRates_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fx.NewNaverRates(srv.URL, srv.Client(), zerolog.Nop()).Rate(context.Background(), "USD")
	assert.ErrorIs(t, err, apperrors.ErrFxUnavailable)
}

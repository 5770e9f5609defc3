package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/api"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

// TestNewRouter tests routing, middleware and CORS.
//
// WHY: Handlers are unit tested directly; this makes sure they are mounted
// where the dashboard expects them and that browsers may call them.
func TestNewRouter(t *testing.T) {
	rows := testutil.NewLedger().Deposit("2024-01-02", "민호 토스 종합매매", 1000).Rows()
	portfolio := testutil.ReloadedPortfolioService(t, rows, nil)
	current, err := portfolio.Current()
	require.NoError(t, err)
	store := service.NewSnapshotStore()
	store.Store(current)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	router := api.NewRouter(service.NewSystemService(nil, store), portfolio, rows, cfg, zerolog.Nop())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/system/health", http.StatusOK},
		{http.MethodGet, "/api/system/version", http.StatusOK},
		{http.MethodGet, "/api/portfolio/summary", http.StatusOK},
		{http.MethodGet, "/api/portfolio/performance", http.StatusOK},
		{http.MethodGet, "/api/portfolio/risk", http.StatusOK},
		{http.MethodGet, "/api/portfolio/accounts", http.StatusOK},
		{http.MethodGet, "/api/portfolio/yearly", http.StatusOK},
		{http.MethodGet, "/api/portfolio/dashboard?owner=%EB%AF%BC%ED%98%B8", http.StatusOK},
		{http.MethodGet, "/api/portfolio/filters", http.StatusOK},
		{http.MethodGet, "/api/portfolio/diagnostics", http.StatusOK},
		{http.MethodGet, "/api/portfolio/transactions?year=2024", http.StatusOK},
		{http.MethodGet, "/api/portfolio/transactions.csv", http.StatusOK},
		{http.MethodGet, "/api/portfolio/report?format=html", http.StatusOK},
		{http.MethodPost, "/api/portfolio/revalue", http.StatusOK},
		{http.MethodPost, "/api/portfolio/reload", http.StatusOK},
		{http.MethodGet, "/api/portfolio/transactions?type=split", http.StatusBadRequest},
		{http.MethodGet, "/api/portfolio/unknown", http.StatusNotFound},
		{http.MethodDelete, "/api/portfolio/summary", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	t.Run("CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/portfolio/summary", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

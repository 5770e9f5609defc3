package yahoo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/portfolio-ledger/internal/yahoo"
)

// TestSymbol tests mapping ledger security names to Yahoo symbols.
//
// WHY: Ledger exports use display names; a wrong mapping silently values a
// holding at another listing's price.
func TestSymbol(t *testing.T) {
	tests := []struct {
		name     string
		security string
		want     string
		ok       bool
	}{
		{"known Korean name", "삼성전자", "005930.KS", true},
		{"KOSDAQ listing", "가온칩스", "399720.KQ", true},
		{"Korean ETF", "TIGER 미국S&P500", "360750.KS", true},
		{"longest contained name wins", "SK하이닉스 보통주", "000660.KS", true},
		{"bare KRX code", "035720", "035720.KS", true},
		{"already Yahoo form", "005930.KS", "005930.KS", true},
		{"US ticker", "AAPL", "AAPL", true},
		{"US name", "Apple", "AAPL", true},
		{"US ETF name", "Vanguard S&P 500 ETF", "VOO", true},
		{"surrounding whitespace", "  Tesla ", "TSLA", true},
		{"unknown", "알수없는종목", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := yahoo.Symbol(tt.security)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

package yahoo

import (
	"regexp"
	"strings"
)

var (
	yahooSymbol = regexp.MustCompile(`^(\d{6}\.(KS|KQ)|[A-Z]{1,5}(\.[A-Z]{1,2})?)$`)
	krxCode     = regexp.MustCompile(`^\d{6}$`)
)

// Korean listings by ledger name. KOSDAQ listings carry the .KQ suffix.
var koreanSymbols = map[string]string{
	"삼성전자":          "005930.KS",
	"기업은행":          "024110.KS",
	"PS일렉트로닉스":      "332570.KQ",
	"GS글로벌":         "001250.KS",
	"KODEX 200":     "069500.KS",
	"KODEX 고배당주":    "279530.KS",
	"ACE 미국S&P500":  "360200.KS",
	"ACE 미국나스닥100":  "367380.KS",
	"RISE 미국S&P500": "379780.KS",
	"SOL 미국S&P500":  "433330.KS",
	"TIGER 미국S&P500": "360750.KS",
	"TIGER 미국배당다우존스": "458730.KS",
	"TIGER 리츠부동산인프라": "329200.KS",
	"가온칩스":          "399720.KQ",
	"금양":            "001570.KS",
	"두산":            "000150.KS",
	"유한양행":          "000100.KS",
	"포스코DX":         "022100.KS",
	"포스코인터내셔널":      "047050.KS",
	"삼성바이오로직스":      "207940.KS",
	"삼성SDI":         "006400.KS",
	"삼성물산":          "028260.KS",
	"LG화학":          "051910.KS",
	"LG전자":          "066570.KS",
	"LG에너지솔루션":      "373220.KS",
	"SK하이닉스":        "000660.KS",
	"SK텔레콤":         "017670.KS",
	"네이버":           "035420.KS",
	"카카오":           "035720.KS",
	"현대차":           "005380.KS",
	"기아":            "000270.KS",
	"POSCO홀딩스":      "005490.KS",
	"KB금융":          "105560.KS",
	"신한지주":          "055550.KS",
	"하나금융지주":        "086790.KS",
	"KT&G":          "033780.KS",
	"셀트리온":          "068270.KS",
	"한국전력":          "015760.KS",
}

// US listings and ETFs by ledger name.
var usSymbols = map[string]string{
	"Apple":                        "AAPL",
	"Microsoft":                    "MSFT",
	"Alphabet":                     "GOOGL",
	"Google":                       "GOOGL",
	"Amazon":                       "AMZN",
	"Tesla":                        "TSLA",
	"Meta Platforms":               "META",
	"Nvidia":                       "NVDA",
	"NVIDIA":                       "NVDA",
	"Netflix":                      "NFLX",
	"JPMorgan":                     "JPM",
	"Coca Cola":                    "KO",
	"Johnson & Johnson":            "JNJ",
	"Realty Income":                "O",
	"SPDR S&P 500":                 "SPY",
	"Invesco QQQ":                  "QQQ",
	"Vanguard S&P 500":             "VOO",
	"Vanguard Total Stock Market":  "VTI",
	"Schwab U.S. Dividend Equity":  "SCHD",
	"iShares Russell 2000":         "IWM",
	"iShares MSCI Emerging Market": "EEM",
}

// Symbol maps a ledger security name to a Yahoo Finance symbol.
//
// Names already in Yahoo form are returned unchanged. Known Korean and US
// names map to their listing, matching the longest known name contained in
// the security when there is no exact match. A bare six-digit KRX code gets
// the .KS suffix. It reports false when no symbol can be derived.
func Symbol(security string) (string, bool) {
	s := strings.TrimSpace(security)
	if s == "" {
		return "", false
	}
	if yahooSymbol.MatchString(s) {
		return s, true
	}
	if sym, ok := lookup(koreanSymbols, s); ok {
		return sym, true
	}
	if sym, ok := lookup(usSymbols, s); ok {
		return sym, true
	}
	if krxCode.MatchString(s) {
		return s + ".KS", true
	}
	return "", false
}

func lookup(names map[string]string, s string) (string, bool) {
	if sym, ok := names[s]; ok {
		return sym, true
	}
	var best, bestName string
	for name, sym := range names {
		if !strings.Contains(s, name) {
			continue
		}
		if len(name) > len(bestName) || (len(name) == len(bestName) && name < bestName) {
			best, bestName = sym, name
		}
	}
	return best, bestName != ""
}

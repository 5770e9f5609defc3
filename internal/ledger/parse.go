package ledger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

var currencyPrefix = regexp.MustCompile(`^([A-Z]{3})\s+`)

// parseNumber parses a ledger numeric cell such as "1,234.50", "USD 12.30"
// or "-3". It returns the absolute value, the currency code of a prefixed
// cell, and whether the cell was empty.
func parseNumber(cell string) (value decimal.Decimal, currency string, empty bool, err error) {
	s := strings.TrimSpace(cell)
	if m := currencyPrefix.FindStringSubmatch(s); m != nil {
		currency = m[1]
		s = s[len(m[0]):]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, currency, true, nil
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, currency, false, fmt.Errorf("%w: %q", apperrors.ErrInvalidNumber, cell)
	}
	return d.Abs(), currency, false, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"2006.1.2",
}

// parseDate accepts the date formats written by common ledger exports.
func parseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, apperrors.ErrMissingRequiredField
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, cell)
}

var actionAliases = map[string]model.Action{
	"buy":                 model.ActionBuy,
	"매수":                  model.ActionBuy,
	"sell":                model.ActionSell,
	"매도":                  model.ActionSell,
	"dividend":            model.ActionDividend,
	"dividends":           model.ActionDividend,
	"배당":                  model.ActionDividend,
	"배당금":                 model.ActionDividend,
	"interest":            model.ActionInterest,
	"이자":                  model.ActionInterest,
	"deposit":             model.ActionDeposit,
	"입금":                  model.ActionDeposit,
	"removal":             model.ActionWithdrawal,
	"withdrawal":          model.ActionWithdrawal,
	"출금":                  model.ActionWithdrawal,
	"transfer (outbound)": model.ActionTransferOut,
	"transfer out":        model.ActionTransferOut,
	"transfer (inbound)":  model.ActionTransferIn,
	"transfer in":         model.ActionTransferIn,
	"fees":                model.ActionFee,
	"fee":                 model.ActionFee,
	"interest charge":     model.ActionFee,
	"수수료":                 model.ActionFee,
	"fees refund":         model.ActionFeeRefund,
	"taxes":               model.ActionTax,
	"tax":                 model.ActionTax,
	"세금":                  model.ActionTax,
	"tax refund":          model.ActionTaxRefund,
}

// parseAction maps a Type cell to an action. Unrecognized types map to
// ActionOther and are kept.
func parseAction(cell string) model.Action {
	if a, ok := actionAliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
		return a
	}
	return model.ActionOther
}

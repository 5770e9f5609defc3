package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// formatMoney renders amount in the display format of currency, e.g. ₩1,234,500
// or $1,234.50. Unknown currency codes fall back to a plain number with the code.
func formatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%s %.2f", currency, amount)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// KRW formats amount as Korean won, e.g. ₩1,234,500.
func KRW(amount float64) string {
	return formatMoney(amount, model.DefaultCurrency)
}

// SignedKRW prefixes gains with a plus sign.
func SignedKRW(amount float64) string {
	if amount > 0 {
		return "+" + KRW(amount)
	}
	return KRW(amount)
}

// Percent formats a percentage with two decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedPercent prefixes positive percentages with a plus sign.
func SignedPercent(p float64) string {
	if p > 0 {
		return fmt.Sprintf("+%.2f%%", p)
	}
	return Percent(p)
}

package service

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// Conversion notes on currency-exchange transfers, e.g.
// "달러 1,000.00 환율 1,350.5 환전 수수료 1,200".
var (
	noteForeignAmount = regexp.MustCompile(`달러\s+([\d,]+\.?\d*)`)
	noteRate          = regexp.MustCompile(`환율\s+([\d,]+\.?\d*)`)
	noteFee           = regexp.MustCompile(`환전 수수료\s+([\d,]+\.?\d*)`)
)

type cashLedger map[model.CashKey]*model.CashBalance

func (l cashLedger) get(account, currency string) *model.CashBalance {
	key := model.CashKey{Account: account, Currency: currency}
	b, ok := l[key]
	if !ok {
		b = &model.CashBalance{Account: account, Currency: currency}
		l[key] = b
	}
	return b
}

// replayCash computes the cash balance of every (account, currency) pair.
//
// Each row moves its Amount in the direction of its action and additionally
// pays its Fees and Taxes columns. Fee, tax and refund rows are counted once,
// from Amount or from the Fees and Taxes columns when Amount is empty. Outbound transfers debit the cash account and credit the
// offset account; inbound transfer rows are the mirror of an outbound row and
// have no effect of their own.
func replayCash(txs []model.Transaction) []model.CashBalance {
	ledger := cashLedger{}

	for _, tx := range txs {
		if tx.Account == "" {
			continue
		}
		b := ledger.get(tx.Account, tx.Currency)
		gross := tx.Gross()

		switch tx.Action {
		case model.ActionDeposit:
			b.Deposits = b.Deposits.Add(gross)
		case model.ActionWithdrawal:
			b.Withdrawals = b.Withdrawals.Add(gross)
		case model.ActionTransferOut:
			b.TransfersOut = b.TransfersOut.Add(gross)
			if tx.OffsetAccount != "" {
				currency, amount := transferCredit(tx)
				in := ledger.get(tx.OffsetAccount, currency)
				in.TransfersIn = in.TransfersIn.Add(amount)
				in.Balance = in.Balance.Add(amount)
			}
		}

		b.Balance = b.Balance.Add(tx.CashFlow())
		charges := tx.Fees.Add(tx.Taxes)
		switch tx.Action {
		case model.ActionFee, model.ActionTax:
			if gross.IsZero() {
				b.Balance = b.Balance.Sub(charges)
			}
		case model.ActionFeeRefund, model.ActionTaxRefund:
			if gross.IsZero() {
				b.Balance = b.Balance.Add(charges)
			}
		case model.ActionTransferIn:
		default:
			b.Balance = b.Balance.Sub(charges)
		}
	}

	out := make([]model.CashBalance, 0, len(ledger))
	for _, b := range ledger {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b model.CashBalance) int {
		return cmp.Or(cmp.Compare(a.Account, b.Account), cmp.Compare(a.Currency, b.Currency))
	})
	return out
}

// transferCredit returns what the offset account receives for an outbound
// transfer. A foreign-currency transfer whose note records the exchange
// ("달러 X 환율 Y 환전 수수료 Z") is credited as X*Y-Z in KRW; any other
// transfer is credited unchanged in its own currency.
func transferCredit(tx model.Transaction) (string, decimal.Decimal) {
	if tx.Currency == model.DefaultCurrency || !strings.Contains(tx.Note, "환율") {
		return tx.Currency, tx.Gross()
	}
	foreign, ok1 := noteNumber(noteForeignAmount, tx.Note)
	rate, ok2 := noteNumber(noteRate, tx.Note)
	if !ok1 || !ok2 {
		return tx.Currency, tx.Gross()
	}
	fee, _ := noteNumber(noteFee, tx.Note)
	return model.DefaultCurrency, foreign.Mul(rate).Sub(fee)
}

func noteNumber(re *regexp.Regexp, note string) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(note)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

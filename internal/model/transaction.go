package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the normalized transaction type of a ledger row.
type Action string

// Ledger actions. Buy and Sell touch positions; every other action only moves cash.
const (
	ActionBuy         Action = "buy"
	ActionSell        Action = "sell"
	ActionDividend    Action = "dividend"
	ActionInterest    Action = "interest"
	ActionDeposit     Action = "deposit"
	ActionWithdrawal  Action = "withdrawal"
	ActionTransferOut Action = "transfer_out"
	ActionTransferIn  Action = "transfer_in"
	ActionFee         Action = "fee"
	ActionFeeRefund   Action = "fee_refund"
	ActionTax         Action = "tax"
	ActionTaxRefund   Action = "tax_refund"
	ActionOther       Action = "other"
)

// IsTrade reports whether the action changes a share count.
func (a Action) IsTrade() bool {
	return a == ActionBuy || a == ActionSell
}

// DefaultCurrency is the reporting currency of every valuation.
const DefaultCurrency = "KRW"

// Transaction is one parsed ledger row. It is created once by the loader and
// never mutated afterwards. Monetary fields hold absolute values; the
// direction of a cash movement is derived from Action.
type Transaction struct {
	Row           int             `json:"row"`
	Date          time.Time       `json:"date"`
	RawType       string          `json:"rawType"`
	Action        Action          `json:"action"`
	AccountName   string          `json:"accountName"`   // Cash Account column as written
	Account       string          `json:"account"`       // normalized cash account
	OffsetAccount string          `json:"offsetAccount"` // normalized counterpart, may be empty
	Security      string          `json:"security,omitempty"`
	Shares        decimal.Decimal `json:"shares"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`
	Fees          decimal.Decimal `json:"fees"`
	Taxes         decimal.Decimal `json:"taxes"`
	NetValue      decimal.Decimal `json:"netValue"`
	Currency      string          `json:"currency"`
	Note          string          `json:"note,omitempty"`
	Source        string          `json:"source,omitempty"`
}

// Year returns the calendar year the transaction is attributed to.
func (t Transaction) Year() int {
	return t.Date.Year()
}

// Gross returns the trade value of the row: the Amount column when present,
// otherwise unit price times shares.
func (t Transaction) Gross() decimal.Decimal {
	if !t.Amount.IsZero() {
		return t.Amount
	}
	return t.UnitPrice.Mul(t.Shares)
}

// CashFlow returns the signed effect of the row's Amount on its own cash
// account. Fees and Taxes columns are not included.
func (t Transaction) CashFlow() decimal.Decimal {
	switch t.Action {
	case ActionBuy, ActionWithdrawal, ActionTransferOut, ActionFee, ActionTax:
		return t.Gross().Neg()
	case ActionSell, ActionDividend, ActionInterest, ActionDeposit, ActionFeeRefund, ActionTaxRefund:
		return t.Gross()
	default:
		return decimal.Zero
	}
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Filter
	Security string
	Year     int
	Action   Action
}

// TransactionRow is the flat listing/export form of a transaction.
type TransactionRow struct {
	Date          string  `json:"date" csv:"date"`
	Type          string  `json:"type" csv:"type"`
	Account       string  `json:"account" csv:"account"`
	Owner         string  `json:"owner" csv:"owner"`
	AccountType   string  `json:"accountType" csv:"account_type"`
	Security      string  `json:"security" csv:"security"`
	Shares        float64 `json:"shares" csv:"shares"`
	UnitPrice     float64 `json:"unitPrice" csv:"unit_price"`
	Amount        float64 `json:"amount" csv:"amount"`
	Fees          float64 `json:"fees" csv:"fees"`
	Taxes         float64 `json:"taxes" csv:"taxes"`
	NetValue      float64 `json:"netValue" csv:"net_value"`
	Currency      string  `json:"currency" csv:"currency"`
	OffsetAccount string  `json:"offsetAccount" csv:"offset_account"`
	Note          string  `json:"note" csv:"note"`
}

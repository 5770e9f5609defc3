package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionKey identifies a position: one security held in one account.
type PositionKey struct {
	Account  string
	Security string
}

// Position is the replayed state of one (account, security) pair in its
// trading currency. TotalCostBasis always equals SharesHeld * AverageCost
// while shares are held and is zero otherwise.
type Position struct {
	Account          string          `json:"account"`
	Security         string          `json:"security"`
	Currency         string          `json:"currency"`
	SharesHeld       decimal.Decimal `json:"sharesHeld"`
	AverageCost      decimal.Decimal `json:"averageCost"`
	TotalCostBasis   decimal.Decimal `json:"totalCostBasis"`
	RealizedGainLoss decimal.Decimal `json:"realizedGainLoss"`
	DividendReceived decimal.Decimal `json:"dividendReceived"`
	InterestReceived decimal.Decimal `json:"interestReceived"`
	TotalBought      decimal.Decimal `json:"totalBought"`
	TotalSold        decimal.Decimal `json:"totalSold"`
	LastTradePrice   decimal.Decimal `json:"lastTradePrice"`
	FirstActivity    time.Time       `json:"firstActivity"`
	LastActivity     time.Time       `json:"lastActivity"`
	Oversold         bool            `json:"oversold"`
}

// Key returns the position's map key.
func (p Position) Key() PositionKey {
	return PositionKey{Account: p.Account, Security: p.Security}
}

// IsOpen reports whether shares are currently held.
func (p Position) IsOpen() bool {
	return p.SharesHeld.IsPositive()
}

// IncomeKind classifies a realized income event.
type IncomeKind string

// Income event kinds feeding the yearly returns view.
const (
	IncomeSellProfit IncomeKind = "sell_profit"
	IncomeDividend   IncomeKind = "dividend"
	IncomeInterest   IncomeKind = "interest"
)

// CashSecurity labels income events that are not tied to a security, such as
// interest on a cash balance.
const CashSecurity = "(cash)"

// IncomeEvent is one realized gain, dividend or interest payment, tagged with
// the year of the transaction that produced it.
type IncomeEvent struct {
	Row      int             `json:"row"`
	Date     time.Time       `json:"date"`
	Year     int             `json:"year"`
	Account  string          `json:"account"`
	Security string          `json:"security"`
	Kind     IncomeKind      `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CashKey identifies a cash balance: one currency in one account.
type CashKey struct {
	Account  string
	Currency string
}

// CashBalance is the running cash position of an account in one currency.
type CashBalance struct {
	Account      string          `json:"account"`
	Currency     string          `json:"currency"`
	Deposits     decimal.Decimal `json:"deposits"`
	Withdrawals  decimal.Decimal `json:"withdrawals"`
	TransfersIn  decimal.Decimal `json:"transfersIn"`
	TransfersOut decimal.Decimal `json:"transfersOut"`
	Balance      decimal.Decimal `json:"balance"`
}

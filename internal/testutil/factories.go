package testutil

import (
	"strconv"
	"strings"

	"github.com/ndewijer/portfolio-ledger/internal/ledger"
)

// LedgerHeader is the header row produced by LedgerBuilder.
var LedgerHeader = []string{
	ledger.ColDate, ledger.ColType, ledger.ColSecurity, ledger.ColShares, ledger.ColQuote,
	ledger.ColAmount, ledger.ColFees, ledger.ColTaxes, ledger.ColNetValue,
	ledger.ColCashAccount, ledger.ColOffsetAccount, ledger.ColNote, ledger.ColSource,
	ledger.ColCurrency,
}

// RowBuilder provides a fluent interface for creating one ledger row.
//
// Example usage:
//
//	row := testutil.NewRow("2024-01-10", "Buy").
//	    WithAccount("민호 토스 종합매매").
//	    WithSecurity("삼성전자").
//	    WithShares(10).
//	    WithQuote(1000)
type RowBuilder struct {
	Date          string
	Type          string
	Security      string
	Shares        string
	Quote         string
	Amount        string
	Fees          string
	Taxes         string
	NetValue      string
	CashAccount   string
	OffsetAccount string
	Note          string
	Source        string
	Currency      string
}

// NewRow creates a RowBuilder for a row of the given date and type.
func NewRow(date, typ string) *RowBuilder {
	return &RowBuilder{Date: date, Type: typ}
}

// WithAccount sets the cash account.
func (b *RowBuilder) WithAccount(account string) *RowBuilder {
	b.CashAccount = account
	return b
}

// WithOffsetAccount sets the offset account.
func (b *RowBuilder) WithOffsetAccount(account string) *RowBuilder {
	b.OffsetAccount = account
	return b
}

// WithSecurity sets the security name.
func (b *RowBuilder) WithSecurity(security string) *RowBuilder {
	b.Security = security
	return b
}

// WithShares sets the share count.
func (b *RowBuilder) WithShares(shares float64) *RowBuilder {
	b.Shares = formatNumber(shares)
	return b
}

// WithQuote sets the unit price.
func (b *RowBuilder) WithQuote(price float64) *RowBuilder {
	b.Quote = formatNumber(price)
	return b
}

// WithAmount sets the amount.
func (b *RowBuilder) WithAmount(amount float64) *RowBuilder {
	b.Amount = formatNumber(amount)
	return b
}

// WithFees sets the fees column.
func (b *RowBuilder) WithFees(fees float64) *RowBuilder {
	b.Fees = formatNumber(fees)
	return b
}

// WithTaxes sets the taxes column.
func (b *RowBuilder) WithTaxes(taxes float64) *RowBuilder {
	b.Taxes = formatNumber(taxes)
	return b
}

// WithNote sets the note.
func (b *RowBuilder) WithNote(note string) *RowBuilder {
	b.Note = note
	return b
}

// WithCurrency sets the transaction currency.
func (b *RowBuilder) WithCurrency(currency string) *RowBuilder {
	b.Currency = currency
	return b
}

// WithRaw sets a cell to a literal value, for malformed-input tests.
func (b *RowBuilder) WithRaw(column, value string) *RowBuilder {
	switch column {
	case ledger.ColDate:
		b.Date = value
	case ledger.ColShares:
		b.Shares = value
	case ledger.ColQuote:
		b.Quote = value
	case ledger.ColAmount:
		b.Amount = value
	case ledger.ColFees:
		b.Fees = value
	case ledger.ColTaxes:
		b.Taxes = value
	}
	return b
}

// Cells returns the row in LedgerHeader order.
func (b *RowBuilder) Cells() []string {
	return []string{
		b.Date, b.Type, b.Security, b.Shares, b.Quote, b.Amount, b.Fees, b.Taxes,
		b.NetValue, b.CashAccount, b.OffsetAccount, b.Note, b.Source, b.Currency,
	}
}

// LedgerBuilder provides a fluent interface for creating test ledgers.
//
// Example usage:
//
//	rows := testutil.NewLedger().
//	    Deposit("2024-01-02", account, 100000).
//	    Buy("2024-01-10", account, "삼성전자", 10, 1000).
//	    Sell("2024-03-01", account, "삼성전자", 5, 1300).
//	    Rows()
type LedgerBuilder struct {
	rows []*RowBuilder
}

// NewLedger creates an empty LedgerBuilder.
func NewLedger() *LedgerBuilder {
	return &LedgerBuilder{}
}

// Add appends a custom row.
func (b *LedgerBuilder) Add(row *RowBuilder) *LedgerBuilder {
	b.rows = append(b.rows, row)
	return b
}

// Buy appends a buy of shares at price.
func (b *LedgerBuilder) Buy(date, account, security string, shares, price float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Buy").WithAccount(account).WithSecurity(security).
		WithShares(shares).WithQuote(price).WithAmount(shares * price))
}

// Sell appends a sell of shares at price.
func (b *LedgerBuilder) Sell(date, account, security string, shares, price float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Sell").WithAccount(account).WithSecurity(security).
		WithShares(shares).WithQuote(price).WithAmount(shares * price))
}

// Dividend appends a dividend. An empty security books it against the account.
func (b *LedgerBuilder) Dividend(date, account, security string, amount float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Dividend").WithAccount(account).WithSecurity(security).WithAmount(amount))
}

// Interest appends an interest payment.
func (b *LedgerBuilder) Interest(date, account string, amount float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Interest").WithAccount(account).WithAmount(amount))
}

// Deposit appends a cash deposit.
func (b *LedgerBuilder) Deposit(date, account string, amount float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Deposit").WithAccount(account).WithAmount(amount))
}

// Withdrawal appends a cash withdrawal.
func (b *LedgerBuilder) Withdrawal(date, account string, amount float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Removal").WithAccount(account).WithAmount(amount))
}

// TransferOut appends an outbound transfer from one account to another.
func (b *LedgerBuilder) TransferOut(date, from, to string, amount float64) *LedgerBuilder {
	return b.Add(NewRow(date, "Transfer (Outbound)").WithAccount(from).WithOffsetAccount(to).WithAmount(amount))
}

// Rows returns the ledger including its header row.
func (b *LedgerBuilder) Rows() ledger.Rows {
	rows := ledger.Rows{LedgerHeader}
	for _, r := range b.rows {
		rows = append(rows, r.Cells())
	}
	return rows
}

// CSV returns the ledger as CSV text.
func (b *LedgerBuilder) CSV() string {
	var sb strings.Builder
	for _, row := range b.Rows() {
		for i, cell := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			if strings.ContainsAny(cell, ",\"\n") {
				cell = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

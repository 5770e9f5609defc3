package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

func cashBalance(t *testing.T, res service.ReplayResult, account, currency string) model.CashBalance {
	t.Helper()
	for _, c := range res.Cash {
		if c.Account == account && c.Currency == currency {
			return c
		}
	}
	t.Fatalf("no cash balance for %s / %s", account, currency)
	return model.CashBalance{}
}

// TestReplayPositions_Cash tests the cash balance of every account.
//
// WHY: Cash is a large share of total assets and drives the cash ratio.
// Trades, income, fees and transfers must each move it exactly once; an
// inbound transfer row mirrors an outbound row and must not double count.
func TestReplayPositions_Cash(t *testing.T) {
	// Setup
	rows := testutil.NewLedger().
		Deposit("2024-01-02", accountA, 100000).
		Add(testutil.NewRow("2024-01-10", "Buy").WithAccount(accountA).WithSecurity("삼성전자").
			WithShares(10).WithQuote(1000).WithAmount(10000).WithFees(100)).
		Add(testutil.NewRow("2024-03-01", "Sell").WithAccount(accountA).WithSecurity("삼성전자").
			WithShares(5).WithQuote(1300).WithAmount(6500).WithTaxes(50)).
		Dividend("2024-04-01", accountA, "삼성전자", 5000).
		TransferOut("2024-05-01", accountA, accountB, 30000).
		Add(testutil.NewRow("2024-05-01", "Transfer (Inbound)").WithAccount(accountB).
			WithOffsetAccount(accountA).WithAmount(30000)).
		Add(testutil.NewRow("2024-06-01", "Fees").WithAccount(accountA).WithFees(500)).
		Add(testutil.NewRow("2024-06-02", "Fees Refund").WithAccount(accountA).WithFees(200)).
		Rows()

	// Execute
	res := replay(t, rows)

	// Assert
	require.Len(t, res.Cash, 2)
	a := cashBalance(t, res, accountA, "KRW")
	// 100000 - 10100 + 6450 + 5000 - 30000 - 500 + 200
	assertDecimal(t, 71050, a.Balance)
	assertDecimal(t, 100000, a.Deposits)
	assertDecimal(t, 30000, a.TransfersOut)

	b := cashBalance(t, res, accountB, "KRW")
	assertDecimal(t, 30000, b.Balance)
	assertDecimal(t, 30000, b.TransfersIn)
}

// TestReplayPositions_CurrencyExchangeTransfer tests transfers that record a currency exchange in the note.
//
// WHY: Dollar cash moved to a won account arrives converted at the broker's
// rate minus the exchange fee; crediting the dollar amount as won would
// understate the receiving account by three orders of magnitude.
func TestReplayPositions_CurrencyExchangeTransfer(t *testing.T) {
	rows := testutil.NewLedger().
		Add(testutil.NewRow("2024-01-02", "Deposit").WithAccount(accountA).WithAmount(1000).WithCurrency("USD")).
		Add(testutil.NewRow("2024-01-03", "Transfer (Outbound)").WithAccount(accountA).WithOffsetAccount(accountB).
			WithAmount(1000).WithCurrency("USD").
			WithNote("달러 1,000.00 환율 1,350.5 환전 수수료 1,200")).
		TransferOut("2024-01-04", accountA, accountB, 0.5).
		Rows()

	res := replay(t, rows)

	usd := cashBalance(t, res, accountA, "USD")
	assertDecimal(t, 0, usd.Balance)

	krw := cashBalance(t, res, accountB, "KRW")
	// 1000 * 1350.5 - 1200 + 0.5 plain KRW transfer
	assertDecimal(t, 1349300.5, krw.Balance)
}

// TestReplayPositions_CurrencyPrefix tests that an amount prefixed with a currency code books foreign cash.
func TestReplayPositions_CurrencyPrefix(t *testing.T) {
	rows := testutil.NewLedger().
		Add(testutil.NewRow("2024-01-02", "Deposit").WithAccount(accountA).WithRaw("Amount", "USD 2,500.25")).
		Rows()

	res := replay(t, rows)

	require.Len(t, res.Cash, 1)
	assertDecimal(t, 2500.25, cashBalance(t, res, accountA, "USD").Balance)
}

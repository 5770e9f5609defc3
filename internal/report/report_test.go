package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/report"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

const account = "민호 토스 종합매매"

func reportSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	rows := testutil.NewLedger().
		Deposit("2023-01-02", account, 100000).
		Buy("2023-01-10", account, "삼성전자", 10, 1000).
		Buy("2023-01-10", account, "카카오", 10, 2000).
		Sell("2024-03-01", account, "삼성전자", 5, 1300).
		Rows()
	prices := testutil.NewMockPriceLookup().WithPrice("삼성전자", 1500)
	return testutil.LoadSnapshot(t, rows, prices, nil)
}

// TestReport_Markdown tests the markdown report content.
//
// WHY: The report is what owners actually read. Amounts must use the won
// format and diagnostics must be visible instead of silently dropped.
func TestReport_Markdown(t *testing.T) {
	// Setup
	snap := reportSnapshot(t)

	// Execute
	md, err := report.New(snap, model.Filter{}).Markdown()

	// Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Portfolio Report"))
	assert.Contains(t, md, "all accounts")
	assert.Contains(t, md, "| Total assets | **₩84,000** |")
	assert.Contains(t, md, "| Cash | ₩76,500 (91.07%) |")
	assert.Contains(t, md, "| Realized gain/loss | +₩1,500 |")
	assert.Contains(t, md, "| 삼성전자 | "+account+" | ₩7,500 | +₩2,500 | +50.00% |")
	assert.Contains(t, md, "## Yearly returns")
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "price_unavailable")
}

// TestReport_FilterLabel tests the filter description in the report header.
func TestReport_FilterLabel(t *testing.T) {
	snap := reportSnapshot(t)

	r := report.New(snap, model.Filter{Owner: "민호", AccountType: "종합매매"})

	assert.Equal(t, "owner 민호, account type 종합매매", r.FilterLabel())
}

// TestReport_EmptySnapshot tests that a report without data still renders.
func TestReport_EmptySnapshot(t *testing.T) {
	md, err := report.New(nil, model.Filter{}).Markdown()

	require.NoError(t, err)
	assert.Contains(t, md, "| Total assets | **₩0** |")
	assert.NotContains(t, md, "## Top performers")
	assert.NotContains(t, md, "## Warnings")
}

// TestHTML tests conversion of report markdown to HTML.
func TestHTML(t *testing.T) {
	md, err := report.New(reportSnapshot(t), model.Filter{}).Markdown()
	require.NoError(t, err)

	html, err := report.HTML(md)

	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Portfolio Report</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "삼성전자")
}

// TestTerminal tests rendering for a terminal without colors.
func TestTerminal(t *testing.T) {
	out, err := report.Terminal("# Portfolio Report\n\nTotal: **₩1,000**\n", "notty", 80)

	require.NoError(t, err)
	assert.Contains(t, out, "Portfolio Report")
	assert.Contains(t, out, "₩1,000")
}

package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

// TestPortfolioService_Load tests the full load pipeline.
//
// WHY: Loading must never fail because of a single bad row or an account
// named outside the conventions. Every such problem has to show up as a
// diagnostic while the rest of the ledger is still replayed and valued.
func TestPortfolioService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("collects diagnostics from every stage", func(t *testing.T) {
		// Setup
		rows := testutil.NewLedger().
			Deposit("2024-01-02", accountA, 100000).
			Deposit("2024-01-02", "비상금", 5000).
			Buy("2024-01-10", accountA, "삼성전자", 10, 1000).
			Add(testutil.NewRow("not a date", "Buy").WithAccount(accountA).WithSecurity("카카오")).
			Rows()
		svc := testutil.NewTestPortfolioService(t, testutil.NewMockPriceLookup(), nil)

		// Execute
		snap, err := svc.Load(ctx, rows)

		// Assert
		require.NoError(t, err)
		assert.Len(t, snap.Transactions, 3)
		assert.Equal(t, 1, snap.SkippedRows)
		assert.Len(t, snap.Accounts, 2)

		kinds := map[model.DiagnosticKind]int{}
		for _, d := range snap.Diagnostics() {
			kinds[d.Kind]++
		}
		assert.Equal(t, 1, kinds[model.DiagnosticMalformedRow])
		assert.Equal(t, 1, kinds[model.DiagnosticUnknownAccount])
		assert.Equal(t, 1, kinds[model.DiagnosticPriceUnavailable])

		unknown, ok := snap.Account("비상금")
		require.True(t, ok)
		assert.Equal(t, "비상금", unknown.Owner.Name)
		assert.False(t, unknown.Owner.Known)
		assert.Equal(t, model.Unknown(), unknown.Broker)
	})

	t.Run("empty ledger yields an empty snapshot", func(t *testing.T) {
		svc := testutil.NewTestPortfolioService(t, nil, nil)

		snap, err := svc.Load(ctx, ledger.Rows{})

		require.NoError(t, err)
		assert.Empty(t, snap.Transactions)
		assert.Empty(t, snap.Holdings)
		assert.Empty(t, snap.Diagnostics())
	})

	t.Run("unrecognized header is a load error", func(t *testing.T) {
		svc := testutil.NewTestPortfolioService(t, nil, nil)

		_, err := svc.Load(ctx, ledger.Rows{{"foo", "bar"}, {"1", "2"}})

		var loadErr *apperrors.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.ErrorIs(t, err, apperrors.ErrUnrecognizedSchema)
		assert.Equal(t, 1, loadErr.SkippedRows)
	})

	t.Run("CSV source", func(t *testing.T) {
		csv := testutil.NewLedger().
			Deposit("2024-01-02", accountA, 100000).
			Buy("2024-01-10", accountA, "삼성전자", 10, 1000).
			CSV()
		prices := testutil.NewMockPriceLookup().WithPrice("삼성전자", 1100)
		svc := testutil.NewTestPortfolioService(t, prices, nil)

		snap, err := svc.Load(ctx, ledger.NewCSVSource("ledger.csv", strings.NewReader(csv)))

		require.NoError(t, err)
		assert.Equal(t, "ledger.csv", snap.Source)
		require.Len(t, snap.Holdings, 1)
		assert.Equal(t, 11000.0, snap.Holdings[0].CurrentValue)
	})
}

// TestPortfolioService_Reload tests replacing the current snapshot.
//
// WHY: A broken ledger upload must not take the dashboard down. The previous
// snapshot has to stay current until a reload succeeds.
func TestPortfolioService_Reload(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewTestPortfolioService(t, nil, nil)

	_, err := svc.Current()
	require.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)

	first, err := svc.Reload(ctx, testutil.NewLedger().Deposit("2024-01-02", accountA, 1000).Rows())
	require.NoError(t, err)

	_, err = svc.Reload(ctx, ledger.Rows{{"foo"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFailedToReloadLedger)
	assert.ErrorIs(t, err, apperrors.ErrUnrecognizedSchema)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

// TestPortfolioService_RevalueCurrent tests repricing without replaying the ledger.
func TestPortfolioService_RevalueCurrent(t *testing.T) {
	ctx := context.Background()
	prices := testutil.NewMockPriceLookup().WithPrice("삼성전자", 1100)
	svc := testutil.NewTestPortfolioService(t, prices, nil)

	t.Run("without a snapshot", func(t *testing.T) {
		_, err := svc.RevalueCurrent(ctx)
		assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)
	})

	first, err := svc.Reload(ctx, testutil.NewLedger().Buy("2024-01-10", accountA, "삼성전자", 10, 1000).Rows())
	require.NoError(t, err)
	prices.WithPrice("삼성전자", 1300)

	next, err := svc.RevalueCurrent(ctx)

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, first.Positions, next.Positions)
	assert.Equal(t, 11000.0, first.Holdings[0].CurrentValue, "previous snapshot unchanged")
	assert.Equal(t, 13000.0, next.Holdings[0].CurrentValue)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, next, current)
}

// TestPortfolioService_Dashboard tests the combined view.
func TestPortfolioService_Dashboard(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewTestPortfolioService(t, nil, nil)

	t.Run("nil snapshot", func(t *testing.T) {
		_, err := svc.Dashboard(ctx, nil, model.Filter{})
		assert.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)
	})

	t.Run("cancelled context", func(t *testing.T) {
		snap := testutil.LoadSnapshot(t, testutil.NewLedger().Rows(), nil, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Dashboard(cctx, snap, model.Filter{})
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("diagnostics are included", func(t *testing.T) {
		snap := testutil.LoadSnapshot(t,
			testutil.NewLedger().Buy("2024-01-10", accountA, "삼성전자", 10, 1000).Rows(), nil, nil)

		d, err := svc.Dashboard(ctx, snap, model.Filter{})

		require.NoError(t, err)
		require.Len(t, d.Diagnostics, 1)
		assert.Equal(t, model.DiagnosticPriceUnavailable, d.Diagnostics[0].Kind)
		assert.Equal(t, 1, d.Summary.TotalHoldings)
	})
}

package testutil

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// NewTestResolver creates an account resolver with the embedded default conventions.
func NewTestResolver(t *testing.T) *accounts.Resolver {
	t.Helper()
	return accounts.NewResolver(config.DefaultConventions())
}

// NewTestPortfolioService creates a PortfolioService valued through the given
// lookups, with an empty snapshot store. Nil lookups report every price or
// rate as unavailable.
func NewTestPortfolioService(t *testing.T, prices service.PriceLookup, fx service.FxLookup) *service.PortfolioService {
	t.Helper()
	valuation := service.NewValuationService(prices, fx, 4, zerolog.Nop())
	return service.NewPortfolioService(NewTestResolver(t), valuation, service.NewSnapshotStore(), zerolog.Nop())
}

// LoadSnapshot loads rows through a test PortfolioService and fails the test on error.
func LoadSnapshot(t *testing.T, rows ledger.Rows, prices service.PriceLookup, fx service.FxLookup) *model.Snapshot {
	t.Helper()
	snap, err := NewTestPortfolioService(t, prices, fx).Load(context.Background(), rows)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	return snap
}

// ReloadedPortfolioService returns a PortfolioService whose current snapshot
// was loaded from rows.
func ReloadedPortfolioService(t *testing.T, rows ledger.Rows, prices service.PriceLookup) *service.PortfolioService {
	t.Helper()
	svc := NewTestPortfolioService(t, prices, nil)
	if _, err := svc.Reload(context.Background(), rows); err != nil {
		t.Fatalf("Failed to reload ledger: %v", err)
	}
	return svc
}

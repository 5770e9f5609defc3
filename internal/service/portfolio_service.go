package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/trace"
)

// PortfolioService runs the load pipeline (ledger loader, account resolver,
// position ledger, valuation) and serves the aggregate views of the
// resulting snapshot.
type PortfolioService struct {
	resolver  *accounts.Resolver
	valuation *ValuationService
	store     *SnapshotStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewPortfolioService creates a new PortfolioService. The store receives
// snapshots produced by Reload and RevalueCurrent.
func NewPortfolioService(
	resolver *accounts.Resolver,
	valuation *ValuationService,
	store *SnapshotStore,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		resolver:  resolver,
		valuation: valuation,
		store:     store,
		log:       log.With().Str("component", "portfolio").Logger(),
		now:       time.Now,
	}
}

// Load reads a ledger, replays it and values the result. The returned
// snapshot is not stored.
//
// Per-row and per-security problems are collected as snapshot diagnostics.
// The only errors are a *apperrors.LoadError for an unreadable or
// unrecognizable ledger, and ctx cancellation during replay.
func (s *PortfolioService) Load(ctx context.Context, src ledger.RowSource) (*model.Snapshot, error) {
	ctx, span := trace.StartSpan(ctx, "portfolio.Load")
	defer span.End()
	start := s.now()

	res, err := ledger.Load(ctx, src)
	if err != nil {
		s.log.Error().Err(err).Str("source", fmt.Sprint(src)).Msg("Failed to load ledger")
		return nil, err
	}

	accts, accountDiags := s.resolveAccounts(res.Transactions)

	replay, err := ReplayPositions(ctx, res.Transactions)
	if err != nil {
		return nil, fmt.Errorf("replay ledger: %w", err)
	}

	snap := &model.Snapshot{
		ID:           uuid.New(),
		Source:       fmt.Sprint(src),
		LoadedAt:     s.now(),
		Transactions: res.Transactions,
		Accounts:     accts,
		Positions:    replay.Positions,
		Cash:         replay.Cash,
		Events:       replay.Events,
		SkippedRows:  res.SkippedRows,
		Rates:        map[string]float64{model.DefaultCurrency: 1},
	}
	snap.LoadDiagnostics = append(snap.LoadDiagnostics, res.Diagnostics...)
	snap.LoadDiagnostics = append(snap.LoadDiagnostics, accountDiags...)
	snap.LoadDiagnostics = append(snap.LoadDiagnostics, replay.Diagnostics...)
	snap.IndexAccounts()

	for _, d := range snap.LoadDiagnostics {
		s.log.Warn().
			Str("kind", string(d.Kind)).
			Int("row", d.Row).
			Str("account", d.Account).
			Str("security", d.Security).
			Msg(d.Message)
	}

	snap = s.Revalue(ctx, snap)

	span.SetAttributes(
		attribute.Int("transactions", len(snap.Transactions)),
		attribute.Int("positions", len(snap.Positions)),
		attribute.Int("skipped_rows", snap.SkippedRows),
	)
	s.log.Info().
		Str("snapshot", snap.ID.String()).
		Int("transactions", len(snap.Transactions)).
		Int("accounts", len(snap.Accounts)).
		Int("positions", len(snap.Positions)).
		Int("holdings", len(snap.Holdings)).
		Int("skipped_rows", snap.SkippedRows).
		Int("diagnostics", len(snap.Diagnostics())).
		Dur("duration", s.now().Sub(start)).
		Msg("Ledger loaded")
	return snap, nil
}

// resolveAccounts resolves every account named in the Cash Account or Offset
// Account column, in canonical display order.
func (s *PortfolioService) resolveAccounts(txs []model.Transaction) ([]model.Account, []model.Diagnostic) {
	seen := map[string]bool{}
	var out []model.Account
	var diags []model.Diagnostic
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		a, err := s.resolver.Resolve(name)
		if err != nil {
			diags = append(diags, model.NewDiagnostic(err))
		}
		out = append(out, a)
	}
	for _, tx := range txs {
		add(tx.Account)
		add(tx.OffsetAccount)
	}
	accounts.Sort(out)
	return out, diags
}

// Revalue prices snap again and returns the new snapshot. snap itself is not modified.
func (s *PortfolioService) Revalue(ctx context.Context, snap *model.Snapshot) *model.Snapshot {
	v := s.valuation.Value(ctx, snap)
	return snap.WithValuation(v.Holdings, v.Cash, v.Rates, v.Diagnostics, v.ValuedAt)
}

// Reload loads src and makes the result the current snapshot. On error the
// current snapshot is kept.
func (s *PortfolioService) Reload(ctx context.Context, src ledger.RowSource) (*model.Snapshot, error) {
	snap, err := s.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReloadLedger, err)
	}
	s.store.Store(snap)
	return snap, nil
}

// RevalueCurrent revalues the current snapshot. If a reload replaced the
// snapshot while prices were being fetched, the newer snapshot is kept and
// returned instead.
func (s *PortfolioService) RevalueCurrent(ctx context.Context) (*model.Snapshot, error) {
	old, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	next := s.Revalue(ctx, old)
	if !s.store.Replace(old, next) {
		s.log.Debug().Msg("Snapshot replaced during revaluation, keeping newer snapshot")
		return s.store.Current()
	}
	return next, nil
}

// Current returns the current snapshot.
func (s *PortfolioService) Current() (*model.Snapshot, error) {
	return s.store.Current()
}

// Dashboard computes the summary, performance, risk and yearly views of snap
// concurrently. Each view reads the immutable snapshot only.
func (s *PortfolioService) Dashboard(ctx context.Context, snap *model.Snapshot, f model.Filter) (model.Dashboard, error) {
	if snap == nil {
		return model.Dashboard{}, apperrors.ErrSnapshotNotLoaded
	}
	_, span := trace.StartSpan(ctx, "portfolio.Dashboard")
	defer span.End()

	d := model.Dashboard{
		SnapshotID:  snap.ID.String(),
		Diagnostics: snap.Diagnostics(),
	}
	var g errgroup.Group
	g.Go(func() error { d.Summary = Summarize(snap, f); return nil })
	g.Go(func() error { d.Performance = Performance(snap, f); return nil })
	g.Go(func() error { d.Risk = Risk(snap, f); return nil })
	g.Go(func() error { d.YearlyReturns = YearlyReturns(snap, f); return nil })
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}

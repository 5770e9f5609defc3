package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// DefaultJobTimeout bounds a single reload or revaluation.
const DefaultJobTimeout = 2 * time.Minute

// Reloader replaces the current snapshot with a freshly loaded ledger.
type Reloader interface {
	Reload(ctx context.Context, src ledger.RowSource) (*model.Snapshot, error)
}

// Revaluer reprices the current snapshot.
type Revaluer interface {
	RevalueCurrent(ctx context.Context) (*model.Snapshot, error)
}

// guard skips a run while the previous one is still in progress.
type guard struct {
	mu sync.Mutex
}

func (g *guard) try(log zerolog.Logger, run func() error) error {
	if !g.mu.TryLock() {
		log.Warn().Msg("Previous run still in progress, skipping")
		return nil
	}
	defer g.mu.Unlock()
	return run()
}

// ReloadJob reloads the ledger file and revalues it.
type ReloadJob struct {
	portfolio Reloader
	source    ledger.RowSource
	timeout   time.Duration
	log       zerolog.Logger
	guard     guard
}

// NewReloadJob creates a job reloading src into portfolio. A non-positive
// timeout uses DefaultJobTimeout.
func NewReloadJob(portfolio Reloader, src ledger.RowSource, timeout time.Duration, log zerolog.Logger) *ReloadJob {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &ReloadJob{
		portfolio: portfolio,
		source:    src,
		timeout:   timeout,
		log:       log.With().Str("job", "reload_ledger").Logger(),
	}
}

// Name returns the job name
func (j *ReloadJob) Name() string {
	return "reload_ledger"
}

// Run loads the ledger. A failed load keeps the current snapshot.
func (j *ReloadJob) Run() error {
	return j.guard.try(j.log, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		start := time.Now()
		snap, err := j.portfolio.Reload(ctx, j.source)
		if err != nil {
			return fmt.Errorf("reload %v: %w", j.source, err)
		}
		j.log.Info().
			Str("snapshot", snap.ID.String()).
			Int("holdings", len(snap.Holdings)).
			Dur("duration", time.Since(start)).
			Msg("Ledger reloaded")
		return nil
	})
}

// RevalueJob refreshes prices and exchange rates of the current snapshot
// without reading the ledger again.
type RevalueJob struct {
	portfolio Revaluer
	timeout   time.Duration
	log       zerolog.Logger
	guard     guard
}

// NewRevalueJob creates a job revaluing the current snapshot of portfolio.
func NewRevalueJob(portfolio Revaluer, timeout time.Duration, log zerolog.Logger) *RevalueJob {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &RevalueJob{
		portfolio: portfolio,
		timeout:   timeout,
		log:       log.With().Str("job", "revalue").Logger(),
	}
}

// Name returns the job name
func (j *RevalueJob) Name() string {
	return "revalue"
}

// Run revalues the current snapshot.
func (j *RevalueJob) Run() error {
	return j.guard.try(j.log, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		snap, err := j.portfolio.RevalueCurrent(ctx)
		if err != nil {
			return fmt.Errorf("revalue: %w", err)
		}
		j.log.Info().
			Str("snapshot", snap.ID.String()).
			Int("diagnostics", len(snap.ValuationDiagnostics)).
			Msg("Snapshot revalued")
		return nil
	})
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ndewijer/portfolio-ledger/internal/database"
	"github.com/ndewijer/portfolio-ledger/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db    *sql.DB
	store *SnapshotStore
}

// NewSystemService creates a new SystemService. db is the quote cache and may
// be nil when caching is disabled.
func NewSystemService(db *sql.DB, store *SnapshotStore) *SystemService {
	return &SystemService{
		db:    db,
		store: store,
	}
}

// Health describes the cache database and the current snapshot.
type Health struct {
	Database    string    `json:"database"`
	Snapshot    string    `json:"snapshot,omitempty"`
	LoadedAt    time.Time `json:"loadedAt,omitzero"`
	ValuedAt    time.Time `json:"valuedAt,omitzero"`
	Diagnostics int       `json:"diagnostics"`
}

// CheckHealth reports the state of the system. The error is non-nil when the
// database is unreachable or no ledger has been loaded yet; Health is filled
// in as far as possible either way.
func (s *SystemService) CheckHealth(ctx context.Context) (Health, error) {
	var h Health
	var errs []error

	switch {
	case s.db == nil:
		h.Database = "disabled"
	default:
		if err := database.HealthCheck(ctx, s.db); err != nil {
			h.Database = "disconnected"
			errs = append(errs, err)
		} else {
			h.Database = "connected"
		}
	}

	snap, err := s.store.Current()
	if err != nil {
		errs = append(errs, err)
	} else {
		h.Snapshot = snap.ID.String()
		h.LoadedAt = snap.LoadedAt
		h.ValuedAt = snap.ValuedAt
		h.Diagnostics = len(snap.Diagnostics())
	}
	return h, errors.Join(errs...)
}

// CheckVersion returns the application version.
func (s *SystemService) CheckVersion() string {
	return version.Version
}


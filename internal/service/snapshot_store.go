package service

import (
	"sync/atomic"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// SnapshotStore holds the current snapshot. Readers always see a complete
// snapshot: replacing it swaps a pointer and never modifies the old value, so
// views that are still computing on the previous snapshot are unaffected.
type SnapshotStore struct {
	current atomic.Pointer[model.Snapshot]
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the current snapshot or apperrors.ErrSnapshotNotLoaded.
func (s *SnapshotStore) Current() (*model.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperrors.ErrSnapshotNotLoaded
	}
	return snap, nil
}

// Store replaces the current snapshot.
func (s *SnapshotStore) Store(snap *model.Snapshot) {
	s.current.Store(snap)
}

// Replace stores next only if old is still current. It reports whether the
// swap happened; a false result means a newer snapshot was stored meanwhile.
func (s *SnapshotStore) Replace(old, next *model.Snapshot) bool {
	return s.current.CompareAndSwap(old, next)
}

package service_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// TestSnapshotStore tests storing and conditionally replacing snapshots.
//
// WHY: A scheduled revaluation that finishes after a reload must not
// overwrite the freshly reloaded ledger with prices for the old one.
func TestSnapshotStore(t *testing.T) {
	store := service.NewSnapshotStore()

	_, err := store.Current()
	require.ErrorIs(t, err, apperrors.ErrSnapshotNotLoaded)

	first := &model.Snapshot{ID: uuid.New()}
	store.Store(first)
	reloaded := &model.Snapshot{ID: uuid.New()}
	store.Store(reloaded)

	assert.False(t, store.Replace(first, &model.Snapshot{ID: uuid.New()}), "stale revaluation")
	current, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, reloaded, current)

	revalued := &model.Snapshot{ID: uuid.New()}
	assert.True(t, store.Replace(reloaded, revalued))
	current, err = store.Current()
	require.NoError(t, err)
	assert.Same(t, revalued, current)
}

// TestSnapshotStore_ConcurrentReaders tests that readers never observe a partial snapshot.
func TestSnapshotStore_ConcurrentReaders(t *testing.T) {
	store := service.NewSnapshotStore()
	store.Store(&model.Snapshot{ID: uuid.New()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap, err := store.Current()
				if assert.NoError(t, err) {
					assert.NotEqual(t, uuid.Nil, snap.ID)
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		store.Store(&model.Snapshot{ID: uuid.New()})
	}
	wg.Wait()
}

package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkatlas/datakit/internal/blob"
	"github.com/inkatlas/datakit/internal/dataset"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/logger"
	"github.com/inkatlas/datakit/internal/scenario"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/seeder"
	"github.com/inkatlas/datakit/internal/store"
	"github.com/inkatlas/datakit/internal/validate"
)

func newTestManager(t *testing.T) (*Manager, *store.Store, *search.Index) {
	t.Helper()
	s, err := store.NewInMemory(logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	idx, err := search.Open(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return New(s, blob.NewMemory(), logger.Discard().Logger), s, idx
}

func seed(t *testing.T, s *store.Store, idx *search.Index, artists int) {
	t.Helper()
	w := seeder.NewWriter(s, idx, validate.New(), logger.Discard().Logger)
	ds := dataset.Generate(artists)
	_, err := w.WriteAll(context.Background(), scenario.Select(ds, &scenario.Scenario{Name: "full"}))
	require.NoError(t, err)
}

func TestCreateAndRestoreRoundTrip(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 10)

	key, err := m.Create(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	// Wreck the store, then restore.
	require.NoError(t, s.DropAll(ctx))
	count, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	restored, err := m.Restore(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, restored)

	count, err = s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 3)

	_, err := m.Create(ctx, "fixed-key")
	require.NoError(t, err)

	_, err = m.Create(ctx, "fixed-key")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRestoreReplacesWholesale(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 5)

	key, err := m.Create(ctx, "")
	require.NoError(t, err)

	// Write a record that postdates the snapshot; restore must erase it.
	extra := dataset.Generate(8).Artists[7]
	require.NoError(t, s.Artists.Upsert(ctx, extra.ID, &extra))

	_, err = m.Restore(ctx, key)
	require.NoError(t, err)

	_, err = s.Artists.Get(ctx, extra.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	count, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestRestoreLeavesIndexUntouched(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 6)

	key, err := m.Create(ctx, "")
	require.NoError(t, err)

	before, err := idx.Count()
	require.NoError(t, err)

	_, err = m.Restore(ctx, key)
	require.NoError(t, err)

	after, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRestoreLatestWhenKeyEmpty(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 4)

	_, err := m.Create(ctx, "a-first")
	require.NoError(t, err)
	second, err := m.Create(ctx, "b-second")
	require.NoError(t, err)

	restored, err := m.Restore(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second, restored)
}

func TestRestoreMissingSnapshot(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Restore(context.Background(), "never-created")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// And with nothing stored at all, the empty key has nothing to resolve.
	_, err = m.Restore(context.Background(), "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	m, s, idx := newTestManager(t)
	ctx := context.Background()
	seed(t, s, idx, 2)

	_, err := m.Create(ctx, "first")
	require.NoError(t, err)
	_, err = m.Create(ctx, "second")
	require.NoError(t, err)

	infos, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "second", infos[0].Key)
}

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory(logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testArtist(id, city string) *domain.Artist {
	return &domain.Artist{
		Record: domain.Record{ID: id},
		Name:   "Test Artist",
		Handle: "test.artist",
		Styles: []string{"blackwork"},
		Location: domain.Location{
			City:    city,
			Country: "GB",
		},
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, "artist:artist-0001", Key(domain.KindArtist, "artist-0001"))
	assert.Equal(t, Key(domain.KindStudio, "x"), Key(domain.KindStudio, "x"))
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))

	count, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertReplacesWholeRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	a.Rating = 4.0
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))

	a.Rating = 4.8
	a.Location.City = "Bristol"
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))

	got, err := s.Artists.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.8, got.Rating)
	assert.Equal(t, "Bristol", got.Location.City)

	// The old index entry must be gone.
	londoners, err := s.Artists.GetByIndex(ctx, "city", "London")
	require.NoError(t, err)
	assert.Empty(t, londoners)

	bristolians, err := s.Artists.GetByIndex(ctx, "city", "Bristol")
	require.NoError(t, err)
	require.Len(t, bristolians, 1)
	assert.Equal(t, a.ID, bristolians[0].ID)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Artists.Get(context.Background(), "artist-nope")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	require.NoError(t, s.Artists.Delete(ctx, a.ID))
	require.NoError(t, s.Artists.Delete(ctx, a.ID))

	count, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScanPaginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 25 {
		a := testArtist(fmt.Sprintf("artist-%04d", i+1), "London")
		require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	}

	seen := make(map[string]bool)
	token := ""
	pages := 0
	for {
		page, err := s.Artists.Scan(ctx, ScanOptions{Limit: 10, ContinuationToken: token})
		require.NoError(t, err)
		pages++
		for _, id := range page.IDs {
			assert.False(t, seen[id], "id %s returned twice", id)
			seen[id] = true
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	assert.Len(t, seen, 25)
	assert.Equal(t, 3, pages)
}

func TestScanSkipsIndexKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))

	page, err := s.Artists.Scan(ctx, ScanOptions{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestClearRemovesOnlyThatKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	st := &domain.Studio{Record: domain.Record{ID: "studio-0001"}, Name: "Iron Rose Tattoo"}
	require.NoError(t, s.Studios.Upsert(ctx, st.ID, st))

	removed, err := s.Artists.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	artists, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, artists)

	studios, err := s.Studios.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, studios)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		a := testArtist(fmt.Sprintf("artist-%04d", i+1), "London")
		require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))
	}

	entries, err := s.ExportRaw(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	require.NoError(t, s.DropAll(ctx))
	count, err := s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.ImportRaw(ctx, entries))
	count, err = s.Artists.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// Index keys came back too.
	londoners, err := s.Artists.GetByIndex(ctx, "city", "London")
	require.NoError(t, err)
	assert.Len(t, londoners, 5)
}

func TestDescribe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArtist("artist-0001", "London")
	require.NoError(t, s.Artists.Upsert(ctx, a.ID, a))

	desc, err := s.Describe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", desc.Status)
	assert.Positive(t, desc.ItemCount)
}

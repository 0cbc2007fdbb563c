package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func testDoc(id string) *ArtistDocument {
	return &ArtistDocument{
		ID:          id,
		Name:        "Ada Archer",
		Handle:      "ada.archer",
		Styles:      []string{"blackwork", "fine_line"},
		Rating:      4.6,
		ReviewCount: 120,
		City:        "London",
		Country:     "GB",
		Pricing:     "premium",
		Lat:         51.5,
		Lon:         -0.12,
	}
}

func TestIndexAndGet(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexArtist(testDoc("artist-0001")))

	got, err := idx.Get(context.Background(), "artist-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Archer", got.Name)
	assert.Equal(t, "ada.archer", got.Handle)
	assert.Equal(t, []string{"blackwork", "fine_line"}, got.Styles)
	assert.InDelta(t, 4.6, got.Rating, 0.001)
}

func TestGetMissingReturnsNil(t *testing.T) {
	idx := newTestIndex(t)

	got, err := idx.Get(context.Background(), "artist-nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIndexArtistsBatch(t *testing.T) {
	idx := newTestIndex(t)

	docs := make([]*ArtistDocument, 0, 30)
	for i := range 30 {
		docs = append(docs, testDoc(fmt.Sprintf("artist-%04d", i+1)))
	}
	require.NoError(t, idx.IndexArtists(docs))
	require.NoError(t, idx.Refresh())

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(30), count)
}

func TestMatchAllEnumeratesEverything(t *testing.T) {
	idx := newTestIndex(t)

	for i := range 12 {
		require.NoError(t, idx.IndexArtist(testDoc(fmt.Sprintf("artist-%04d", i+1))))
	}

	// Page size smaller than the doc count exercises pagination.
	all, err := idx.MatchAll(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Contains(t, all, "artist-0001")
	assert.Contains(t, all, "artist-0012")
}

func TestDeleteRemovesDocument(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexArtist(testDoc("artist-0001")))
	require.NoError(t, idx.Delete("artist-0001"))

	got, err := idx.Get(context.Background(), "artist-0001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRebuildEmptiesIndex(t *testing.T) {
	idx := newTestIndex(t)

	for i := range 5 {
		require.NoError(t, idx.IndexArtist(testDoc(fmt.Sprintf("artist-%04d", i+1))))
	}
	require.NoError(t, idx.Rebuild())

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	// The rebuilt index must accept writes again.
	require.NoError(t, idx.IndexArtist(testDoc("artist-0001")))
	count, err = idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestFromArtistRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	doc := testDoc("artist-0001")
	doc.Geohash = "gcpvj0"
	require.NoError(t, idx.IndexArtist(doc))

	got, err := idx.Get(context.Background(), "artist-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gcpvj0", got.Geohash)
	assert.Equal(t, "premium", got.Pricing)
	assert.Equal(t, "London", got.City)
}

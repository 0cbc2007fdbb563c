package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQueryIndex(t *testing.T) *Index {
	t.Helper()
	idx := newTestIndex(t)

	docs := []*ArtistDocument{
		{ID: "artist-0001", Name: "Ada Archer", Handle: "ada.archer", Styles: []string{"blackwork"}, City: "London", Country: "GB", Pricing: "premium", Rating: 4.8},
		{ID: "artist-0002", Name: "Bruno Drake", Handle: "bruno.drake", Styles: []string{"fine_line", "blackwork"}, City: "Berlin", Country: "DE", Pricing: "budget", Rating: 3.6},
		{ID: "artist-0003", Name: "Carmen Sato", Handle: "carmen.sato", Styles: []string{"irezumi"}, City: "London", Country: "GB", Pricing: "luxury", Rating: 4.2},
	}
	require.NoError(t, idx.IndexArtists(docs))
	require.NoError(t, idx.Refresh())
	return idx
}

func hitIDs(res *SearchResult) []string {
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestSearchByName(t *testing.T) {
	idx := seedQueryIndex(t)

	res, err := idx.Search(context.Background(), SearchParams{Query: "ada", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "artist-0001", res.Hits[0].ID)
	assert.Equal(t, "Ada Archer", res.Hits[0].Name)
}

func TestSearchFilterByStyle(t *testing.T) {
	idx := seedQueryIndex(t)

	res, err := idx.Search(context.Background(), SearchParams{Styles: []string{"blackwork"}, Limit: 10})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"artist-0001", "artist-0002"}, hitIDs(res))
}

func TestSearchFilterByCityAndRating(t *testing.T) {
	idx := seedQueryIndex(t)

	res, err := idx.Search(context.Background(), SearchParams{City: "London", MinRating: 4.5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"artist-0001"}, hitIDs(res))
}

func TestSearchFilterByPricing(t *testing.T) {
	idx := seedQueryIndex(t)

	res, err := idx.Search(context.Background(), SearchParams{Pricing: "luxury", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"artist-0003"}, hitIDs(res))
}

func TestSearchNoFiltersReturnsEverything(t *testing.T) {
	idx := seedQueryIndex(t)

	res, err := idx.Search(context.Background(), DefaultSearchParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
}

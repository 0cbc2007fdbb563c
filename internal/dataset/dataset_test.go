package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkatlas/datakit/internal/domain"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(50)
	b := Generate(50)

	require.Equal(t, len(a.Artists), len(b.Artists))
	for i := range a.Artists {
		assert.Equal(t, a.Artists[i], b.Artists[i])
	}
	assert.Equal(t, a.Studios, b.Studios)
	assert.Equal(t, a.Styles, b.Styles)
}

func TestGenerateCounts(t *testing.T) {
	ds := Generate(50)

	assert.Len(t, ds.Artists, 50)
	assert.Len(t, ds.Styles, len(domain.StyleSlugs))
	assert.Len(t, ds.Studios, 6) // 50/8, floor

	small := Generate(4)
	assert.Len(t, small.Studios, 2) // minimum two studios
}

func TestGeneratedArtistsAreWellFormed(t *testing.T) {
	ds := Generate(50)

	for _, a := range ds.Artists {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Handle)
		assert.NotEmpty(t, a.Styles)
		assert.GreaterOrEqual(t, a.Rating, 3.0)
		assert.LessOrEqual(t, a.Rating, 5.0)
		assert.Positive(t, a.ReviewCount)
		assert.GreaterOrEqual(t, len(a.PortfolioImages), 3)
		require.NotNil(t, ds.StudioByID(a.StudioID), "artist %s references unknown studio %s", a.ID, a.StudioID)
		for _, slug := range a.Styles {
			require.NotNil(t, ds.StyleBySlug(slug), "artist %s references unknown style %s", a.ID, slug)
		}
	}
}

func TestGeneratedGBArtistsHavePostcodes(t *testing.T) {
	ds := Generate(50)

	for _, a := range ds.Artists {
		if a.Location.Country == "GB" {
			assert.NotEmpty(t, a.Location.Postcode, "GB artist %s has no postcode", a.ID)
		}
	}
}

func TestGenerateLeavesPricingGaps(t *testing.T) {
	ds := Generate(30)

	missing := 0
	for _, a := range ds.Artists {
		if a.Pricing == "" {
			missing++
		}
	}
	// Every third artist is generated without a pricing tier.
	assert.Equal(t, 10, missing)
}

func TestLookupHelpers(t *testing.T) {
	ds := Generate(10)

	assert.NotNil(t, ds.ArtistByID("artist-0001"))
	assert.Nil(t, ds.ArtistByID("artist-9999"))
	assert.NotNil(t, ds.StyleBySlug("blackwork"))
	assert.Nil(t, ds.StyleBySlug("not-a-style"))
}

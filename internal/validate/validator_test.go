package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
)

func validArtist() *domain.Artist {
	return &domain.Artist{
		Record: domain.Record{ID: "artist-0001"},
		Name:   "Ada Archer",
		Handle: "ada.archer",
		Styles: []string{"blackwork"},
		Location: domain.Location{
			City:     "London",
			Country:  "GB",
			Postcode: "E2 8AA",
		},
		Rating:      4.6,
		ReviewCount: 42,
		PortfolioImages: []string{
			"https://example.com/1.jpg",
			"https://example.com/2.jpg",
			"https://example.com/3.jpg",
		},
	}
}

func TestValidArtistPasses(t *testing.T) {
	v := New()

	result := v.Artist(validArtist())
	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, result.Err())
}

func TestMissingRequiredFields(t *testing.T) {
	v := New()

	a := validArtist()
	a.Name = ""
	a.Handle = ""

	result := v.Artist(a)
	assert.False(t, result.Valid())
	require.Error(t, result.Err())
	assert.True(t, domainerrors.Is(result.Err(), domainerrors.ErrValidation))

	fields := make(map[string]bool)
	for _, issue := range result.Errors {
		fields[issue.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["handle"])
}

func TestHandleFormat(t *testing.T) {
	tests := []struct {
		handle string
		valid  bool
	}{
		{"ada.archer", true},
		{"ada_archer", true},
		{"ada-archer", true},
		{"a1", true},
		{"Ada.Archer", false},
		{".ada", false},
		{"ada archer", false},
		{"", false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			a := validArtist()
			a.Handle = tt.handle
			assert.Equal(t, tt.valid, v.Artist(a).Valid())
		})
	}
}

func TestRatingRange(t *testing.T) {
	v := New()

	a := validArtist()
	a.Rating = 5.1
	assert.False(t, v.Artist(a).Valid())

	a.Rating = -0.1
	assert.False(t, v.Artist(a).Valid())
}

func TestRatingRequiresReviews(t *testing.T) {
	v := New()

	a := validArtist()
	a.Rating = 4.2
	a.ReviewCount = 0

	result := v.Artist(a)
	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "rating-requires-reviews", result.Errors[0].Rule)

	// Zero rating with zero reviews is a fresh profile, not an error.
	a.Rating = 0
	assert.True(t, v.Artist(a).Valid())
}

func TestMinimumPortfolioWarns(t *testing.T) {
	v := New()

	a := validArtist()
	a.PortfolioImages = a.PortfolioImages[:2]

	result := v.Artist(a)
	// A thin portfolio warns but does not invalidate.
	assert.True(t, result.Valid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "minimum-portfolio", result.Warnings[0].Rule)
}

func TestUKPostcodeFormat(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		postcode string
		valid    bool
	}{
		{"valid london", "GB", "E2 8AA", true},
		{"valid manchester", "GB", "M1 1AE", true},
		{"valid no space", "GB", "BS14DJ", true},
		{"garbage", "GB", "12345", false},
		{"missing", "GB", "", false},
		{"lowercase", "GB", "e2 8aa", false},
		{"non-uk ignores postcode", "DE", "", true},
		{"non-uk garbage ok", "ES", "xx", true},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtist()
			a.Location.Country = tt.country
			a.Location.Postcode = tt.postcode
			result := v.Artist(a)
			assert.Equal(t, tt.valid, result.Valid())
			if !tt.valid {
				assert.Equal(t, "uk-postcode-format", result.Errors[0].Rule)
			}
		})
	}
}

func TestUnknownPricingTier(t *testing.T) {
	v := New()

	a := validArtist()
	a.Pricing = "bargain-bin"
	result := v.Artist(a)
	assert.False(t, result.Valid())

	a.Pricing = domain.PricingPremium
	assert.True(t, v.Artist(a).Valid())

	a.Pricing = ""
	assert.True(t, v.Artist(a).Valid())
}

func TestStudioValidation(t *testing.T) {
	v := New()

	s := &domain.Studio{
		Record: domain.Record{ID: "studio-0001"},
		Name:   "Iron Rose Tattoo",
		Location: domain.Location{
			City:    "Berlin",
			Country: "DE",
		},
	}
	assert.True(t, v.Studio(s).Valid())

	s.Name = ""
	assert.False(t, v.Studio(s).Valid())
}

func TestStyleValidation(t *testing.T) {
	v := New()

	s := &domain.Style{
		Record: domain.Record{ID: "style-0001"},
		Name:   "Blackwork",
		Slug:   "blackwork",
	}
	assert.True(t, v.Style(s).Valid())

	s.Slug = "Not A Slug"
	assert.False(t, v.Style(s).Valid())
}

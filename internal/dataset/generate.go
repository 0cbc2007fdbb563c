package dataset

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/inkatlas/datakit/internal/domain"
)

// defaultSeed keeps generated datasets reproducible across runs.
// Deterministic generation is what makes scenario selection and
// reconciliation assertions stable in tests and CI environments.
const defaultSeed = 42

var firstNames = []string{
	"Ada", "Bruno", "Carmen", "Dmitri", "Elif", "Femi", "Greta", "Hiro",
	"Ines", "Jonas", "Kasia", "Luca", "Mei", "Nadia", "Oskar", "Priya",
	"Quinn", "Rosa", "Sven", "Tama", "Uma", "Viktor", "Wren", "Yuki", "Zane",
}

var lastNames = []string{
	"Archer", "Blackwood", "Castellano", "Drake", "Eriksen", "Fontaine",
	"Grimaldi", "Holloway", "Ivanov", "Jensen", "Kowalski", "Lindqvist",
	"Moreau", "Nakamura", "Okafor", "Petrov", "Quintero", "Rhodes",
	"Sato", "Thorne", "Ueda", "Vargas", "Winters", "Yamada", "Zielinski",
}

// city seeds with real-ish coordinates; GB cities carry postcodes so the
// postcode business rule has data to bite on.
var cities = []struct {
	city     string
	country  string
	postcode string
	lat, lon float64
}{
	{"London", "GB", "E2 8AA", 51.5074, -0.1278},
	{"Manchester", "GB", "M1 1AE", 53.4808, -2.2426},
	{"Bristol", "GB", "BS1 4DJ", 51.4545, -2.5879},
	{"Glasgow", "GB", "G1 1XQ", 55.8642, -4.2518},
	{"Leeds", "GB", "LS1 1UR", 53.8008, -1.5491},
	{"Berlin", "DE", "", 52.5200, 13.4050},
	{"Amsterdam", "NL", "", 52.3676, 4.9041},
	{"Barcelona", "ES", "", 41.3851, 2.1734},
}

var studioPrefixes = []string{
	"Black Lotus", "Iron Rose", "Golden Needle", "Electric Owl",
	"Sacred Lines", "Crooked Anchor", "Velvet Dagger", "Wild Ink",
}

// Generate builds a deterministic dataset of numArtists artists, the full
// canonical style catalogue, and one studio per eight artists (minimum two).
// The same count always produces the same dataset.
func Generate(numArtists int) *Dataset {
	rng := rand.New(rand.NewSource(defaultSeed))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	ds := &Dataset{}

	for i, slug := range domain.StyleSlugs {
		ds.Styles = append(ds.Styles, domain.Style{
			Record: domain.Record{
				ID:        fmt.Sprintf("style-%04d", i+1),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name: styleName(slug),
			Slug: slug,
		})
	}

	numStudios := max(numArtists/8, 2)
	for i := range numStudios {
		loc := cities[rng.Intn(len(cities))]
		ds.Studios = append(ds.Studios, domain.Studio{
			Record: domain.Record{
				ID:        fmt.Sprintf("studio-%04d", i+1),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name: studioPrefixes[i%len(studioPrefixes)] + " Tattoo",
			Location: domain.Location{
				City:      loc.city,
				Country:   loc.country,
				Postcode:  loc.postcode,
				Latitude:  loc.lat,
				Longitude: loc.lon,
			},
		})
	}

	for i := range numArtists {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		loc := cities[rng.Intn(len(cities))]

		numStyles := 1 + rng.Intn(3)
		styles := make([]string, 0, numStyles)
		seen := make(map[string]bool)
		for len(styles) < numStyles {
			slug := domain.StyleSlugs[rng.Intn(len(domain.StyleSlugs))]
			if !seen[slug] {
				seen[slug] = true
				styles = append(styles, slug)
			}
		}

		// Ratings cluster mid-range; roughly one in eight artists rates 4.5+.
		rating := 3.0 + rng.Float64()*1.4
		if rng.Intn(8) == 0 {
			rating = 4.5 + rng.Float64()*0.5
		}
		rating = float64(int(rating*10)) / 10
		reviewCount := 1 + rng.Intn(200)

		numImages := 3 + rng.Intn(6)
		images := make([]string, 0, numImages)
		for j := range numImages {
			images = append(images, fmt.Sprintf("https://cdn.inkatlas.example/portfolio/artist-%04d/%02d.jpg", i+1, j+1))
		}

		// Every third artist has no pricing set, so scenarios that ask for
		// pricing variety have gaps to fill.
		var pricing domain.PricingTier
		if i%3 != 0 {
			pricing = domain.PricingTiers[rng.Intn(len(domain.PricingTiers))]
		}

		handle := strings.ToLower(first) + "." + strings.ToLower(last)
		ds.Artists = append(ds.Artists, domain.Artist{
			Record: domain.Record{
				ID:        fmt.Sprintf("artist-%04d", i+1),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name:        first + " " + last,
			Handle:      handle,
			Styles:      styles,
			StudioID:    ds.Studios[rng.Intn(numStudios)].ID,
			Rating:      rating,
			ReviewCount: reviewCount,
			Pricing:     pricing,
			Location: domain.Location{
				City:      loc.city,
				Country:   loc.country,
				Postcode:  loc.postcode,
				Latitude:  jitter(rng, loc.lat),
				Longitude: jitter(rng, loc.lon),
			},
			PortfolioImages: images,
			Instagram:       "@" + strings.ReplaceAll(handle, ".", "_"),
		})
	}

	return ds
}

// jitter spreads artists around their city center by up to ~0.05 degrees.
func jitter(rng *rand.Rand, v float64) float64 {
	return v + (rng.Float64()-0.5)*0.1
}

func styleName(slug string) string {
	words := strings.Split(slug, "_")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

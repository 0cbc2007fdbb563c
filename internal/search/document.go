// Package search implements the secondary search index on top of Bleve.
// Artists are the only search-relevant kind; they are flattened into
// ArtistDocuments with latitude/longitude folded into a single geo field.
package search

import (
	"github.com/inkatlas/datakit/internal/domain"
)

// ArtistDocument is the flattened search document for an artist.
//
// Design note: the document is re-derivable purely from the primary-store
// artist record. That property is what makes the index a rebuildable
// projection: a failed index write is recoverable by replaying the primary
// item, never a data loss.
type ArtistDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Styles      []string `json:"styles"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Pricing     string   `json:"pricing,omitempty"`

	// Geo is lat/lon folded into one geopoint field for distance queries.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Geohash is carried through from the source data as-is. It is authored
	// independently of lat/lon and is never derived or cross-checked here.
	Geohash string `json:"geohash,omitempty"`

	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names matching
// the index mapping. The geo field becomes a single {lon, lat} value.
func (d *ArtistDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":           d.ID,
		"name":         d.Name,
		"handle":       d.Handle,
		"styles":       d.Styles,
		"rating":       d.Rating,
		"review_count": d.ReviewCount,
		"city":         d.City,
		"country":      d.Country,
		"location": map[string]interface{}{
			"lon": d.Lon,
			"lat": d.Lat,
		},
		"updated_at": d.UpdatedAt,
	}

	if d.Pricing != "" {
		m["pricing"] = d.Pricing
	}
	if d.Geohash != "" {
		m["geohash"] = d.Geohash
	}

	return m
}

// FromArtist flattens a domain artist into its search document.
func FromArtist(a *domain.Artist) *ArtistDocument {
	return &ArtistDocument{
		ID:          a.ID,
		Name:        a.Name,
		Handle:      a.Handle,
		Styles:      a.Styles,
		Rating:      a.Rating,
		ReviewCount: a.ReviewCount,
		City:        a.Location.City,
		Country:     a.Location.Country,
		Pricing:     string(a.Pricing),
		Lat:         a.Location.Latitude,
		Lon:         a.Location.Longitude,
		Geohash:     a.Location.Geohash,
		UpdatedAt:   a.UpdatedAt.UnixMilli(),
	}
}

// fromStoredFields rebuilds a document from the stored fields of a search
// hit. Bleve returns single-valued arrays as scalars, so both shapes are
// handled.
func fromStoredFields(id string, fields map[string]interface{}) *ArtistDocument {
	doc := &ArtistDocument{ID: id}

	if v, ok := fields["name"].(string); ok {
		doc.Name = v
	}
	if v, ok := fields["handle"].(string); ok {
		doc.Handle = v
	}
	if v, ok := fields["rating"].(float64); ok {
		doc.Rating = v
	}
	if v, ok := fields["review_count"].(float64); ok {
		doc.ReviewCount = int(v)
	}
	if v, ok := fields["city"].(string); ok {
		doc.City = v
	}
	if v, ok := fields["country"].(string); ok {
		doc.Country = v
	}
	if v, ok := fields["pricing"].(string); ok {
		doc.Pricing = v
	}
	if v, ok := fields["geohash"].(string); ok {
		doc.Geohash = v
	}

	switch styles := fields["styles"].(type) {
	case string:
		doc.Styles = []string{styles}
	case []interface{}:
		for _, s := range styles {
			if str, ok := s.(string); ok {
				doc.Styles = append(doc.Styles, str)
			}
		}
	}

	return doc
}

// Package dataset provides the canonical read-only dataset the lifecycle
// engine seeds from: three homogeneous collections of artists, studios, and
// styles. A dataset is loaded (or generated) once per run and never mutated.
package dataset

import (
	"encoding/json/v2"
	"fmt"
	"os"

	"github.com/inkatlas/datakit/internal/domain"
)

// Dataset holds the three canonical collections.
type Dataset struct {
	Artists []domain.Artist `json:"artists"`
	Studios []domain.Studio `json:"studios"`
	Styles  []domain.Style  `json:"styles"`
}

// ArtistByID returns the artist with the given id, or nil.
func (d *Dataset) ArtistByID(id string) *domain.Artist {
	for i := range d.Artists {
		if d.Artists[i].ID == id {
			return &d.Artists[i]
		}
	}
	return nil
}

// StudioByID returns the studio with the given id, or nil.
func (d *Dataset) StudioByID(id string) *domain.Studio {
	for i := range d.Studios {
		if d.Studios[i].ID == id {
			return &d.Studios[i]
		}
	}
	return nil
}

// StyleBySlug returns the style with the given slug, or nil.
func (d *Dataset) StyleBySlug(slug string) *domain.Style {
	for i := range d.Styles {
		if d.Styles[i].Slug == slug {
			return &d.Styles[i]
		}
	}
	return nil
}

// Load reads a dataset from a JSON file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path) //#nosec G304 -- dataset path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	var ds Dataset
	if err := json.UnmarshalRead(f, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset file %s: %w", path, err)
	}
	return &ds, nil
}

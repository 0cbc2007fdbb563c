// Package scenario selects a working subset of the canonical dataset
// according to named, declarative rules.
//
// Selection is a pure function of (dataset, scenario): no side effects, and
// for a fixed dataset the same scenario always yields the same set of ids
// (backfill order is the only thing allowed to vary between equivalent
// datasets).
package scenario

import (
	"github.com/inkatlas/datakit/internal/dataset"
	"github.com/inkatlas/datakit/internal/domain"
)

// Predicate filters artists for predicate-based scenarios.
type Predicate func(*domain.Artist) bool

// Scenario is a named selection rule. Exactly one of IDs or Predicate
// should be set; IDs wins when both are present.
type Scenario struct {
	Name        string
	Description string

	// IDs is an explicit allowlist. Selection order follows the allowlist,
	// not the dataset; ids that don't exist in the dataset are skipped.
	IDs []string

	// Predicate selects artists when no allowlist is given.
	Predicate Predicate

	// MinItems backfills a predicate selection with arbitrary non-selected
	// artists (in dataset order) up to this floor. Exhausting the dataset
	// short of the floor is not an error.
	MinItems int

	// EnsurePricingVariety assigns a deterministic pricing tier to every
	// selected artist lacking one, cycling the fixed tier list by position
	// in the selection.
	EnsurePricingVariety bool
}

// WorkingSet is the output of a selection: the chosen artists plus the
// transitive closure of styles and studios they reference. Entries are
// copies; mutating a working set never touches the canonical dataset.
type WorkingSet struct {
	Scenario string
	Artists  []domain.Artist
	Studios  []domain.Studio
	Styles   []domain.Style
}

// ArtistIDs returns the ids of the selected artists in selection order.
func (ws *WorkingSet) ArtistIDs() []string {
	ids := make([]string, 0, len(ws.Artists))
	for i := range ws.Artists {
		ids = append(ids, ws.Artists[i].ID)
	}
	return ids
}

// Select applies a scenario to a dataset and returns the working set.
func Select(ds *dataset.Dataset, sc *Scenario) *WorkingSet {
	ws := &WorkingSet{Scenario: sc.Name}

	selected := make(map[string]bool)

	switch {
	case len(sc.IDs) > 0:
		for _, id := range sc.IDs {
			if selected[id] {
				continue
			}
			if a := ds.ArtistByID(id); a != nil {
				ws.Artists = append(ws.Artists, *a)
				selected[id] = true
			}
		}

	case sc.Predicate != nil:
		for i := range ds.Artists {
			a := &ds.Artists[i]
			if sc.Predicate(a) {
				ws.Artists = append(ws.Artists, *a)
				selected[a.ID] = true
			}
		}
		// Backfill to the floor with arbitrary non-selected artists in
		// dataset order. Running out short of the floor is acceptable.
		for i := range ds.Artists {
			if len(ws.Artists) >= sc.MinItems {
				break
			}
			a := &ds.Artists[i]
			if !selected[a.ID] {
				ws.Artists = append(ws.Artists, *a)
				selected[a.ID] = true
			}
		}

	default:
		// No rule means the whole dataset.
		ws.Artists = append(ws.Artists, ds.Artists...)
		for i := range ds.Artists {
			selected[ds.Artists[i].ID] = true
		}
	}

	if sc.EnsurePricingVariety {
		ensurePricingVariety(ws.Artists)
	}

	includeDerived(ds, ws)
	return ws
}

// ensurePricingVariety fills missing pricing tiers deterministically,
// cycling the fixed tier list by position in the selection.
func ensurePricingVariety(artists []domain.Artist) {
	for i := range artists {
		if artists[i].Pricing == "" {
			artists[i].Pricing = domain.PricingTiers[i%len(domain.PricingTiers)]
		}
	}
}

// includeDerived pulls in exactly the styles and studios referenced by the
// selected artists: the derived-inclusion closure, nothing more.
func includeDerived(ds *dataset.Dataset, ws *WorkingSet) {
	styleSlugs := make(map[string]bool)
	studioIDs := make(map[string]bool)
	for i := range ws.Artists {
		for _, slug := range ws.Artists[i].Styles {
			styleSlugs[slug] = true
		}
		if id := ws.Artists[i].StudioID; id != "" {
			studioIDs[id] = true
		}
	}

	for i := range ds.Styles {
		if styleSlugs[ds.Styles[i].Slug] {
			ws.Styles = append(ws.Styles, ds.Styles[i])
		}
	}
	for i := range ds.Studios {
		if studioIDs[ds.Studios[i].ID] {
			ws.Studios = append(ws.Studios, ds.Studios[i])
		}
	}
}

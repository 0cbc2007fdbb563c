// Package reconcile compares the primary store and the search index and
// reports every divergence between them. It never mutates either store;
// repairing drift is the reset layer's job (rebuild-index).
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/store"
)

// FieldDiff is one field whose value differs between the stores.
type FieldDiff struct {
	Field   string `json:"field"`
	Primary string `json:"primary"`
	Index   string `json:"index"`
}

// Report is the outcome of one reconciliation pass.
//
// Missing and Extra are disjoint by construction: an id is missing when the
// primary store has it and the index does not, extra when the index has it
// and the primary store does not.
type Report struct {
	StartedAt    time.Time `json:"started_at"`
	Elapsed      time.Duration `json:"elapsed"`
	PrimaryCount int       `json:"primary_count"`
	IndexCount   int       `json:"index_count"`

	Missing    []string               `json:"missing,omitempty"`
	Extra      []string               `json:"extra,omitempty"`
	Mismatched map[string][]FieldDiff `json:"mismatched,omitempty"`

	// Partial is set when one side could not be read; the report then only
	// carries what was observable before the failure.
	Partial bool   `json:"partial,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Consistent reports whether the pass found zero divergences.
func (r *Report) Consistent() bool {
	return !r.Partial && len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Mismatched) == 0
}

// Drift returns the total number of divergent records.
func (r *Report) Drift() int {
	return len(r.Missing) + len(r.Extra) + len(r.Mismatched)
}

// Reconciler runs store-vs-index comparison passes.
type Reconciler struct {
	store    *store.Store
	index    *search.Index
	pageSize int
	logger   *slog.Logger
}

// New builds a reconciler. pageSize bounds both the primary scan pages and
// the match-all pages on the index side.
func New(s *store.Store, idx *search.Index, pageSize int, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:    s,
		index:    idx,
		pageSize: pageSize,
		logger:   logger.With("component", "reconcile"),
	}
}

// Reconcile scans every artist in the primary store against every document
// in the index and classifies each id as consistent, missing, extra, or
// mismatched. When one side is unreachable the pass returns a partial report
// together with the error instead of failing silently.
func (r *Reconciler) Reconcile(ctx context.Context) (*Report, error) {
	report := &Report{
		StartedAt:  time.Now(),
		Mismatched: make(map[string][]FieldDiff),
	}

	primary, err := r.store.Artists.All(ctx, r.pageSize)
	if err != nil {
		report.Partial = true
		report.Err = err.Error()
		// The index half is still reported when reachable; its ids stay
		// unclassified because there is nothing to compare them against.
		if indexed, idxErr := r.index.MatchAll(ctx, r.pageSize); idxErr == nil {
			report.IndexCount = len(indexed)
		}
		return report, domainerrors.Wrap(err, domainerrors.CodeReconciliation, "scan primary store")
	}
	report.PrimaryCount = len(primary)

	indexed, err := r.index.MatchAll(ctx, r.pageSize)
	if err != nil {
		report.Partial = true
		report.Err = err.Error()
		return report, domainerrors.Wrap(err, domainerrors.CodeReconciliation, "scan search index")
	}
	report.IndexCount = len(indexed)

	for id, artist := range primary {
		doc, ok := indexed[id]
		if !ok {
			report.Missing = append(report.Missing, id)
			continue
		}
		if diffs := compareArtist(artist, doc); len(diffs) > 0 {
			report.Mismatched[id] = diffs
		}
	}
	for id := range indexed {
		if _, ok := primary[id]; !ok {
			report.Extra = append(report.Extra, id)
		}
	}

	slices.Sort(report.Missing)
	slices.Sort(report.Extra)
	if len(report.Mismatched) == 0 {
		report.Mismatched = nil
	}

	report.Elapsed = time.Since(report.StartedAt)
	r.logger.Info("reconciliation pass complete",
		"primary", report.PrimaryCount,
		"index", report.IndexCount,
		"missing", len(report.Missing),
		"extra", len(report.Extra),
		"mismatched", len(report.Mismatched),
		"elapsed", report.Elapsed)
	observeReport(report)
	return report, nil
}

// comparedFields are the denormalized fields checked for drift. Anything the
// index does not carry verbatim (timestamps, portfolio urls) is out of scope.
func compareArtist(a *domain.Artist, doc *search.ArtistDocument) []FieldDiff {
	var diffs []FieldDiff

	if a.Name != doc.Name {
		diffs = append(diffs, FieldDiff{Field: "name", Primary: a.Name, Index: doc.Name})
	}
	if a.Handle != doc.Handle {
		diffs = append(diffs, FieldDiff{Field: "handle", Primary: a.Handle, Index: doc.Handle})
	}
	if !slices.Equal(a.Styles, doc.Styles) {
		diffs = append(diffs, FieldDiff{
			Field:   "styles",
			Primary: fmt.Sprintf("%v", a.Styles),
			Index:   fmt.Sprintf("%v", doc.Styles),
		})
	}
	if a.Rating != doc.Rating {
		diffs = append(diffs, FieldDiff{
			Field:   "rating",
			Primary: fmt.Sprintf("%.1f", a.Rating),
			Index:   fmt.Sprintf("%.1f", doc.Rating),
		})
	}
	return diffs
}

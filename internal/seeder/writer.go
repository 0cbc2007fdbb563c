// Package seeder writes records through the dual-store pipeline: validate,
// then the primary store, then the search index, in that order. A record is
// only searchable once it exists in the primary store; the inverse is never
// allowed to hold after a successful write.
package seeder

import (
	"context"
	"log/slog"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/store"
	"github.com/inkatlas/datakit/internal/validate"
)

// Outcome classifies a single dual-store write.
type Outcome string

const (
	// Succeeded means both stores accepted the record.
	Succeeded Outcome = "succeeded"
	// PartialFailure means the primary store accepted the record but the
	// index write failed. The stores are inconsistent until reconciled or
	// the index is rebuilt; nothing is rolled back.
	PartialFailure Outcome = "partial_failure"
	// Failed means the record reached neither store.
	Failed Outcome = "failed"
)

// WriteResult describes one write attempt.
type WriteResult struct {
	ID      string
	Kind    domain.Kind
	Outcome Outcome
	Err     error
}

// Indexer is the slice of the search index the writer needs. Artists are the
// only searchable kind; studio and style writes skip the index entirely.
type Indexer interface {
	IndexArtist(doc *search.ArtistDocument) error
	Refresh() error
}

// Writer pushes records into both stores with validation gating.
type Writer struct {
	store     *store.Store
	index     Indexer
	validator *validate.Validator
	logger    *slog.Logger
}

// NewWriter builds a dual-store writer.
func NewWriter(s *store.Store, idx Indexer, v *validate.Validator, logger *slog.Logger) *Writer {
	return &Writer{
		store:     s,
		index:     idx,
		validator: v,
		logger:    logger.With("component", "seeder"),
	}
}

// WriteArtist validates and writes one artist. A validation failure touches
// neither store. A primary-store failure stops before the index. An index
// failure after a successful primary write is reported as a partial failure
// and deliberately not compensated; reconciliation owns that drift.
func (w *Writer) WriteArtist(ctx context.Context, a *domain.Artist) WriteResult {
	res := WriteResult{ID: a.ID, Kind: domain.KindArtist}

	if result := w.validator.Artist(a); !result.Valid() {
		res.Outcome = Failed
		res.Err = result.Err()
		w.logger.Warn("artist rejected by validation", "id", a.ID, "errors", len(result.Errors))
		return res
	}

	// A rewrite keeps the original CreatedAt and advances UpdatedAt, so the
	// record itself shows which write was the later one.
	if prev, err := w.store.Artists.Get(ctx, a.ID); err == nil {
		a.CreatedAt = prev.CreatedAt
		a.Touch()
	} else if a.CreatedAt.IsZero() {
		a.InitTimestamps()
	} else {
		a.Touch()
	}

	if err := w.store.Artists.Upsert(ctx, a.ID, a); err != nil {
		res.Outcome = Failed
		res.Err = domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "primary write for artist %s", a.ID)
		return res
	}

	if err := w.index.IndexArtist(search.FromArtist(a)); err != nil {
		res.Outcome = PartialFailure
		res.Err = domainerrors.Wrapf(err, domainerrors.CodePartialWrite, "index write for artist %s", a.ID)
		w.logger.Error("index write failed after primary write", "id", a.ID, "error", err)
		return res
	}

	res.Outcome = Succeeded
	return res
}

// WriteStudio validates and writes one studio to the primary store.
func (w *Writer) WriteStudio(ctx context.Context, s *domain.Studio) WriteResult {
	res := WriteResult{ID: s.ID, Kind: domain.KindStudio}

	if result := w.validator.Studio(s); !result.Valid() {
		res.Outcome = Failed
		res.Err = result.Err()
		w.logger.Warn("studio rejected by validation", "id", s.ID, "errors", len(result.Errors))
		return res
	}

	if prev, err := w.store.Studios.Get(ctx, s.ID); err == nil {
		s.CreatedAt = prev.CreatedAt
		s.Touch()
	} else if s.CreatedAt.IsZero() {
		s.InitTimestamps()
	} else {
		s.Touch()
	}

	if err := w.store.Studios.Upsert(ctx, s.ID, s); err != nil {
		res.Outcome = Failed
		res.Err = domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "primary write for studio %s", s.ID)
		return res
	}

	res.Outcome = Succeeded
	return res
}

// WriteStyle validates and writes one style to the primary store.
func (w *Writer) WriteStyle(ctx context.Context, s *domain.Style) WriteResult {
	res := WriteResult{ID: s.ID, Kind: domain.KindStyle}

	if result := w.validator.Style(s); !result.Valid() {
		res.Outcome = Failed
		res.Err = result.Err()
		w.logger.Warn("style rejected by validation", "id", s.ID, "errors", len(result.Errors))
		return res
	}

	if prev, err := w.store.Styles.Get(ctx, s.ID); err == nil {
		s.CreatedAt = prev.CreatedAt
		s.Touch()
	} else if s.CreatedAt.IsZero() {
		s.InitTimestamps()
	} else {
		s.Touch()
	}

	if err := w.store.Styles.Upsert(ctx, s.ID, s); err != nil {
		res.Outcome = Failed
		res.Err = domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "primary write for style %s", s.ID)
		return res
	}

	res.Outcome = Succeeded
	return res
}

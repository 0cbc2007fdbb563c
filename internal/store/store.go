// Package store implements the primary record store on top of Badger.
//
// Every entity lives under a kind-scoped key (e.g. "artist:artist-0007") with
// denormalized secondary index keys ("artist:idx:city:london:artist-0007")
// for range queries. The key for a record is a pure function of (kind, id),
// which is what makes re-seeding idempotent: a repeat write with the same id
// always targets the same item.
package store

import (
	"context"
	"encoding/json/jsontext"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
)

// Store wraps a Badger database instance with one Entity per kind.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Artists *Entity[domain.Artist]
	Studios *Entity[domain.Studio]
	Styles  *Entity[domain.Style]
}

// Description reports store liveness and size, used by health checks and
// reset post-condition reporting.
type Description struct {
	Status    string `json:"status"`
	ItemCount int    `json:"item_count"`
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Ensure writes are synced to disk to prevent corruption on crashes

	return open(opts, logger, path)
}

// NewInMemory creates a Store backed by an in-memory Badger instance.
// Used by tests and throwaway environments.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts, logger, "(in-memory)")
}

func open(opts badger.Options, logger *slog.Logger, path string) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "failed to open primary store")
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initEntities()

	logger.Info("primary store opened", "path", path)
	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	s.logger.Info("closing primary store")
	return s.db.Close()
}

// initEntities wires the per-kind entities and their denormalized indexes.
// Artist index fields mirror the range queries the directory serves:
// by city, by style, and by handle.
func (s *Store) initEntities() {
	s.Artists = NewEntity[domain.Artist](s, domain.KindArtist).
		WithIndex("city", func(a *domain.Artist) []string {
			return []string{normalizeIndexValue(a.Location.City)}
		}).
		WithIndex("style", func(a *domain.Artist) []string {
			values := make([]string, 0, len(a.Styles))
			for _, slug := range a.Styles {
				values = append(values, normalizeIndexValue(slug))
			}
			return values
		}).
		WithIndex("handle", func(a *domain.Artist) []string {
			return []string{normalizeIndexValue(a.Handle)}
		})

	s.Studios = NewEntity[domain.Studio](s, domain.KindStudio).
		WithIndex("city", func(st *domain.Studio) []string {
			return []string{normalizeIndexValue(st.Location.City)}
		})

	s.Styles = NewEntity[domain.Style](s, domain.KindStyle)
}

// Key derives the primary-store key for a record.
// Pure and deterministic: required for idempotent reseeding.
func Key(kind domain.Kind, id string) string {
	return kind.String() + ":" + id
}

// normalizeIndexValue lowercases and strips spaces so index lookups are
// case-insensitive.
func normalizeIndexValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Describe reports store status and the total primary item count across all
// kinds (index keys excluded).
func (s *Store) Describe(ctx context.Context) (*Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, kind := range domain.Kinds() {
		n, err := s.countKind(kind)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "describe failed")
		}
		total += n
	}

	return &Description{Status: "ACTIVE", ItemCount: total}, nil
}

// CountKind returns the number of primary items of one kind.
func (s *Store) CountKind(ctx context.Context, kind domain.Kind) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.countKind(kind)
}

func (s *Store) countKind(kind domain.Kind) (int, error) {
	prefix := []byte(kind.String() + ":")
	idxMarker := kind.String() + ":idx:"

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if strings.HasPrefix(string(it.Item().Key()), idxMarker) {
				continue
			}
			count++
		}
		return nil
	})
	return count, err
}

// RawEntry is one raw key/value pair, used by snapshot export and restore.
// Capturing raw pairs (index keys included) lets restore replace primary
// contents wholesale without re-deriving anything.
type RawEntry struct {
	Key   string         `json:"key"`
	Value jsontext.Value `json:"value"`
}

// ExportRaw returns every key/value pair in the store.
func (s *Store) ExportRaw(ctx context.Context) ([]RawEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []RawEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(val []byte) error {
				entries = append(entries, RawEntry{Key: key, Value: jsontext.Value(append([]byte(nil), val...))})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export raw entries: %w", err)
	}
	return entries, nil
}

// ImportRaw writes raw key/value pairs. Callers that want replace semantics
// must clear the store first; ImportRaw itself only upserts.
func (s *Store) ImportRaw(ctx context.Context, entries []RawEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entries {
		if err := wb.Set([]byte(e.Key), []byte(e.Value)); err != nil {
			return fmt.Errorf("import raw entry %s: %w", e.Key, err)
		}
	}
	return wb.Flush()
}

// DropAll removes every key in the store, including index keys.
func (s *Store) DropAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.DropAll()
}

// isNotFound reports whether err is Badger's key-not-found.
func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
)

// Entity provides generic store operations for one kind.
//
// Writes are idempotent upserts: a repeat write with the same id fully
// replaces the prior item, timestamps included. There is no merge or partial
// update path.
type Entity[T any] struct {
	store   *Store
	kind    domain.Kind
	prefix  string
	indexes []Index[T]
}

// Index defines a denormalized secondary index on an entity. Index keys are
// non-unique: each (value, id) pair gets its own key so multiple records can
// share an index value.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// ScanOptions controls one page of a paginated scan.
type ScanOptions struct {
	// Limit caps the page size; 0 means no limit (single full page).
	Limit int
	// ContinuationToken resumes after the id returned in Page.NextToken.
	ContinuationToken string
}

// Page is one page of a paginated scan.
type Page[T any] struct {
	Items []*T
	IDs   []string
	// NextToken is empty when the scan is exhausted.
	NextToken string
}

// NewEntity creates a new Entity instance for type T under its kind prefix.
func NewEntity[T any](s *Store, kind domain.Kind) *Entity[T] {
	return &Entity[T]{
		store:  s,
		kind:   kind,
		prefix: kind.String() + ":",
	}
}

// WithIndex adds a denormalized secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

// Kind returns the entity's kind.
func (e *Entity[T]) Kind() domain.Kind {
	return e.kind
}

func (e *Entity[T]) primaryKey(id string) string {
	return e.prefix + id
}

func (e *Entity[T]) indexKey(name, value, id string) string {
	return e.prefix + "idx:" + name + ":" + value + ":" + id
}

// Upsert writes an entity, fully replacing any prior item with the same id.
// Old index keys are removed before the new ones are written so the index
// set always reflects exactly the stored item.
func (e *Entity[T]) Upsert(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	key := e.primaryKey(id)

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Clean up index keys of a prior version, if any.
		item, err := txn.Get([]byte(key))
		if err == nil {
			var old T
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &old)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal prior entity: %w", err)
			}
			for _, idx := range e.indexes {
				for _, value := range idx.keyGen(&old) {
					if err := txn.Delete([]byte(e.indexKey(idx.name, value, id))); err != nil {
						return fmt.Errorf("failed to delete old index key: %w", err)
					}
				}
			}
		} else if !isNotFound(err) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, value := range idx.keyGen(entity) {
				if err := txn.Set([]byte(e.indexKey(idx.name, value, id)), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns a NOT_FOUND domain error if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(e.primaryKey(id)))
		if isNotFound(err) {
			return domainerrors.NotFoundf("%s %s not found", e.kind, id)
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete deletes an entity and its index keys by ID.
// Idempotent: no error if the entity does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.primaryKey(id)
	return e.store.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		var entity T
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		for _, idx := range e.indexes {
			for _, value := range idx.keyGen(&entity) {
				if err := txn.Delete([]byte(e.indexKey(idx.name, value, id))); err != nil {
					return fmt.Errorf("failed to delete index key: %w", err)
				}
			}
		}

		return txn.Delete([]byte(key))
	})
}

// BatchDelete deletes a set of entities and their index keys.
func (e *Entity[T]) BatchDelete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := e.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Scan returns one page of entities in key order, following the
// continuation token from a prior page. Index keys are skipped.
func (e *Entity[T]) Scan(ctx context.Context, opts ScanOptions) (*Page[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &Page[T]{}
	idxMarker := e.prefix + "idx:"

	err := e.store.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(e.prefix)
		iterOpts.PrefetchValues = true

		it := txn.NewIterator(iterOpts)
		defer it.Close()

		seek := []byte(e.prefix)
		if opts.ContinuationToken != "" {
			// Resume just past the last id of the previous page.
			seek = []byte(e.primaryKey(opts.ContinuationToken) + "\x00")
		}

		for it.Seek(seek); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := string(it.Item().Key())
			if strings.HasPrefix(key, idxMarker) {
				continue
			}
			id := key[len(e.prefix):]

			if opts.Limit > 0 && len(page.Items) >= opts.Limit {
				// More primary keys remain beyond this page.
				page.NextToken = page.IDs[len(page.IDs)-1]
				return nil
			}

			var entity T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entity)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", key, err)
			}

			page.Items = append(page.Items, &entity)
			page.IDs = append(page.IDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// All drains the scan into a full id->entity map, following continuation
// tokens until exhausted.
func (e *Entity[T]) All(ctx context.Context, pageSize int) (map[string]*T, error) {
	result := make(map[string]*T)
	token := ""
	for {
		page, err := e.Scan(ctx, ScanOptions{Limit: pageSize, ContinuationToken: token})
		if err != nil {
			return nil, err
		}
		for i, id := range page.IDs {
			result[id] = page.Items[i]
		}
		if page.NextToken == "" {
			return result, nil
		}
		token = page.NextToken
	}
}

// Count returns the number of primary items of this kind.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	return e.store.CountKind(ctx, e.kind)
}

// Clear drains the kind completely: paginated scan plus batched delete until
// nothing remains. Idempotent on an already-empty store.
func (e *Entity[T]) Clear(ctx context.Context) (int, error) {
	deleted := 0
	for {
		page, err := e.Scan(ctx, ScanOptions{Limit: 100})
		if err != nil {
			return deleted, err
		}
		if len(page.IDs) == 0 {
			return deleted, nil
		}
		if err := e.BatchDelete(ctx, page.IDs); err != nil {
			return deleted, err
		}
		deleted += len(page.IDs)
	}
}

// GetByIndex returns all entities whose index value matches.
// The value is normalized the same way index keys are written.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(e.prefix + "idx:" + indexName + ":" + normalizeIndexValue(value) + ":")

	var ids []string
	err := e.store.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		iterOpts.PrefetchValues = true

		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(ids))
	for _, id := range ids {
		entity, err := e.Get(ctx, id)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue // index key outlived the record; skip
			}
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

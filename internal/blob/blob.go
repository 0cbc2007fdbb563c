// Package blob abstracts where snapshot payloads live. The engine only needs
// write-once blobs with listable keys, so the interface stays deliberately
// small: a filesystem backend for real runs and a memory backend for tests.
package blob

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("blob: not found")

// ErrExists is returned when writing a key that already exists. Blobs are
// immutable; there is no overwrite.
var ErrExists = errors.New("blob: already exists")

// Info describes one stored blob.
type Info struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a write-once blob store.
type Store interface {
	// Put stores data under key. Fails with ErrExists if the key is taken.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns info for all blobs, newest first.
	List(ctx context.Context) ([]Info, error)
	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

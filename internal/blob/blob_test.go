package blob

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// both backends must behave identically against the Store contract.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"filesystem": fs,
		"memory":     NewMemory(),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, "snap-1", []byte("payload")))

			data, err := s.Get(ctx, "snap-1")
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), data)
		})
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, "snap-1", []byte("first")))

			err := s.Put(ctx, "snap-1", []byte("second"))
			assert.ErrorIs(t, err, ErrExists)

			// The original payload is untouched.
			data, err := s.Get(ctx, "snap-1")
			require.NoError(t, err)
			assert.Equal(t, []byte("first"), data)
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	// Filesystem mtimes need real delays to order reliably, so only the
	// memory backend is exercised here.
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "older", []byte("a")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Put(ctx, "newer", []byte("bb")))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "newer", infos[0].Key)
	assert.Equal(t, "older", infos[1].Key)
	assert.Equal(t, int64(2), infos[0].Size)
}

func TestDeleteIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, "snap-1", []byte("x")))
			require.NoError(t, s.Delete(ctx, "snap-1"))
			require.NoError(t, s.Delete(ctx, "snap-1"))

			_, err := s.Get(ctx, "snap-1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			assert.Error(t, s.Put(ctx, "../escape", []byte("x")))
			assert.Error(t, s.Put(ctx, "", []byte("x")))
		})
	}
}

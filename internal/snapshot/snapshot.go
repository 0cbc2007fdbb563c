// Package snapshot captures and restores the raw contents of the primary
// store. A snapshot is an immutable, point-in-time JSONL export of every
// key/value pair; restoring replaces the store's contents wholesale and
// leaves the search index untouched. Bringing the index back in line is an
// explicit rebuild, never a side effect of restore.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkatlas/datakit/internal/blob"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/id"
	"github.com/inkatlas/datakit/internal/store"
)

// Manager creates, lists, and restores snapshots of the primary store.
type Manager struct {
	store  *store.Store
	blobs  blob.Store
	logger *slog.Logger
}

// New builds a snapshot manager backed by the given blob store.
func New(s *store.Store, blobs blob.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  s,
		blobs:  blobs,
		logger: logger.With("component", "snapshot"),
	}
}

// Create exports the primary store to a new snapshot. With an empty key a
// fresh timestamped key is generated; an explicit key that already exists is
// an error, since snapshots are immutable once written.
func (m *Manager) Create(ctx context.Context, key string) (string, error) {
	if key == "" {
		// Timestamp prefix keeps listings in creation order; the nanoid part
		// keeps same-second snapshots from colliding.
		generated, err := id.Generate(time.Now().UTC().Format("20060102T150405"))
		if err != nil {
			return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "generate snapshot key")
		}
		key = generated + ".jsonl"
	}

	entries, err := m.store.ExportRaw(ctx)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "export primary store")
	}

	var buf bytes.Buffer
	for i := range entries {
		line, err := json.Marshal(&entries[i])
		if err != nil {
			return "", domainerrors.Wrapf(err, domainerrors.CodeInternal, "encode entry %s", entries[i].Key)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := m.blobs.Put(ctx, key, buf.Bytes()); err != nil {
		if domainerrors.Is(err, blob.ErrExists) {
			return "", domainerrors.Conflict(fmt.Sprintf("snapshot %s already exists", key))
		}
		return "", domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "store snapshot %s", key)
	}

	m.logger.Info("snapshot created", "key", key, "entries", len(entries), "bytes", buf.Len())
	return key, nil
}

// List returns available snapshots, newest first.
func (m *Manager) List(ctx context.Context) ([]blob.Info, error) {
	infos, err := m.blobs.List(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "list snapshots")
	}
	return infos, nil
}

// Restore replaces the primary store's contents with a snapshot. With an
// empty key the newest snapshot is used. The search index is not touched:
// after a restore it reflects the pre-restore world until rebuilt.
func (m *Manager) Restore(ctx context.Context, key string) (string, error) {
	if key == "" {
		infos, err := m.List(ctx)
		if err != nil {
			return "", err
		}
		if len(infos) == 0 {
			return "", domainerrors.NotFound("no snapshots available")
		}
		key = infos[0].Key
	}

	data, err := m.blobs.Get(ctx, key)
	if err != nil {
		if domainerrors.Is(err, blob.ErrNotFound) {
			return "", domainerrors.NotFoundf("snapshot %s not found", key)
		}
		return "", domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "read snapshot %s", key)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return "", domainerrors.Wrapf(err, domainerrors.CodeInternal, "decode snapshot %s", key)
	}

	if err := m.store.DropAll(ctx); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeStoreUnavailable, "clear primary store")
	}
	if err := m.store.ImportRaw(ctx, entries); err != nil {
		return "", domainerrors.Wrapf(err, domainerrors.CodeStoreUnavailable, "import snapshot %s", key)
	}

	m.logger.Info("snapshot restored", "key", key, "entries", len(entries))
	return key, nil
}

func decodeEntries(data []byte) ([]store.RawEntry, error) {
	var entries []store.RawEntry
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var entry store.RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

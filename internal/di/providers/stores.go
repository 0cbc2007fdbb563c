package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkatlas/datakit/internal/blob"
	"github.com/inkatlas/datakit/internal/config"
	"github.com/inkatlas/datakit/internal/logger"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/store"
)

// StoreHandle wraps the primary store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Store.Close()
}

// ProvideStore provides the primary key/value store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Primary.Path, log.Logger)
	if err != nil {
		return nil, err
	}
	log.Info("primary store opened", "path", cfg.Primary.Path)
	return &StoreHandle{Store: s}, nil
}

// IndexHandle wraps the search index with shutdown capability.
type IndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *IndexHandle) Shutdown() error {
	return h.Index.Close()
}

// ProvideSearchIndex provides the artist search index.
func ProvideSearchIndex(i do.Injector) (*IndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.Open(search.Options{
		DataPath: cfg.Search.Path,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}
	log.Info("search index opened", "path", cfg.Search.Path)
	return &IndexHandle{Index: idx}, nil
}

// ProvideBlobStore provides the snapshot blob store.
func ProvideBlobStore(i do.Injector) (blob.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return blob.NewFilesystem(cfg.Snapshots.Dir)
}

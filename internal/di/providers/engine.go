package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkatlas/datakit/internal/blob"
	"github.com/inkatlas/datakit/internal/config"
	"github.com/inkatlas/datakit/internal/dataset"
	"github.com/inkatlas/datakit/internal/health"
	"github.com/inkatlas/datakit/internal/logger"
	"github.com/inkatlas/datakit/internal/reconcile"
	"github.com/inkatlas/datakit/internal/reset"
	"github.com/inkatlas/datakit/internal/scenario"
	"github.com/inkatlas/datakit/internal/seeder"
	"github.com/inkatlas/datakit/internal/snapshot"
	"github.com/inkatlas/datakit/internal/validate"
)

// ProvideDataset loads the configured dataset file or generates the
// deterministic default.
func ProvideDataset(i do.Injector) (*dataset.Dataset, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Dataset.File != "" {
		ds, err := dataset.Load(cfg.Dataset.File)
		if err != nil {
			return nil, err
		}
		log.Info("dataset loaded", "file", cfg.Dataset.File, "artists", len(ds.Artists))
		return ds, nil
	}

	ds := dataset.Generate(cfg.Dataset.GenerateArtists)
	log.Info("dataset generated",
		"artists", len(ds.Artists),
		"studios", len(ds.Studios),
		"styles", len(ds.Styles))
	return ds, nil
}

// ProvideScenarioRegistry provides the scenario registry, with any custom
// allowlist scenarios loaded on top of the built-ins.
func ProvideScenarioRegistry(i do.Injector) (*scenario.Registry, error) {
	cfg := do.MustInvoke[*config.Config](i)

	registry := scenario.NewRegistry()
	if cfg.Dataset.ScenarioFile != "" {
		if err := registry.LoadFile(cfg.Dataset.ScenarioFile); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// ProvideValidator provides the record validator.
func ProvideValidator(i do.Injector) (*validate.Validator, error) {
	return validate.New(), nil
}

// ProvideWriter provides the dual-store writer.
func ProvideWriter(i do.Injector) (*seeder.Writer, error) {
	s := do.MustInvoke[*StoreHandle](i)
	idx := do.MustInvoke[*IndexHandle](i)
	v := do.MustInvoke[*validate.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return seeder.NewWriter(s.Store, idx.Index, v, log.Logger), nil
}

// ProvideReconciler provides the consistency reconciler.
func ProvideReconciler(i do.Injector) (*reconcile.Reconciler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	s := do.MustInvoke[*StoreHandle](i)
	idx := do.MustInvoke[*IndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return reconcile.New(s.Store, idx.Index, cfg.Search.PageSize, log.Logger), nil
}

// ProvideSnapshotManager provides the snapshot manager.
func ProvideSnapshotManager(i do.Injector) (*snapshot.Manager, error) {
	s := do.MustInvoke[*StoreHandle](i)
	blobs := do.MustInvoke[blob.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return snapshot.New(s.Store, blobs, log.Logger), nil
}

// ProvideResetOrchestrator provides the reset orchestrator.
func ProvideResetOrchestrator(i do.Injector) (*reset.Orchestrator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	s := do.MustInvoke[*StoreHandle](i)
	idx := do.MustInvoke[*IndexHandle](i)
	blobs := do.MustInvoke[blob.Store](i)
	snapshots := do.MustInvoke[*snapshot.Manager](i)
	writer := do.MustInvoke[*seeder.Writer](i)
	ds := do.MustInvoke[*dataset.Dataset](i)
	registry := do.MustInvoke[*scenario.Registry](i)
	log := do.MustInvoke[*logger.Logger](i)

	return reset.New(s.Store, idx.Index, blobs, snapshots, writer, ds, registry, cfg.Search.PageSize, log.Logger), nil
}

// ProvideHealthMonitor provides the store health monitor.
func ProvideHealthMonitor(i do.Injector) (*health.Monitor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	s := do.MustInvoke[*StoreHandle](i)
	idx := do.MustInvoke[*IndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return health.NewMonitor(s.Store, idx.Index, health.Options{
		LatencyThreshold:       cfg.Health.LatencyThreshold,
		InconsistencyThreshold: cfg.Health.InconsistencyThreshold,
		Interval:               cfg.Health.Interval,
	}, log.Logger), nil
}

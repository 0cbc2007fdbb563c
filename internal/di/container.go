// Package di provides dependency injection configuration for the datakit
// lifecycle engine.
package di

import (
	"github.com/samber/do/v2"

	"github.com/inkatlas/datakit/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Stores
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideBlobStore)

	// Dataset and selection
	do.Provide(injector, providers.ProvideDataset)
	do.Provide(injector, providers.ProvideScenarioRegistry)

	// Lifecycle engine
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideWriter)
	do.Provide(injector, providers.ProvideReconciler)
	do.Provide(injector, providers.ProvideSnapshotManager)
	do.Provide(injector, providers.ProvideResetOrchestrator)
	do.Provide(injector, providers.ProvideHealthMonitor)

	return injector
}

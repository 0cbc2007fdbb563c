// Package providers contains dependency injection providers for the datakit
// lifecycle engine.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkatlas/datakit/internal/config"
	"github.com/inkatlas/datakit/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("starting datakit",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"primary_path", cfg.Primary.Path,
		"search_path", cfg.Search.Path,
	)

	return log, nil
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Primary: PrimaryConfig{
			Path: "/data/primary",
		},
		Search: SearchConfig{
			Path:     "/data/search",
			PageSize: 500,
		},
		Readiness: ReadinessConfig{Attempts: 30, Backoff: 2 * time.Second},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), "level %s should be valid", level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiredValues(t *testing.T) {
	cfg := validConfig()
	cfg.Primary.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Search.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Readiness.Attempts = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 500, cfg.Search.PageSize)
	assert.Equal(t, 50, cfg.Dataset.GenerateArtists)
	assert.Equal(t, 30, cfg.Readiness.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Readiness.Backoff)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval)
	assert.Equal(t, time.Second, cfg.Health.LatencyThreshold)

	// Paths default under the data root.
	assert.NotEmpty(t, cfg.Primary.Path)
	assert.NotEmpty(t, cfg.Search.Path)
	assert.NotEmpty(t, cfg.Snapshots.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SEARCH_PAGE_SIZE", "100")
	t.Setenv("HEALTH_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 100, cfg.Search.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Health.Interval)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")
	t.Setenv("HEALTH_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

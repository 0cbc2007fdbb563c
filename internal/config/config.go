// Package config provides configuration management with support for
// environment variables and .env files. Command-line overrides are applied by
// the CLI layer after loading.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the full engine configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Primary   PrimaryConfig
	Search    SearchConfig
	Snapshots SnapshotConfig
	Dataset   DatasetConfig
	Health    HealthConfig
	Readiness ReadinessConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// PrimaryConfig holds primary record store configuration.
type PrimaryConfig struct {
	// Path is the Badger data directory.
	Path string
}

// SearchConfig holds search index configuration.
type SearchConfig struct {
	// Path is the directory the Bleve index lives in.
	Path string
	// PageSize caps match-all enumeration pages during reconciliation.
	PageSize int
}

// SnapshotConfig holds snapshot store configuration.
type SnapshotConfig struct {
	// Dir is the filesystem blob root for snapshot exports.
	Dir string
}

// DatasetConfig holds canonical dataset configuration.
type DatasetConfig struct {
	// File is an optional JSON dataset to load instead of generating one.
	File string
	// ScenarioFile is an optional YAML file of allowlist scenarios.
	ScenarioFile string
	// GenerateArtists is the artist count for the generated dataset.
	GenerateArtists int
}

// HealthConfig holds health monitor configuration.
type HealthConfig struct {
	Interval               time.Duration
	LatencyThreshold       time.Duration
	InconsistencyThreshold int
}

// ReadinessConfig holds store readiness wait configuration.
type ReadinessConfig struct {
	Attempts int
	Backoff  time.Duration
}

// Load builds configuration with precedence:
// 1. Environment variables.
// 2. .env file.
// 3. Default values.
func Load() (*Config, error) {
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(getEnv("ENV_FILE", ".env"))

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Primary: PrimaryConfig{
			Path: getEnv("PRIMARY_PATH", ""),
		},
		Search: SearchConfig{
			Path:     getEnv("SEARCH_PATH", ""),
			PageSize: getIntEnv("SEARCH_PAGE_SIZE", 500),
		},
		Snapshots: SnapshotConfig{
			Dir: getEnv("SNAPSHOT_DIR", ""),
		},
		Dataset: DatasetConfig{
			File:            getEnv("DATASET_FILE", ""),
			ScenarioFile:    getEnv("SCENARIO_FILE", ""),
			GenerateArtists: getIntEnv("DATASET_ARTISTS", 50),
		},
		Readiness: ReadinessConfig{
			Attempts: getIntEnv("READY_ATTEMPTS", 30),
		},
	}

	var err error
	if cfg.Health.Interval, err = getDurationEnv("HEALTH_INTERVAL", "30s"); err != nil {
		return nil, err
	}
	if cfg.Health.LatencyThreshold, err = getDurationEnv("HEALTH_LATENCY_THRESHOLD", "1s"); err != nil {
		return nil, err
	}
	cfg.Health.InconsistencyThreshold = getIntEnv("HEALTH_INCONSISTENCY_THRESHOLD", 0)
	if cfg.Readiness.Backoff, err = getDurationEnv("READY_BACKOFF", "2s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Primary.Path == "" {
		return errors.New("primary store path cannot be empty after expansion")
	}
	if c.Search.PageSize <= 0 {
		return errors.New("search page size must be positive")
	}
	if c.Readiness.Attempts <= 0 {
		return errors.New("readiness attempts must be positive")
	}

	return nil
}

// expandDataPaths expands ~ and fills path defaults under a common data root.
func (c *Config) expandDataPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	dataRoot := filepath.Join(homeDir, "inkatlas", "data")

	if c.Primary.Path, err = expandPath(c.Primary.Path, filepath.Join(dataRoot, "primary")); err != nil {
		return err
	}
	if c.Search.Path, err = expandPath(c.Search.Path, filepath.Join(dataRoot, "search")); err != nil {
		return err
	}
	if c.Snapshots.Dir, err = expandPath(c.Snapshots.Dir, filepath.Join(dataRoot, "snapshots")); err != nil {
		return err
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getIntEnv returns an int from the environment or a default.
func getIntEnv(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(v, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getDurationEnv returns a duration from the environment or a default.
func getDurationEnv(key, defaultValue string) (time.Duration, error) {
	v := getEnv(key, defaultValue)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}

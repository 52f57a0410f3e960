// Package config loads and validates the nextrun configuration.
// It reads TOML files, fills defaults, expands environment variables and
// reports every validation problem at once.
//
// Configuration structure:
//   - [engine]: default timezone, display locale and as-of holidays
//   - [storage]: definition store location
//   - [dashboard]: refresh interval and worker pool sizing
//   - [server]: HTTP read API
//   - [metrics]: Prometheus exposition
//   - [logging]: level, format and output
//
// String values can reference environment variables with ${VAR} or
// ${VAR:default}, for example: path = "${NEXTRUN_STORE:~/.nextrun/schedules.jsonl}"
package config

import (
	"time"

	"github.com/aatumaykin/nextrun/internal/logger"
)

// Config is the root configuration.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Storage   StorageConfig   `toml:"storage"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Server    ServerConfig    `toml:"server"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Logging   LoggingConfig   `toml:"logging"`
}

// EngineConfig holds resolution and presentation defaults.
type EngineConfig struct {
	// DefaultTimezone is used for the as-of date and for CLI input without an offset
	DefaultTimezone string `toml:"default_timezone"`
	// Locale selects the absolute date layout (BCP 47, e.g. "en-GB")
	Locale string `toml:"locale"`
	// Holidays are skipped by the as-of date in addition to weekends
	Holidays []string `toml:"holidays"`
}

// StorageConfig points at the JSONL definition store.
type StorageConfig struct {
	Path string `toml:"path"`
}

// DashboardConfig controls the periodic re-resolution of stored definitions.
type DashboardConfig struct {
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
	Workers                int `toml:"workers"`
	QueueSize              int `toml:"queue_size"`
	TaskTimeoutSeconds     int `toml:"task_timeout_seconds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// FilePath returns Path with a leading ~ expanded.
func (c StorageConfig) FilePath() string {
	return expandHome(c.Path)
}

// RefreshInterval returns the dashboard refresh period.
func (c DashboardConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// TaskTimeout returns the per-definition resolution timeout.
func (c DashboardConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}

// LoggerConfig converts the section into logger.Config.
func (c LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Level, Format: c.Format, Output: c.Output}
}

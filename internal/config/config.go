package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/wasilibs/go-re2"
	"golang.org/x/text/language"

	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/schedule"
)

var namespacePattern = re2.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load reads a TOML file, applies defaults and expands environment
// variables. It does not validate; call Validate for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)
	return &cfg, nil
}

// Write encodes c as TOML to path, creating parent directories. An existing
// file is left untouched unless overwrite is set.
func Write(c *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate returns every problem found in c.
func (c *Config) Validate() []error {
	var errs []error

	if _, err := time.LoadLocation(c.Engine.DefaultTimezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid engine.default_timezone: %s", c.Engine.DefaultTimezone))
	}
	if _, err := language.Parse(c.Engine.Locale); err != nil {
		errs = append(errs, fmt.Errorf("invalid engine.locale: %s", c.Engine.Locale))
	}
	for _, h := range c.Engine.Holidays {
		if _, err := schedule.ParseDate(h); err != nil {
			errs = append(errs, fmt.Errorf("invalid engine.holidays entry %q: expected YYYY-MM-DD", h))
		}
	}

	if err := validatePath(c.Storage.Path, "storage.path"); err != nil {
		errs = append(errs, err)
	}

	if c.Dashboard.RefreshIntervalSeconds < 1 {
		errs = append(errs, fmt.Errorf("dashboard.refresh_interval_seconds must be >= 1"))
	}
	if c.Dashboard.Workers < 1 {
		errs = append(errs, fmt.Errorf("dashboard.workers must be >= 1"))
	}
	if c.Dashboard.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("dashboard.queue_size must be >= 1"))
	}
	if c.Dashboard.TaskTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("dashboard.task_timeout_seconds must be >= 1"))
	}

	if c.Server.Enabled && c.Server.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("server.listen_addr is required when server is enabled"))
	}

	if c.Metrics.Enabled && !namespacePattern.MatchString(c.Metrics.Namespace) {
		errs = append(errs, fmt.Errorf("invalid metrics.namespace: %q", c.Metrics.Namespace))
	}

	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}

	return errs
}

// Location loads the default timezone.
func (c EngineConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid engine.default_timezone: %w", err)
	}
	return loc, nil
}

// HolidaySet parses the configured holidays.
func (c EngineConfig) HolidaySet() (schedule.ExclusionSet, error) {
	dates := make([]schedule.Date, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		d, err := schedule.ParseDate(h)
		if err != nil {
			return nil, fmt.Errorf("invalid engine.holidays entry: %w", err)
		}
		dates = append(dates, d)
	}
	return schedule.NewExclusionSet(dates), nil
}

func validatePath(path, field string) error {
	if path == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains a path traversal sequence", field)
	}
	return nil
}

// expandEnvVars expands ${VAR:default} and ~ in string fields.
func expandEnvVars(c *Config) {
	c.Engine.DefaultTimezone = expandEnv(c.Engine.DefaultTimezone)
	c.Engine.Locale = expandEnv(c.Engine.Locale)

	c.Storage.Path = expandHome(expandEnv(c.Storage.Path))

	c.Server.ListenAddr = expandEnv(c.Server.ListenAddr)

	if c.Logging.Output != "stdout" && c.Logging.Output != "stderr" {
		c.Logging.Output = expandHome(expandEnv(c.Logging.Output))
	}
}

// expandEnv expands a value of the form ${VAR} or ${VAR:default}. Other
// values are returned unchanged.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}
	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	key, fallback, hasDefault := strings.Cut(s[2:end], ":")
	if val := os.Getenv(key); val != "" {
		return val + s[end+1:]
	}
	if hasDefault {
		return fallback + s[end+1:]
	}
	return s[end+1:]
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

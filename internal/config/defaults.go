package config

const (
	DefaultTimezone        = "UTC"
	DefaultLocale          = "en-US"
	DefaultStoragePath     = "~/.nextrun/schedules.jsonl"
	DefaultRefreshInterval = 30
	DefaultWorkers         = 4
	DefaultQueueSize       = 64
	DefaultTaskTimeout     = 5
	DefaultListenAddr      = "127.0.0.1:8089"
	DefaultNamespace       = "nextrun"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset fields with their defaults.
func applyDefaults(c *Config) {
	if c.Engine.DefaultTimezone == "" {
		c.Engine.DefaultTimezone = DefaultTimezone
	}
	if c.Engine.Locale == "" {
		c.Engine.Locale = DefaultLocale
	}

	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}

	if c.Dashboard.RefreshIntervalSeconds == 0 {
		c.Dashboard.RefreshIntervalSeconds = DefaultRefreshInterval
	}
	if c.Dashboard.Workers == 0 {
		c.Dashboard.Workers = DefaultWorkers
	}
	if c.Dashboard.QueueSize == 0 {
		c.Dashboard.QueueSize = DefaultQueueSize
	}
	if c.Dashboard.TaskTimeoutSeconds == 0 {
		c.Dashboard.TaskTimeoutSeconds = DefaultTaskTimeout
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

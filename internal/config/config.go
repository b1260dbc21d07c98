package config

import "time"

// Config is the top-level router configuration.
type Config struct {
	Listener      ListenerConfig      `yaml:"listener"`
	Observability ObservabilityConfig `yaml:"observability"`
	Routes        []Route             `yaml:"routes"`
}

// ListenerConfig configures the serving listener.
type ListenerConfig struct {
	Address        string          `yaml:"address"`
	Port           int             `yaml:"port"`
	ReadTimeout    Duration        `yaml:"readTimeout"`
	WriteTimeout   Duration        `yaml:"writeTimeout"`
	IdleTimeout    Duration        `yaml:"idleTimeout"`
	MaxHeaderBytes int             `yaml:"maxHeaderBytes"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig configures in-process request rate limiting on the
// listener. PerClient keys the limit by client IP instead of sharing
// one bucket across all callers.
type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled"`
	RPS       int  `yaml:"rps"`
	Burst     int  `yaml:"burst"`
	PerClient bool `yaml:"perClient"`
}

// ObservabilityConfig groups logging and metrics settings.
type ObservabilityConfig struct {
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig configures the metrics/health listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Route declares one route: a path template and the handler name to
// invoke per HTTP verb.
type Route struct {
	Path    string            `yaml:"path"`
	Methods map[string]string `yaml:"methods"`
}

// DefaultConfig returns a configuration with sensible defaults and
// no routes.
func DefaultConfig() *Config {
	return &Config{
		Listener: ListenerConfig{
			Port:           8080,
			ReadTimeout:    Duration(30 * time.Second),
			WriteTimeout:   Duration(30 * time.Second),
			IdleTimeout:    Duration(120 * time.Second),
			MaxHeaderBytes: 1 << 20,
		},
		Observability: ObservabilityConfig{
			Log: LogConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Port:    9090,
				Path:    "/metrics",
			},
		},
	}
}

// applyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Listener.Port == 0 {
		c.Listener.Port = def.Listener.Port
	}
	if c.Listener.ReadTimeout == 0 {
		c.Listener.ReadTimeout = def.Listener.ReadTimeout
	}
	if c.Listener.WriteTimeout == 0 {
		c.Listener.WriteTimeout = def.Listener.WriteTimeout
	}
	if c.Listener.IdleTimeout == 0 {
		c.Listener.IdleTimeout = def.Listener.IdleTimeout
	}
	if c.Listener.MaxHeaderBytes == 0 {
		c.Listener.MaxHeaderBytes = def.Listener.MaxHeaderBytes
	}
	if c.Listener.RateLimit.Enabled && c.Listener.RateLimit.Burst == 0 {
		c.Listener.RateLimit.Burst = c.Listener.RateLimit.RPS
	}

	if c.Observability.Log.Level == "" {
		c.Observability.Log.Level = def.Observability.Log.Level
	}
	if c.Observability.Log.Format == "" {
		c.Observability.Log.Format = def.Observability.Log.Format
	}
	if c.Observability.Log.Output == "" {
		c.Observability.Log.Output = def.Observability.Log.Output
	}
	if c.Observability.Metrics.Port == 0 {
		c.Observability.Metrics.Port = def.Observability.Metrics.Port
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = def.Observability.Metrics.Path
	}
}

// Package config provides flowmill's configuration loading: defaults,
// YAML file, then environment variable overrides, in that precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete flowmill configuration.
type Config struct {
	// Engine configures execution behavior.
	Engine EngineConfig `yaml:"engine"`
	// Log configures logging.
	Log LogConfig `yaml:"log"`
	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig configures the execution engine.
type EngineConfig struct {
	// DefaultNodeTimeout bounds nodes that declare no timeout; 0 disables.
	DefaultNodeTimeout time.Duration `yaml:"default_node_timeout"`
	// MaxConcurrentRuns caps runs in flight; 0 means unlimited.
	MaxConcurrentRuns int64 `yaml:"max_concurrent_runs"`
	// DispatchRateLimit throttles node dispatches per second; 0 disables.
	DispatchRateLimit float64 `yaml:"dispatch_rate_limit"`
	// DispatchBurst is the rate limiter burst size.
	DispatchBurst int `yaml:"dispatch_burst"`
	// PreflightValidation runs the validator before every execution.
	PreflightValidation bool `yaml:"preflight_validation"`
	// SimulatedMinDelay is the simulated processor's lower latency bound.
	SimulatedMinDelay time.Duration `yaml:"simulated_min_delay"`
	// SimulatedMaxDelay is the simulated processor's upper latency bound.
	SimulatedMaxDelay time.Duration `yaml:"simulated_max_delay"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics exposure.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultNodeTimeout: 30 * time.Second,
			MaxConcurrentRuns:  0,
			DispatchRateLimit:  0,
			DispatchBurst:      1,
			SimulatedMinDelay:  500 * time.Millisecond,
			SimulatedMaxDelay:  1500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "flowmill",
		},
	}
}

// Load builds a configuration from defaults, an optional YAML file, and
// FLOWMILL_* environment variable overrides, in that precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration fields from FLOWMILL_* variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("FLOWMILL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FLOWMILL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FLOWMILL_DEFAULT_NODE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FLOWMILL_DEFAULT_NODE_TIMEOUT: %w", err)
		}
		cfg.Engine.DefaultNodeTimeout = d
	}
	if v := os.Getenv("FLOWMILL_MAX_CONCURRENT_RUNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse FLOWMILL_MAX_CONCURRENT_RUNS: %w", err)
		}
		cfg.Engine.MaxConcurrentRuns = n
	}
	if v := os.Getenv("FLOWMILL_DISPATCH_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse FLOWMILL_DISPATCH_RATE_LIMIT: %w", err)
		}
		cfg.Engine.DispatchRateLimit = f
	}
	if v := os.Getenv("FLOWMILL_PREFLIGHT_VALIDATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse FLOWMILL_PREFLIGHT_VALIDATION: %w", err)
		}
		cfg.Engine.PreflightValidation = b
	}
	if v := os.Getenv("FLOWMILL_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse FLOWMILL_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = b
	}
	return nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	if c.Engine.MaxConcurrentRuns < 0 {
		return fmt.Errorf("max_concurrent_runs must be >= 0")
	}
	if c.Engine.DispatchRateLimit < 0 {
		return fmt.Errorf("dispatch_rate_limit must be >= 0")
	}
	if c.Engine.SimulatedMaxDelay < c.Engine.SimulatedMinDelay {
		return fmt.Errorf("simulated_max_delay must be >= simulated_min_delay")
	}
	return nil
}

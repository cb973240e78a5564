// Package config defines the construction-time configuration of a queue
// instance and its loading from JSON or YAML files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/fsq/errors"
	"github.com/c360/fsq/pkg/retry"
)

// Config represents the complete configuration of one queue instance.
// All thresholds have working defaults; only WorkingDirectory is required.
type Config struct {
	// Name identifies the queue in logs and metrics. Defaults to the base
	// name of the working directory.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// WorkingDirectory is the flat directory holding all queue files.
	WorkingDirectory string `json:"working_directory" yaml:"working_directory"`

	// Separator is the single byte written after each message payload.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	Finalize FinalizeConfig `json:"finalize" yaml:"finalize"`
	Purge    PurgeConfig    `json:"purge" yaml:"purge"`
	Retry    RetryConfig    `json:"retry" yaml:"retry"`

	// DetachOnShutdown leaves the worker goroutine to finish on its own
	// instead of joining it during Shutdown.
	DetachOnShutdown bool `json:"detach_on_shutdown,omitempty" yaml:"detach_on_shutdown,omitempty"`
}

// FinalizeConfig parameterizes the simple finalization policy. Sizes are
// bytes, ages milliseconds. The backlog regime applies once finalized files
// are queued.
type FinalizeConfig struct {
	RealtimeMaxBytes uint64 `json:"realtime_max_bytes" yaml:"realtime_max_bytes"`
	RealtimeMaxAgeMs int64  `json:"realtime_max_age_ms" yaml:"realtime_max_age_ms"`
	BacklogMaxBytes  uint64 `json:"backlog_max_bytes" yaml:"backlog_max_bytes"`
	BacklogMaxAgeMs  int64  `json:"backlog_max_age_ms" yaml:"backlog_max_age_ms"`
}

// PurgeConfig parameterizes the purge policy ceilings.
type PurgeConfig struct {
	MaxTotalBytes uint64 `json:"max_total_bytes" yaml:"max_total_bytes"`
	MaxFiles      int    `json:"max_files" yaml:"max_files"`
}

// RetryConfig parameterizes the delivery backoff schedule.
type RetryConfig struct {
	InitialDelayMs int64   `json:"initial_delay_ms" yaml:"initial_delay_ms"`
	MaxDelayMs     int64   `json:"max_delay_ms" yaml:"max_delay_ms"`
	Multiplier     float64 `json:"multiplier" yaml:"multiplier"`
	Jitter         bool    `json:"jitter" yaml:"jitter"`
}

// ToRetryConfig converts the file-level retry settings to the retry
// framework's Config type.
func (rc RetryConfig) ToRetryConfig() retry.Config {
	return retry.Config{
		InitialDelay: time.Duration(rc.InitialDelayMs) * time.Millisecond,
		MaxDelay:     time.Duration(rc.MaxDelayMs) * time.Millisecond,
		Multiplier:   rc.Multiplier,
		AddJitter:    rc.Jitter,
	}
}

// DefaultConfig returns a configuration with stock thresholds and no working
// directory. Callers must set WorkingDirectory before use.
func DefaultConfig() Config {
	return Config{
		Separator: "\n",
		Finalize: FinalizeConfig{
			RealtimeMaxBytes: 10 * 1024,
			RealtimeMaxAgeMs: 10 * 60 * 1000,
			BacklogMaxBytes:  100 * 1024,
			BacklogMaxAgeMs:  24 * 60 * 60 * 1000,
		},
		Purge: PurgeConfig{
			MaxTotalBytes: 1024 * 1024 * 1024,
			MaxFiles:      1000,
		},
		Retry: RetryConfig{
			InitialDelayMs: 1000,
			MaxDelayMs:     10 * 60 * 1000,
			Multiplier:     2.0,
			Jitter:         true,
		},
	}
}

// QueueName returns Name, falling back to the base of the working directory.
func (c Config) QueueName() string {
	if c.Name != "" {
		return c.Name
	}
	return filepath.Base(c.WorkingDirectory)
}

// SeparatorByte returns the configured separator as a byte. Validate
// guarantees the separator is at most one byte long; an empty separator
// yields a newline.
func (c Config) SeparatorByte() byte {
	if c.Separator == "" {
		return '\n'
	}
	return c.Separator[0]
}

// Clone creates a deep copy of the configuration
func (c Config) Clone() Config {
	data, err := json.Marshal(c)
	if err != nil {
		return c
	}
	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		return c
	}
	return clone
}

// Validate checks the configuration for completeness and consistency.
func (c Config) Validate() error {
	if c.WorkingDirectory == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig,
			"Config", "Validate", "working_directory is required")
	}
	if len(c.Separator) > 1 {
		return errors.WrapInvalid(
			fmt.Errorf("separator must be a single byte, got %q", c.Separator),
			"Config", "Validate", "checking separator")
	}
	if c.Finalize.RealtimeMaxBytes == 0 || c.Finalize.BacklogMaxBytes == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("finalize size thresholds must be positive"),
			"Config", "Validate", "checking finalize thresholds")
	}
	if c.Finalize.RealtimeMaxAgeMs <= 0 || c.Finalize.BacklogMaxAgeMs <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("finalize age thresholds must be positive"),
			"Config", "Validate", "checking finalize thresholds")
	}
	if c.Purge.MaxTotalBytes == 0 || c.Purge.MaxFiles <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("purge ceilings must be positive"),
			"Config", "Validate", "checking purge thresholds")
	}
	if c.Retry.InitialDelayMs <= 0 || c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
		return errors.WrapInvalid(
			fmt.Errorf("retry delays must satisfy 0 < initial <= max"),
			"Config", "Validate", "checking retry delays")
	}
	if c.Retry.Multiplier < 1.0 {
		return errors.WrapInvalid(
			fmt.Errorf("retry multiplier must be >= 1.0, got %g", c.Retry.Multiplier),
			"Config", "Validate", "checking retry multiplier")
	}
	return nil
}

// Load reads a configuration file, layering it over DefaultConfig. The
// format is chosen by extension: .yaml/.yml parse as YAML, everything else
// as JSON. The result is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "Config", "Load", "reading config file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, errors.WrapInvalid(err, "Config", "Load", "parsing config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

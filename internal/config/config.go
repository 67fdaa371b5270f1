package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Load when a value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// WatchConfig holds settings for the dataset file watcher.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Config holds all runtime configuration for a pivot run.
// Values are populated from .pivot.toml, PIVOT_* env vars, and CLI flags.
type Config struct {
	Dataset       string      `mapstructure:"dataset"`
	Column        string      `mapstructure:"column"`
	Strategy      string      `mapstructure:"strategy"`
	Probability   float64     `mapstructure:"probability"`
	Seed          uint64      `mapstructure:"seed"`
	FeatureX      string      `mapstructure:"feature_x"`
	FeatureY      string      `mapstructure:"feature_y"`
	Threshold     float64     `mapstructure:"threshold"`
	Target        string      `mapstructure:"target"`
	// Filter keeps only rows matching "column=value". Empty keeps all rows.
	Filter        string      `mapstructure:"filter"`
	// Clusters is the round-robin bucket count. Zero skips clustering.
	Clusters      int         `mapstructure:"clusters"`
	Workers       int         `mapstructure:"workers"`
	Format        string      `mapstructure:"format"`
	TelemetryPath string      `mapstructure:"telemetry_path"`
	DBPath        string      `mapstructure:"db_path"`
	Verbose       bool        `mapstructure:"verbose"`
	Watch         WatchConfig `mapstructure:"watch"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("dataset", "")
	viper.SetDefault("column", "Brand")
	viper.SetDefault("strategy", "chain")
	viper.SetDefault("probability", 0.5)
	viper.SetDefault("seed", 42)
	viper.SetDefault("feature_x", "Price")
	viper.SetDefault("feature_y", "Mileage")
	viper.SetDefault("threshold", 0.5)
	viper.SetDefault("target", "")
	viper.SetDefault("filter", "")
	viper.SetDefault("clusters", 0)
	viper.SetDefault("workers", 1)
	viper.SetDefault("format", "text")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("db_path", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("watch.debounce_ms", 100)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that numeric settings are within range and that Filter,
// when set, has the form column=value.
func (c Config) Validate() error {
	if c.Filter != "" {
		if col, _, ok := strings.Cut(c.Filter, "="); !ok || col == "" {
			return fmt.Errorf("%w: filter %q must have the form column=value", ErrInvalidConfig, c.Filter)
		}
	}
	switch {
	case c.Probability < 0 || c.Probability > 1:
		return fmt.Errorf("%w: probability %v not in [0,1]", ErrInvalidConfig, c.Probability)
	case c.Clusters < 0:
		return fmt.Errorf("%w: clusters must not be negative, got %d", ErrInvalidConfig, c.Clusters)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.Watch.DebounceMS <= 0:
		return fmt.Errorf("%w: watch.debounce_ms must be positive, got %d", ErrInvalidConfig, c.Watch.DebounceMS)
	}
	return nil
}

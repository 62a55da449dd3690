// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Player    PlayerConfig     `yaml:"player"`
	Radio     RadioConfig      `yaml:"radio"`
	Suppliers []SupplierConfig `yaml:"suppliers" validate:"required,min=1"`
	State     StateConfig      `yaml:"state"`
	Log       LogConfig        `yaml:"log"`
}

// PlayerConfig represents external playback process configuration.
type PlayerConfig struct {
	Command       string   `yaml:"command" default:"mpv"`
	ExtraArgs     []string `yaml:"extra_args"`
	StopTimeoutMs int      `yaml:"stop_timeout_ms" default:"3000" validate:"gte=100,lte=30000"`
}

// RadioConfig represents radio queue configuration.
type RadioConfig struct {
	InitialFetchCount int `yaml:"initial_fetch_count" default:"20" validate:"gte=1"`
	RefillThreshold   int `yaml:"refill_threshold" default:"5" validate:"gte=1"`
	RefillFetchCount  int `yaml:"refill_fetch_count" default:"15" validate:"gte=1"`
}

// SupplierConfig represents a single track supplier configuration.
type SupplierConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// StateConfig represents session persistence configuration.
type StateConfig struct {
	File string `yaml:"file" default:"~/.airwave/session.json"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for selected fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("AIRWAVE_STATE_FILE"); v != "" {
		c.State.File = v
	}
	if v := os.Getenv("AIRWAVE_FEED_URL"); v != "" {
		for i := range c.Suppliers {
			if c.Suppliers[i].Type == "radio" {
				if c.Suppliers[i].Settings == nil {
					c.Suppliers[i].Settings = map[string]any{}
				}
				c.Suppliers[i].Settings["base_url"] = v
				break
			}
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	if c.Radio.RefillThreshold > c.Radio.InitialFetchCount {
		return errors.Newf("refill_threshold (%d) must not exceed initial_fetch_count (%d)",
			c.Radio.RefillThreshold, c.Radio.InitialFetchCount)
	}
	return nil
}

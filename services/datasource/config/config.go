package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultListenAddress = "0.0.0.0:8080"
	defaultNumDataPoints = 1000
	defaultMaxDataPoints = 5000
)

// Config maps to the config.toml file for the data source service
type Config struct {
	ListenAddress           string `toml:"ListenAddress"`
	RetentionSeconds        int    `toml:"RetentionSeconds"`
	TimeZoneOffsetInSeconds int64  `toml:"TimeZoneOffsetInSeconds"`
	NumDataPoints           int64  `toml:"NumDataPoints"`
	MaxDataPoints           int64  `toml:"MaxDataPoints"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults sets the default value for every unset field
func (cfg *Config) ApplyDefaults() {
	if len(cfg.ListenAddress) == 0 {
		cfg.ListenAddress = defaultListenAddress
	}
	if cfg.NumDataPoints <= 0 {
		cfg.NumDataPoints = defaultNumDataPoints
	}
	if cfg.MaxDataPoints < cfg.NumDataPoints {
		cfg.MaxDataPoints = defaultMaxDataPoints
	}
	if cfg.MaxDataPoints < cfg.NumDataPoints {
		cfg.MaxDataPoints = cfg.NumDataPoints
	}
}

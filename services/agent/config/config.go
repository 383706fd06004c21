package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// MeterConfig defines how a single meter channel is read from its gateway
type MeterConfig struct {
	Channel         string `toml:"Channel"`
	URL             string `toml:"URL"`
	PowerPath       string `toml:"PowerPath"`
	VoltagePath     string `toml:"VoltagePath"`
	VoltAmperesPath string `toml:"VoltAmperesPath"`
}

// Config maps to the config.toml file for the meter agent
type Config struct {
	Name                   string        `toml:"Name"`
	QueryIntervalInSeconds uint32        `toml:"QueryIntervalInSeconds"`
	ReportEndpoint         string        `toml:"ReportEndpoint"`
	ReportTimeoutInSeconds uint32        `toml:"ReportTimeoutInSeconds"`
	Meters                 []MeterConfig `toml:"Meters"`
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

	return &cfg, nil
}

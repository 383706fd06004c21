package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultView                        = "power"
	defaultRealTimeIntervalInMs        = 60000
	defaultRequestTimeoutInSeconds     = 30
	defaultMinBackoffInMilliseconds    = 1000
	defaultMaxBackoffInMilliseconds    = 300000
	defaultPendingRetryInMilliseconds  = 100
	defaultDebounceInMilliseconds      = 1000
	defaultStalenessInMinutes          = 60
	defaultErrorLogCapacity            = 20
	defaultRefreshScreenInMilliseconds = 200
)

// Config maps to the config.toml file for the viewer
type Config struct {
	DatasourceURL                        string          `toml:"DatasourceURL"`
	View                                 string          `toml:"View"`
	HasVoltage                           bool            `toml:"HasVoltage"`
	HasKVA                               bool            `toml:"HasKVA"`
	InitialZoomInSeconds                 int64           `toml:"InitialZoomInSeconds"`
	RealTime                             bool            `toml:"RealTime"`
	RealTimeUpdateIntervalInMilliseconds uint32          `toml:"RealTimeUpdateIntervalInMilliseconds"`
	PartialRange                         bool            `toml:"PartialRange"`
	Delta                                bool            `toml:"Delta"`
	ValueMin                             *float64        `toml:"ValueMin"`
	ValueMax                             *float64        `toml:"ValueMax"`
	RequestTimeoutInSeconds              uint32          `toml:"RequestTimeoutInSeconds"`
	ZoomPresetsInSeconds                 []int64         `toml:"ZoomPresetsInSeconds"`
	Scheduler                            SchedulerConfig `toml:"Scheduler"`
}

// SchedulerConfig holds the retry and timing knobs of the controller
type SchedulerConfig struct {
	MinBackoffInMilliseconds    uint32 `toml:"MinBackoffInMilliseconds"`
	MaxBackoffInMilliseconds    uint32 `toml:"MaxBackoffInMilliseconds"`
	PendingRetryInMilliseconds  uint32 `toml:"PendingRetryInMilliseconds"`
	DebounceInMilliseconds      uint32 `toml:"DebounceInMilliseconds"`
	StalenessInMinutes          uint32 `toml:"StalenessInMinutes"`
	ErrorLogCapacity            int    `toml:"ErrorLogCapacity"`
	RefreshScreenInMilliseconds uint32 `toml:"RefreshScreenInMilliseconds"`
}

// LoadConfig parses a TOML file into the Config struct and fills in the missing values
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

// ApplyDefaults sets the default value for every unset knob
func (cfg *Config) ApplyDefaults() {
	if len(cfg.View) == 0 {
		cfg.View = defaultView
	}
	if cfg.RealTimeUpdateIntervalInMilliseconds == 0 {
		cfg.RealTimeUpdateIntervalInMilliseconds = defaultRealTimeIntervalInMs
	}
	if cfg.RequestTimeoutInSeconds == 0 {
		cfg.RequestTimeoutInSeconds = defaultRequestTimeoutInSeconds
	}

	s := &cfg.Scheduler
	if s.MinBackoffInMilliseconds == 0 {
		s.MinBackoffInMilliseconds = defaultMinBackoffInMilliseconds
	}
	if s.MaxBackoffInMilliseconds == 0 {
		s.MaxBackoffInMilliseconds = defaultMaxBackoffInMilliseconds
	}
	if s.MaxBackoffInMilliseconds < s.MinBackoffInMilliseconds {
		s.MaxBackoffInMilliseconds = s.MinBackoffInMilliseconds
	}
	if s.PendingRetryInMilliseconds == 0 {
		s.PendingRetryInMilliseconds = defaultPendingRetryInMilliseconds
	}
	if s.DebounceInMilliseconds == 0 {
		s.DebounceInMilliseconds = defaultDebounceInMilliseconds
	}
	if s.StalenessInMinutes == 0 {
		s.StalenessInMinutes = defaultStalenessInMinutes
	}
	if s.ErrorLogCapacity <= 0 {
		s.ErrorLogCapacity = defaultErrorLogCapacity
	}
	if s.RefreshScreenInMilliseconds == 0 {
		s.RefreshScreenInMilliseconds = defaultRefreshScreenInMilliseconds
	}
}

// RealTimeInterval returns the configured minimum real-time polling interval
func (cfg *Config) RealTimeInterval() time.Duration {
	return time.Duration(cfg.RealTimeUpdateIntervalInMilliseconds) * time.Millisecond
}

// RequestTimeout returns the timeout of one data source query
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutInSeconds) * time.Second
}

// MinBackoff returns the first retry delay after a failure
func (s SchedulerConfig) MinBackoff() time.Duration {
	return time.Duration(s.MinBackoffInMilliseconds) * time.Millisecond
}

// MaxBackoff returns the retry delay cap
func (s SchedulerConfig) MaxBackoff() time.Duration {
	return time.Duration(s.MaxBackoffInMilliseconds) * time.Millisecond
}

// PendingRetry returns the delay used when a failed query had a newer one waiting
func (s SchedulerConfig) PendingRetry() time.Duration {
	return time.Duration(s.PendingRetryInMilliseconds) * time.Millisecond
}

// Debounce returns the quiet period after which a user range change is acted upon
func (s SchedulerConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceInMilliseconds) * time.Millisecond
}

// Staleness returns the idle time after which a live default view is fully reloaded
func (s SchedulerConfig) Staleness() time.Duration {
	return time.Duration(s.StalenessInMinutes) * time.Minute
}

// RefreshScreen returns the screen refresh throttle of the terminal widget
func (s SchedulerConfig) RefreshScreen() time.Duration {
	return time.Duration(s.RefreshScreenInMilliseconds) * time.Millisecond
}

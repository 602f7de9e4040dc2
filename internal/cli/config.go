package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// Config holds user defaults read from the config file. Zero values mean
// "not set" and fall through to the pipeline defaults; command-line flags
// override both.
type Config struct {
	AspectRatio   float64       `toml:"aspect_ratio"`
	MinEdgeLength float64       `toml:"min_edge_length"`
	Seed          uint64        `toml:"seed"`
	Tuning        *tuningConfig `toml:"tuning"`
}

// tuningConfig mirrors layout.Tuning with toml tags. Fields left zero keep
// the standard schedule's value.
type tuningConfig struct {
	InitialTemperature float64 `toml:"initial_temperature"`
	CoolingFactor      float64 `toml:"cooling_factor"`
	MinTemperature     float64 `toml:"min_temperature"`
	BatchMultiplier    int     `toml:"batch_multiplier"`
	StuckThreshold     int     `toml:"stuck_threshold"`
	GainThreshold      float64 `toml:"gain_threshold"`
}

// ConfigPath returns the config file location
// (~/.config/mindgrid/config.toml, honoring XDG_CONFIG_HOME).
func ConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// LoadConfig reads a config file. A missing file yields an empty config and
// no error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply copies configured defaults onto unset pipeline options.
func (c Config) Apply(opts *pipeline.Options) {
	if opts.AspectRatio == 0 {
		opts.AspectRatio = c.AspectRatio
	}
	if opts.MinEdgeLength == 0 {
		opts.MinEdgeLength = c.MinEdgeLength
	}
	if opts.Seed == 0 {
		opts.Seed = c.Seed
	}
	if opts.Tuning == nil && c.Tuning != nil {
		t := c.Tuning.toTuning()
		opts.Tuning = &t
	}
}

func (tc *tuningConfig) toTuning() layout.Tuning {
	t := layout.DefaultTuning
	if tc.InitialTemperature != 0 {
		t.InitialTemperature = tc.InitialTemperature
	}
	if tc.CoolingFactor != 0 {
		t.CoolingFactor = tc.CoolingFactor
	}
	if tc.MinTemperature != 0 {
		t.MinTemperature = tc.MinTemperature
	}
	if tc.BatchMultiplier != 0 {
		t.BatchMultiplier = tc.BatchMultiplier
	}
	if tc.StuckThreshold != 0 {
		t.StuckThreshold = tc.StuckThreshold
	}
	if tc.GainThreshold != 0 {
		t.GainThreshold = tc.GainThreshold
	}
	return t
}

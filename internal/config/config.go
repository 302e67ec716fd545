// Package config loads surfacectl's configuration: target binary, output
// root, probe budget, sandbox mode, planner source, and optional
// extras layered via viper so flags, environment, a config file, and
// hardcoded defaults all resolve through one precedence chain.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full configuration surface exposed at the command boundary.
type Config struct {
	Binary          string           `mapstructure:"binary"`
	OutDir          string           `mapstructure:"out_dir"`
	MaxPerOption    int              `mapstructure:"max_per_option"`
	MaxTotal        int              `mapstructure:"max_total"` // 0 means derive from options*MaxPerOption
	Sandbox         bool             `mapstructure:"sandbox"`
	Planner         PlannerConfig    `mapstructure:"planner"`
	ProbeIntervalMs int              `mapstructure:"probe_interval_ms"`
	CacheIndex      CacheIndexConfig `mapstructure:"cache_index"`
	StopRules       StopRulesConfig  `mapstructure:"stop_rules"`
}

// PlannerConfig names where the plan comes from. PlanFile always wins
// over Cmd when both are set.
type PlannerConfig struct {
	PlanFile string `mapstructure:"plan_file"`
	Cmd      string `mapstructure:"cmd"`
}

// CacheIndexConfig optionally turns on a supplementary sqlite index over
// the cache directory (see internal/report's filesystem store, which
// remains authoritative).
type CacheIndexConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// StopRulesConfig mirrors schema.StopRules at the configuration boundary.
type StopRulesConfig struct {
	StopOnUnrecognized     bool `mapstructure:"stop_on_unrecognized"`
	StopOnBindingConfirmed bool `mapstructure:"stop_on_binding_confirmed"`
}

// Load reads configuration from an optional YAML config file at
// configPath, then fills OutDir, MaxPerOption and (when both flags are
// false) StopRules from DefaultConfig. When configPath is set, a .env file
// beside it is first loaded into the process environment; variables that
// are already set keep their values. SURFACECTL_-prefixed environment
// variables override only top-level keys that the config file itself
// sets: keys absent from the file are not read from the environment, and
// nested keys such as planner.cmd are not mapped to underscore-separated
// variable names.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if envPath := envFileNextTo(configPath); envPath != "" {
			_ = godotenv.Load(envPath)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("SURFACECTL")
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns a config with every field set to its documented
// default (spec §6).
func DefaultConfig() *Config {
	return &Config{
		OutDir:       "out",
		MaxPerOption: 3,
		MaxTotal:     0,
		Sandbox:      false,
		Planner:      PlannerConfig{},
		StopRules: StopRulesConfig{
			StopOnUnrecognized:     true,
			StopOnBindingConfirmed: true,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.OutDir == "" {
		cfg.OutDir = defaults.OutDir
	}
	if cfg.MaxPerOption == 0 {
		cfg.MaxPerOption = defaults.MaxPerOption
	}
	if !cfg.StopRules.StopOnUnrecognized && !cfg.StopRules.StopOnBindingConfirmed {
		cfg.StopRules = defaults.StopRules
	}
}

func envFileNextTo(configPath string) string {
	dotenv := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		return dotenv
	}
	return ""
}

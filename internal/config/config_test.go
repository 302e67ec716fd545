package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OutDir != "out" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "out")
	}
	if cfg.MaxPerOption != 3 {
		t.Errorf("MaxPerOption = %d, want 3", cfg.MaxPerOption)
	}
	if cfg.Sandbox {
		t.Error("Sandbox = true, want false by default")
	}
	if !cfg.StopRules.StopOnUnrecognized || !cfg.StopRules.StopOnBindingConfirmed {
		t.Errorf("StopRules = %+v, want both true by default", cfg.StopRules)
	}
}

func TestLoadNoConfigPathAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.OutDir != "out" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "out")
	}
	if cfg.MaxPerOption != 3 {
		t.Errorf("MaxPerOption = %d, want 3", cfg.MaxPerOption)
	}
}

func TestLoadReadsYAMLConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "surfacectl.yaml")
	content := []byte("binary: /usr/bin/grep\nmax_per_option: 2\nsandbox: true\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Binary != "/usr/bin/grep" {
		t.Errorf("Binary = %q, want %q", cfg.Binary, "/usr/bin/grep")
	}
	if cfg.MaxPerOption != 2 {
		t.Errorf("MaxPerOption = %d, want 2", cfg.MaxPerOption)
	}
	if !cfg.Sandbox {
		t.Error("Sandbox = false, want true from config file")
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	if cfg.OutDir != "out" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "out")
	}
	if cfg.MaxPerOption != 3 {
		t.Errorf("MaxPerOption = %d, want 3", cfg.MaxPerOption)
	}
	if !cfg.StopRules.StopOnUnrecognized || !cfg.StopRules.StopOnBindingConfirmed {
		t.Errorf("StopRules = %+v, want defaults applied when both unset", cfg.StopRules)
	}
}

func TestApplyDefaultsPreservesExplicitNonZeroValues(t *testing.T) {
	cfg := &Config{OutDir: "custom", MaxPerOption: 5, StopRules: StopRulesConfig{StopOnUnrecognized: true}}
	applyDefaults(cfg)
	if cfg.OutDir != "custom" {
		t.Errorf("OutDir = %q, want %q (explicit value preserved)", cfg.OutDir, "custom")
	}
	if cfg.MaxPerOption != 5 {
		t.Errorf("MaxPerOption = %d, want 5 (explicit value preserved)", cfg.MaxPerOption)
	}
	if !cfg.StopRules.StopOnUnrecognized || cfg.StopRules.StopOnBindingConfirmed {
		t.Errorf("StopRules = %+v, want {true false} preserved since one flag was already set", cfg.StopRules)
	}
}

func TestEnvFileNextToFindsDotenv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "surfacectl.yaml")
	dotenvPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenvPath, []byte("SURFACECTL_SANDBOX=true\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if got := envFileNextTo(configPath); got != dotenvPath {
		t.Errorf("envFileNextTo() = %q, want %q", got, dotenvPath)
	}
}

func TestEnvFileNextToMissing(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "surfacectl.yaml")
	if got := envFileNextTo(configPath); got != "" {
		t.Errorf("envFileNextTo() = %q, want empty string when no .env present", got)
	}
}

// Package config loads the statbar YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	State    StateConfig    `yaml:"state"`
	UI       UIConfig       `yaml:"ui"`
	Layout   LayoutConfig   `yaml:"layout"`
	Sampling SamplingConfig `yaml:"sampling"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StateConfig locates the persisted snapshot.
type StateConfig struct {
	// Path of the SQLite state database.
	Path string `yaml:"path"`
	// LegacyPlist optionally names a plist defaults export imported when
	// the database holds no snapshot yet.
	LegacyPlist string `yaml:"legacy_plist"`
}

// UIConfig selects and tunes the renderer.
type UIConfig struct {
	// Mode is "auto", "bar" (tview), or "headless".
	Mode      string `yaml:"mode"`
	TargetFPS int    `yaml:"target_fps"`
}

// LayoutConfig tunes the width budget.
type LayoutConfig struct {
	BudgetFraction   float64 `yaml:"budget_fraction"`
	MaxBudget        int     `yaml:"max_budget"`
	IconOnlyFallback bool    `yaml:"icon_only_fallback"`
}

// SamplingConfig tunes the OS probes.
type SamplingConfig struct {
	// DiskPath is the monitored mount point.
	DiskPath string `yaml:"disk_path"`
	// NetworkInterface pins the monitored interface; empty auto-resolves.
	NetworkInterface string `yaml:"network_interface"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		State:    StateConfig{Path: "data/state.db"},
		UI:       UIConfig{Mode: "auto", TargetFPS: 30},
		Layout:   LayoutConfig{BudgetFraction: 0.45, MaxBudget: 120, IconOnlyFallback: true},
		Sampling: SamplingConfig{DiskPath: "/"},
	}
}

// Load reads configuration from a YAML file, layered over the defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Print displays the configuration.
func (c *Config) Print() {
	fmt.Printf("State: %s\n", c.State.Path)
	if c.State.LegacyPlist != "" {
		fmt.Printf("Legacy import: %s\n", c.State.LegacyPlist)
	}
	fmt.Printf("UI: mode=%s fps=%d\n", c.UI.Mode, c.UI.TargetFPS)
	fmt.Printf("Layout: fraction=%.2f max=%d icon_fallback=%v\n",
		c.Layout.BudgetFraction, c.Layout.MaxBudget, c.Layout.IconOnlyFallback)
	fmt.Printf("Sampling: disk=%s", c.Sampling.DiskPath)
	if c.Sampling.NetworkInterface != "" {
		fmt.Printf(" interface=%s", c.Sampling.NetworkInterface)
	}
	fmt.Println()
}

// Package config handles reading and writing .ralph/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .ralph/config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Engine  string        `yaml:"engine"`
	Models  ModelsConfig  `yaml:"models"`
	Loop    LoopConfig    `yaml:"loop"`
	Display DisplayConfig `yaml:"display"`
}

// ModelsConfig holds per-backend model defaults. An empty value means the
// backend picks its own default.
type ModelsConfig struct {
	Claude string `yaml:"claude"`
	Cursor string `yaml:"cursor"`
}

// LoopConfig controls iteration behavior and the prompt file names inside
// the control directory.
type LoopConfig struct {
	MaxIterations int    `yaml:"max_iterations"` // 0 = unbounded
	BuildPrompt   string `yaml:"build_prompt"`
	PlanPrompt    string `yaml:"plan_prompt"`
}

// DisplayConfig holds presentation conventions. These follow the original
// display defaults and are tunable, not contractual.
type DisplayConfig struct {
	LogEntries    int `yaml:"log_entries"`    // entries visible in the log panel
	CostPrecision int `yaml:"cost_precision"` // decimal places for cost figures
}

// ControlDirName is the control directory, relative to the project root.
const ControlDirName = ".ralph"

const configFile = "config.yaml"

// ReadConfig reads .ralph/config.yaml from the given project directory.
// dir is the project root (not .ralph/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ControlDirName, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .ralph/config.yaml in the given project
// directory. Creates the .ralph/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, ControlDirName)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Engine:  "claude",
		Models: ModelsConfig{
			Claude: "opus",
		},
		Loop: LoopConfig{
			MaxIterations: 0,
			BuildPrompt:   "PROMPT_build.md",
			PlanPrompt:    "PROMPT_plan.md",
		},
		Display: DisplayConfig{
			LogEntries:    20,
			CostPrecision: 4,
		},
	}
}

// PromptFile returns the prompt file name for a run mode.
func (c *Config) PromptFile(mode string) string {
	if mode == "plan" {
		if c.Loop.PlanPrompt != "" {
			return c.Loop.PlanPrompt
		}
		return "PROMPT_plan.md"
	}
	if c.Loop.BuildPrompt != "" {
		return c.Loop.BuildPrompt
	}
	return "PROMPT_build.md"
}

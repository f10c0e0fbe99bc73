// Package config loads and validates decisionlog configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete process configuration.
type Config struct {
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Oracle  OracleConfig  `json:"oracle" yaml:"oracle"`
	Gate    GateConfig    `json:"gate" yaml:"gate"`
}

// JournalConfig locates the record store.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// OracleConfig parameterizes the interpretation oracle. The oracle itself is
// an external collaborator; only its knobs live here.
type OracleConfig struct {
	Model         string  `json:"model" yaml:"model"`
	Temperature   float64 `json:"temperature" yaml:"temperature"`
	PromptVersion string  `json:"prompt_version" yaml:"prompt_version"`
}

// GateConfig carries the confidence thresholds for the action gate.
type GateConfig struct {
	ExecuteMin float64 `json:"execute_min" yaml:"execute_min"`
	ClarifyMin float64 `json:"clarify_min" yaml:"clarify_min"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{DBPath: "./decisionlog.sqlite"},
		Oracle: OracleConfig{
			Model:         "gpt-4.1",
			Temperature:   0.2,
			PromptVersion: "dev",
		},
		Gate: GateConfig{ExecuteMin: 0.80, ClarifyMin: 0.40},
	}
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration, reporting the first offending field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Journal.DBPath) == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Oracle.Temperature < 0 || c.Oracle.Temperature > 2 {
		return fmt.Errorf("oracle.temperature must be between 0 and 2")
	}
	if c.Gate.ExecuteMin < 0 || c.Gate.ExecuteMin > 1 {
		return fmt.Errorf("gate.execute_min must be between 0 and 1")
	}
	if c.Gate.ClarifyMin < 0 || c.Gate.ClarifyMin > 1 {
		return fmt.Errorf("gate.clarify_min must be between 0 and 1")
	}
	if c.Gate.ClarifyMin > c.Gate.ExecuteMin {
		return fmt.Errorf("gate.clarify_min must not exceed gate.execute_min")
	}
	return nil
}

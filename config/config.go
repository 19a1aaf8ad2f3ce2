package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Sizing   SizingConfig   `json:"sizing" yaml:"sizing"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	Capital float64 `json:"capital" yaml:"capital"`
}

// SizingConfig contains position-sizing and rounding policy.
type SizingConfig struct {
	PositionFraction float64 `json:"position_fraction" yaml:"position_fraction"`
	PriceDecimals    int     `json:"price_decimals" yaml:"price_decimals"`
}

// StrategyConfig selects the signal generator. "embedded" uses the signal
// column already present in the data file.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`
	Fast int    `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow int    `json:"slow,omitempty" yaml:"slow,omitempty"`
}

// DataConfig points at the bar CSV.
type DataConfig struct {
	Path string `json:"path" yaml:"path"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content; YAML is tried first).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Capital <= 0 {
		return fmt.Errorf("account.capital must be positive")
	}
	if c.Sizing.PositionFraction <= 0 || c.Sizing.PositionFraction > 1 {
		return fmt.Errorf("sizing.position_fraction must be in (0,1]")
	}
	if c.Sizing.PriceDecimals < 0 {
		return fmt.Errorf("sizing.price_decimals must be non-negative")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Capital: 100000,
		},
		Sizing: SizingConfig{
			PositionFraction: 1.0,
			PriceDecimals:    2,
		},
		Strategy: StrategyConfig{
			Name: "embedded",
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}

// Package config loads the simulator configuration: YAML file first,
// then environment variables on top. A .env file is honored for local
// development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Symbol is the instrument to practice on, in the data source's
	// notation.
	Symbol   string `yaml:"symbol"`
	LogLevel string `yaml:"log_level"`

	Data struct {
		// Source selects the bar provider: "yahoo" or "csv".
		Source string `yaml:"source"`
		// CSVDir holds minute-bar dump files when Source is "csv".
		CSVDir string `yaml:"csv_dir"`
		// CacheDB is the SQLite candle cache path; empty disables
		// caching.
		CacheDB string `yaml:"cache_db"`
	} `yaml:"data"`

	Journal struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"journal"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Symbol:   "^GDAXI",
		LogLevel: "info",
	}
	cfg.Data.Source = "yahoo"
	cfg.Data.CacheDB = "./daxsim-cache.db"
	cfg.Journal.DBPath = "./daxsim.db"
	return cfg
}

// Load reads the YAML file at path (missing file is fine, defaults
// apply), then applies environment overrides.
func Load(path string) (*Config, error) {
	// .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv("DAXSIM_SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("DAXSIM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DAXSIM_DATA_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("DAXSIM_CSV_DIR"); v != "" {
		cfg.Data.CSVDir = v
	}
	if v := os.Getenv("DAXSIM_CACHE_DB"); v != "" {
		cfg.Data.CacheDB = v
	}
	if v := os.Getenv("DAXSIM_DB"); v != "" {
		cfg.Journal.DBPath = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("config: symbol is required")
	}
	switch c.Data.Source {
	case "yahoo":
	case "csv":
		if c.Data.CSVDir == "" {
			return fmt.Errorf("config: data.csv_dir required for csv source")
		}
	default:
		return fmt.Errorf("config: data.source must be \"yahoo\" or \"csv\", got %q", c.Data.Source)
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("config: journal.db_path is required")
	}
	return nil
}

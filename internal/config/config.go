// Package config loads the server configuration from an optional YAML file
// with NOTES_* environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Vault   VaultConfig   `yaml:"vault"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// VaultConfig says where notes live and which files count as notes.
type VaultConfig struct {
	Root            string   `yaml:"root"`
	Extensions      []string `yaml:"extensions"`
	ReadConcurrency int      `yaml:"readConcurrency"`
}

// SearchConfig holds display limits. The ranker itself never truncates.
type SearchConfig struct {
	ResultLimit  int `yaml:"resultLimit"`
	KeywordLimit int `yaml:"keywordLimit"`
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Root:            "my_vault",
			Extensions:      []string{".md", ".json"},
			ReadConcurrency: 8,
		},
		Search: SearchConfig{
			ResultLimit:  5,
			KeywordLimit: 10,
		},
		Logging: LoggingConfig{
			Dir:   ".notes-search",
			Level: "debug",
		},
	}
}

// Load reads a YAML config file (if path is non-empty) over the defaults and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate reports the first setting that can't work.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Vault.Root) == "":
		return errors.New("vault.root is required")
	case len(c.Vault.Extensions) == 0:
		return errors.New("vault.extensions must not be empty")
	case c.Vault.ReadConcurrency <= 0:
		return fmt.Errorf("vault.readConcurrency must be positive, got %d", c.Vault.ReadConcurrency)
	case c.Search.ResultLimit <= 0:
		return fmt.Errorf("search.resultLimit must be positive, got %d", c.Search.ResultLimit)
	case c.Search.KeywordLimit <= 0:
		return fmt.Errorf("search.keywordLimit must be positive, got %d", c.Search.KeywordLimit)
	}
	return nil
}

// applyEnvOverrides reads NOTES_* environment variables. Values that don't
// parse are ignored and the previous setting is kept.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NOTES_VAULT_ROOT"); v != "" {
		cfg.Vault.Root = v
	}
	if v := os.Getenv("NOTES_VAULT_EXTENSIONS"); v != "" {
		var exts []string
		for _, ext := range strings.Split(v, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		if len(exts) > 0 {
			cfg.Vault.Extensions = exts
		}
	}
	cfg.Vault.ReadConcurrency = intEnv("NOTES_VAULT_READ_CONCURRENCY", cfg.Vault.ReadConcurrency)
	cfg.Search.ResultLimit = intEnv("NOTES_SEARCH_RESULT_LIMIT", cfg.Search.ResultLimit)
	cfg.Search.KeywordLimit = intEnv("NOTES_SEARCH_KEYWORD_LIMIT", cfg.Search.KeywordLimit)
	if v := os.Getenv("NOTES_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("NOTES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NOTES_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

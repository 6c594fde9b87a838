package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const CurrentVersion = 1

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateCollapse(&cfg); err != nil {
		return nil, err
	}
	if err := validateCatalog(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "data/models"
	}
	if strings.TrimSpace(cfg.Output.Compression) == "" {
		cfg.Output.Compression = "none"
	}

	if cfg.Collapse.MinGroup == 0 {
		cfg.Collapse.MinGroup = 4
	}

	if cfg.Catalog.LogRate <= 0 {
		cfg.Catalog.LogRate = 2
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "data/catalog.db"
	}

	if strings.TrimSpace(cfg.Metrics.Addr) == "" {
		cfg.Metrics.Addr = "127.0.0.1:9198"
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version %d (supported: %d)", cfg.Version, CurrentVersion)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Compression {
	case "none", "gzip", "zstd":
	default:
		return fmt.Errorf("output.compression must be none, gzip or zstd, got %q", cfg.Output.Compression)
	}
	return nil
}

func validateCollapse(cfg *Config) error {
	if cfg.Collapse.IsEnabled() && cfg.Collapse.MinGroup < 2 {
		return fmt.Errorf("collapse.min_group must be at least 2, got %d", cfg.Collapse.MinGroup)
	}
	return nil
}

func validateCatalog(cfg *Config) error {
	if cfg.Catalog.MaxModels < 0 {
		return fmt.Errorf("catalog.max_models must not be negative, got %d", cfg.Catalog.MaxModels)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Metrics.Enabled && strings.TrimSpace(cfg.Metrics.Addr) == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}
	if cfg.Tracing.Enabled && strings.TrimSpace(cfg.Tracing.Endpoint) == "" {
		return fmt.Errorf("tracing.endpoint must be set when tracing is enabled")
	}
	return nil
}

package app

import (
	"errors"
	"fmt"
)

// Output formats for resolved items.
const (
	FormatJSON = "json"
	FormatGive = "give"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ItemsPath string // hcl file or directory of item definitions
	Format    string // json or give

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ItemsPath == "" {
		return nil, errors.New("ItemsPath is a required configuration field and cannot be empty")
	}

	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if cfg.Format != FormatJSON && cfg.Format != FormatGive {
		return nil, fmt.Errorf("invalid output format %q: must be %q or %q", cfg.Format, FormatJSON, FormatGive)
	}

	return &cfg, nil
}

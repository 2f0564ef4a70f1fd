package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/cqfill/transform"
)

// config mirrors the flag surface for YAML configuration files. Flags
// win over the file.
type config struct {
	BaseURL string `yaml:"base-url"`
	Salt    string `yaml:"salt"`
	NoWhere bool   `yaml:"no-where"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return &cfg, nil
}

func (c *config) apply(opts *transform.Options) {
	if c.BaseURL != "" {
		opts.BaseURL = c.BaseURL
	}
	if c.Salt != "" {
		opts.Salt = c.Salt
	}
	if c.NoWhere {
		opts.WhereSupported = false
	}
}

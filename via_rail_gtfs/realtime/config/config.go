// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

// Package config loads the settings of the via_rail_gtfs command
// from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/source"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "via_rail.yml"

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Output    OutputConfig    `yaml:"output"`
	Loop      LoopConfig      `yaml:"loop"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Reference ReferenceConfig `yaml:"reference"`
}

type SourceConfig struct {
	URL       string `yaml:"url" validate:"required,url"`
	UserAgent string `yaml:"user_agent" validate:"required"`
}

type OutputConfig struct {
	GTFS     string `yaml:"gtfs" validate:"required"`
	JSON     string `yaml:"json"`
	Readable bool   `yaml:"readable"`
}

type LoopConfig struct {
	// Period between feed updates; zero means a single update.
	Period time.Duration `yaml:"period" validate:"gte=0s"`

	// MaxElapsed limits how long a single update may keep retrying; zero means forever.
	MaxElapsed time.Duration `yaml:"max_elapsed" validate:"gte=0s"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type ReferenceConfig struct {
	// GTFS is a path to a GTFS Schedule directory or zip; empty uses the embedded tables.
	GTFS string `yaml:"gtfs"`
}

func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       source.DefaultURL,
			UserAgent: source.DefaultUserAgent,
		},
		Output: OutputConfig{
			GTFS: "via_rail.pb",
		},
		Loop: LoopConfig{
			MaxElapsed: time.Hour,
		},
	}
}

// Load reads the config file at path on top of the defaults, then applies
// environment overrides (including those from a .env file) and validates the result.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "path", path)
		return nil
	} else if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func (c *Config) FetchOptions() source.FetchOptions {
	return source.FetchOptions{
		URL:       c.Source.URL,
		UserAgent: c.Source.UserAgent,
	}
}

// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type MissingEnvironmentKey string

func (k MissingEnvironmentKey) Error() string {
	return fmt.Sprintf("%s environment variable not set", string(k))
}

// FromEnvironment returns the value of the key environment variable,
// or the content of the file pointed to by key_FILE.
func FromEnvironment(key string) (string, error) {
	value := os.Getenv(key)
	path := os.Getenv(key + "_FILE")
	if value == "" && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		value = string(content)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", MissingEnvironmentKey(key)
	}
	return value, nil
}

// overrides maps environment variables onto the config fields they replace.
func (c *Config) overrides() map[string]*string {
	return map[string]*string{
		"VIA_RAIL_URL":          &c.Source.URL,
		"VIA_RAIL_USER_AGENT":   &c.Source.UserAgent,
		"VIA_RAIL_METRICS_ADDR": &c.Metrics.Addr,
	}
}

func (c *Config) applyEnvironment() error {
	for key, field := range c.overrides() {
		value, err := FromEnvironment(key)
		if errors.As(err, new(MissingEnvironmentKey)) {
			continue
		} else if err != nil {
			return fmt.Errorf("%s_FILE: %w", key, err)
		}
		*field = value
	}
	return nil
}

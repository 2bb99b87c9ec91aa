// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvironment(t *testing.T) {
	t.Helper()
	for key := range Default().overrides() {
		t.Setenv(key, "")
		t.Setenv(key+"_FILE", "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnvironment(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, source.NewFetchOptions(), cfg.FetchOptions())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnvironment(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnvironment(t)
	path := writeFile(t, "via_rail.yml", `
source:
  user_agent: Tester
output:
  gtfs: out/via.pb
  json: out/via.json
  readable: true
loop:
  period: 30s
metrics:
  addr: localhost:9090
reference:
  gtfs: via.zip
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, source.DefaultURL, cfg.Source.URL)
	assert.Equal(t, "Tester", cfg.Source.UserAgent)
	assert.Equal(t, OutputConfig{GTFS: "out/via.pb", JSON: "out/via.json", Readable: true}, cfg.Output)
	assert.Equal(t, 30*time.Second, cfg.Loop.Period)
	assert.Equal(t, time.Hour, cfg.Loop.MaxElapsed)
	assert.Equal(t, "localhost:9090", cfg.Metrics.Addr)
	assert.Equal(t, "via.zip", cfg.Reference.GTFS)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnvironment(t)
	path := writeFile(t, "via_rail.yml", "source: [1, 2\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, path)
}

func TestLoadValidationFailure(t *testing.T) {
	tests := map[string]string{
		"url":          "source:\n  url: not a url\n",
		"user_agent":   "source:\n  user_agent: \"\"\n",
		"output":       "output:\n  gtfs: \"\"\n",
		"period":       "loop:\n  period: -5s\n",
		"metrics_addr": "metrics:\n  addr: localhost\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnvironment(t)
			_, err := Load(writeFile(t, "via_rail.yml", content))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("VIA_RAIL_URL", "http://localhost:8080/allData.json")
	t.Setenv("VIA_RAIL_METRICS_ADDR", ":9100")
	t.Setenv("VIA_RAIL_USER_AGENT_FILE", writeFile(t, "ua.txt", "  Secret Agent\n"))

	path := writeFile(t, "via_rail.yml", "source:\n  url: https://example.com/feed.json\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/allData.json", cfg.Source.URL)
	assert.Equal(t, "Secret Agent", cfg.Source.UserAgent)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoadEnvironmentFileMissing(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("VIA_RAIL_URL_FILE", filepath.Join(t.TempDir(), "missing.txt"))

	_, err := Load("")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "VIA_RAIL_URL_FILE")
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("VIA_RAIL_TEST", "")
	t.Setenv("VIA_RAIL_TEST_FILE", "")

	_, err := FromEnvironment("VIA_RAIL_TEST")
	var missing MissingEnvironmentKey
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "VIA_RAIL_TEST environment variable not set", missing.Error())

	t.Setenv("VIA_RAIL_TEST", " value ")
	value, err := FromEnvironment("VIA_RAIL_TEST")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	t.Setenv("VIA_RAIL_TEST", "")
	t.Setenv("VIA_RAIL_TEST_FILE", writeFile(t, "value.txt", "from file\n"))
	value, err = FromEnvironment("VIA_RAIL_TEST")
	require.NoError(t, err)
	assert.Equal(t, "from file", value)
}

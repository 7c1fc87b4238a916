// Copyright 2025 Lumina Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// writeConfig writes yaml to a temporary config file and returns its path.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config file uses defaults",
			yaml:    ``,
			wantErr: false,
		},
		{
			name: "valid scalar settings",
			yaml: `logLevel: debug
output: json
metricsFile: /tmp/planner.prom`,
			wantErr: false,
		},
		{
			name: "valid custom catalog",
			yaml: `catalog:
  prices:
    eu-central:
      m5.large: 0.096
      m5.xlarge: 0.192
  cpus:
    m5.large: 2
    m5.xlarge: 4`,
			wantErr: false,
		},
		{
			name:    "invalid log level",
			yaml:    `logLevel: verbose`,
			wantErr: true,
			errMsg:  `invalid log level "verbose"`,
		},
		{
			name:    "invalid output",
			yaml:    `output: xml`,
			wantErr: true,
			errMsg:  `invalid output "xml"`,
		},
		{
			name: "non-positive price",
			yaml: `catalog:
  prices:
    us-east:
      large: 0`,
			wantErr: true,
			errMsg:  "catalog[us-east][large]",
		},
		{
			name: "priced type missing from cpu table",
			yaml: `catalog:
  prices:
    us-east:
      m5.large: 0.096`,
			wantErr: true,
			errMsg:  "cpuTable[m5.large]",
		},
		{
			name: "non-positive cpu count",
			yaml: `catalog:
  cpus:
    large: 0`,
			wantErr: true,
			errMsg:  "cpuTable[large]",
		},
		{
			name:    "malformed yaml",
			yaml:    "logLevel: [unterminated",
			wantErr: true,
			errMsg:  "failed to read config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "table", cfg.Output)
	assert.Empty(t, cfg.MetricsFile)

	prices, cpus := cfg.CatalogData()
	assert.Equal(t, catalog.Default(), prices)
	assert.Equal(t, catalog.DefaultCPUTable(), cpus)
}

func TestLoad_DottedInstanceTypes(t *testing.T) {
	cfg, err := Load(writeConfig(t, `catalog:
  prices:
    eu-central:
      m5.large: 0.096
  cpus:
    m5.large: 2`))
	require.NoError(t, err)

	prices, cpus := cfg.CatalogData()
	assert.Equal(t, catalog.Catalog{"eu-central": {"m5.large": 0.096}}, prices)
	assert.Equal(t, catalog.CPUTable{"m5.large": 2}, cpus)
}

func TestLoad_PartialCatalog(t *testing.T) {
	// Prices only: the reference CPU table fills in
	cfg, err := Load(writeConfig(t, `catalog:
  prices:
    lab:
      large: 0.05
      8xlarge: 1`))
	require.NoError(t, err)

	prices, cpus := cfg.CatalogData()
	assert.Equal(t, catalog.Catalog{"lab": {"large": 0.05, "8xlarge": 1}}, prices)
	assert.Equal(t, catalog.DefaultCPUTable(), cpus)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_LOG_LEVEL", "error")
	t.Setenv("PLANNER_OUTPUT", "json")
	t.Setenv("PLANNER_METRICS_FILE", "/var/lib/node-exporter/planner.prom")

	cfg, err := Load(writeConfig(t, `logLevel: debug
output: table`))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "/var/lib/node-exporter/planner.prom", cfg.MetricsFile)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.GetLogLevel())
		assert.Equal(t, "table", cfg.GetOutput())
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("missing file honours env overrides", func(t *testing.T) {
		t.Setenv("PLANNER_OUTPUT", "json")
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output)
	})

	t.Run("invalid env override", func(t *testing.T) {
		t.Setenv("PLANNER_LOG_LEVEL", "loud")
		_, err := LoadOrDefault("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("existing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(writeConfig(t, `output: json`))
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output)
	})
}

func TestGetters(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultLogLevel, cfg.GetLogLevel())
	assert.Equal(t, OutputTable, cfg.GetOutput())

	cfg = &Config{LogLevel: "warn", Output: "json"}
	assert.Equal(t, "warn", cfg.GetLogLevel())
	assert.Equal(t, "json", cfg.GetOutput())
}

func TestCatalogData_ReturnsCopies(t *testing.T) {
	cfg := &Config{Catalog: CatalogConfig{
		Prices: map[string]map[string]float64{"lab": {"large": 0.05}},
		CPUs:   map[string]int{"large": 1},
	}}

	prices, cpus := cfg.CatalogData()
	prices["lab"]["large"] = 9
	cpus["large"] = 9

	assert.Equal(t, 0.05, cfg.Catalog.Prices["lab"]["large"])
	assert.Equal(t, 1, cfg.Catalog.CPUs["large"])
}

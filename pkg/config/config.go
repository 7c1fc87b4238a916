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

// Package config provides configuration management for the capacity planner.
//
// The planner can be configured with:
//   - a price catalog and CPU table replacing the built-in reference catalog
//   - log verbosity and output format
//   - a Prometheus textfile path for exporting planning metrics
//
// Configuration can be loaded from YAML files or environment variables.
// Uses Viper for configuration management with explicit env binding.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// Config represents the complete planner configuration.
type Config struct {
	// LogLevel controls the verbosity of logs.
	// Valid values: debug, info, warn, error
	// Default: info
	LogLevel string `yaml:"logLevel,omitempty"`

	// Output selects how command results are rendered.
	// Valid values: table, json
	// Default: table
	Output string `yaml:"output,omitempty"`

	// MetricsFile is an optional path where planning metrics are written in
	// the Prometheus text format after each command.
	MetricsFile string `yaml:"metricsFile,omitempty"`

	// Catalog overrides the built-in reference catalog. Either half may be
	// omitted, in which case the reference data is used for it.
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
}

// CatalogConfig holds user-supplied reference data.
//
// Viper lower-cases map keys, so region and instance type names are matched
// case-insensitively and stored in lower case.
type CatalogConfig struct {
	// Prices maps region -> instance type -> hourly price in USD.
	// Example:
	//   prices:
	//     us-east:
	//       m5.large: 0.096
	Prices map[string]map[string]float64 `yaml:"prices,omitempty"`

	// CPUs maps instance type -> CPU count.
	CPUs map[string]int `yaml:"cpus,omitempty"`
}

// newViper returns a Viper instance with planner defaults and env bindings.
//
// The key delimiter is "::" instead of "." so that instance type names such as
// "m5.large" stay intact as map keys.
func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))

	// Set default values
	v.SetDefault("logLevel", DefaultLogLevel)
	v.SetDefault("output", OutputTable)

	// Enable environment variable overrides with PLANNER_ prefix
	// Viper's automatic mapping doesn't handle camelCase to SCREAMING_SNAKE_CASE well
	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv("logLevel", "PLANNER_LOG_LEVEL")
	_ = v.BindEnv("output", "PLANNER_OUTPUT")
	_ = v.BindEnv("metricsFile", "PLANNER_METRICS_FILE")

	return v
}

// Load loads configuration from a YAML file and validates it.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PLANNER_* prefix)
//  2. Configuration file values
//  3. Default values
//
// Environment variables can override scalar values:
//   - PLANNER_LOG_LEVEL overrides logLevel
//   - PLANNER_OUTPUT overrides output
//   - PLANNER_METRICS_FILE overrides metricsFile
//
// The catalog is not overridable via env vars.
func Load(path string) (*Config, error) {
	v := newViper()

	// Set configuration file
	v.SetConfigFile(path)

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v, path)
}

// LoadOrDefault behaves like Load, except that an empty path or a missing file
// yields the default configuration (still subject to env overrides) instead of
// an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}
	return decode(newViper(), "defaults")
}

// decode unmarshals and validates the settings held by v.
func decode(v *viper.Viper, source string) (*Config, error) {
	var cfg Config
	// coverage:ignore - Viper unmarshal errors are extremely rare and difficult to trigger
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", source, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	// Validate output format
	if c.Output != "" && !slices.Contains(ValidOutputs, c.Output) {
		return fmt.Errorf("invalid output %q, must be one of: %s", c.Output, strings.Join(ValidOutputs, ", "))
	}

	// Validate the effective catalog so problems surface at load time
	prices, cpus := c.CatalogData()
	if errs := catalog.Validate(prices, cpus); len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errs.ToAggregate())
	}

	return nil
}

// CatalogData returns the effective catalog and CPU table: the configured
// values where present, the built-in reference data otherwise. Fresh maps are
// returned on every call.
func (c *Config) CatalogData() (catalog.Catalog, catalog.CPUTable) {
	prices := catalog.Default()
	if len(c.Catalog.Prices) > 0 {
		prices = make(catalog.Catalog, len(c.Catalog.Prices))
		for region, types := range c.Catalog.Prices {
			regionPrices := make(catalog.RegionPrices, len(types))
			for instanceType, price := range types {
				regionPrices[instanceType] = price
			}
			prices[region] = regionPrices
		}
	}

	cpus := catalog.DefaultCPUTable()
	if len(c.Catalog.CPUs) > 0 {
		cpus = make(catalog.CPUTable, len(c.Catalog.CPUs))
		for instanceType, count := range c.Catalog.CPUs {
			cpus[instanceType] = count
		}
	}

	return prices, cpus
}

// GetLogLevel returns the configured log level, or DefaultLogLevel if unset.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetOutput returns the configured output format, or OutputTable if unset.
func (c *Config) GetOutput() string {
	if c.Output == "" {
		return OutputTable
	}
	return c.Output
}

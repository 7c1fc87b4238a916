/*
Copyright 2025 Lumina Contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cli implements the capacity-planner command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nextdoor/capacity-planner/pkg/config"
	"github.com/nextdoor/capacity-planner/pkg/metrics"
	"github.com/nextdoor/capacity-planner/pkg/planner"
)

// LoggerFunc builds the process logger once the configured log level is known.
type LoggerFunc func(level string) logr.Logger

// session is the state shared by a single command invocation.
type session struct {
	out    io.Writer
	log    logr.Logger
	cfg    *config.Config
	output string

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	alloc    *planner.Allocator
}

// NewRootCommand returns the capacity-planner command with its subcommands.
// Command results are written to out. Errors are returned from Execute
// unprinted; see PrintError.
func NewRootCommand(out io.Writer, newLogger LoggerFunc) *cobra.Command {
	opts := NewRootOptions()
	s := &session{out: out, log: logr.Discard()}

	cmd := &cobra.Command{
		Use:   "capacity-planner",
		Short: "Plan compute reservations across regions",
		Long: "capacity-planner ranks each region's instance types by value and " +
			"fills a CPU floor, a budget ceiling or both, cheapest region first.",
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd, opts, newLogger)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.flushMetrics()
		},
	}
	cmd.SetOut(out)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newCostsCommand(s),
		newPricesCommand(s),
		newRankCommand(s),
	)
	return cmd
}

// setup loads configuration, builds the logger, metrics and the Allocator.
func (s *session) setup(cmd *cobra.Command, opts *RootOptions, newLogger LoggerFunc) error {
	path := opts.ConfigPath
	if envPath := os.Getenv(config.ConfigPathEnv); envPath != "" {
		path = envPath
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = opts.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s.cfg = cfg
	s.output = cfg.GetOutput()
	if newLogger != nil {
		s.log = newLogger(cfg.GetLogLevel())
	}

	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.NewMetrics(s.registry)

	prices, cpus := cfg.CatalogData()
	alloc, err := planner.New(prices, cpus,
		planner.WithLogger(s.log.WithName("planner")),
		planner.WithMetrics(s.metrics))
	if err != nil {
		return err
	}
	s.alloc = alloc

	s.log.WithName("setup").V(1).Info("Loaded configuration",
		"path", path,
		"output", s.output,
		"regions", len(prices),
		"metricsFile", cfg.MetricsFile)
	return nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (s *session) flushMetrics() error {
	if s.cfg == nil || s.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(s.cfg.MetricsFile, s.registry); err != nil {
		return err
	}
	s.log.V(1).Info("Wrote metrics textfile", "path", s.cfg.MetricsFile)
	return nil
}

// PrintError writes err to w. Validation errors are listed one field per line.
func PrintError(w io.Writer, err error) {
	if errs := planner.FieldErrors(err); len(errs) > 0 {
		_, _ = fmt.Fprintln(w, "Error: invalid input")
		for _, fieldErr := range errs {
			_, _ = fmt.Fprintf(w, "  %s\n", fieldErr.Error())
		}
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

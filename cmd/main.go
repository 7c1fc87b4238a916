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

// Main entrypoint for the capacity-planner CLI.
//
// Coverage: Excluded - command behaviour is tested in internal/cli

package main

import (
	"flag"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/nextdoor/capacity-planner/internal/cli"
)

// zapLevels maps configured log levels onto zap levels. logr's V(1) is zap's
// debug level.
var zapLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

func main() {
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)

	var root *cobra.Command
	root = cli.NewRootCommand(os.Stdout, func(level string) logr.Logger {
		// An explicit --zap-log-level wins over the configured level
		if !root.PersistentFlags().Changed("zap-log-level") {
			if l, ok := zapLevels[level]; ok {
				opts.Level = l
			}
		}
		logger := zap.New(zap.UseFlagOptions(&opts))
		ctrl.SetLogger(logger)
		return logger
	})
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	if err := root.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

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

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "PLANNER"

// ConfigPathEnv names the environment variable that overrides the --config
// flag.
const ConfigPathEnv = "PLANNER_CONFIG_PATH"

// DefaultLogLevel is used when no log level is configured.
const DefaultLogLevel = "info"

// Output formats for command results.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ValidOutputs lists the accepted values of Config.Output.
var ValidOutputs = []string{OutputTable, OutputJSON}

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

package planner

import (
	"github.com/go-logr/logr"

	"github.com/nextdoor/capacity-planner/pkg/metrics"
)

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger sets the logger used for catalog mutations (Info) and for ranking
// recomputation and plan selection (V(1)). The default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(a *Allocator) {
		a.log = log
	}
}

// WithMetrics records plans, cache lookups and validation failures on m.
// A nil m disables metrics, which is also the default.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Allocator) {
		a.metrics = m
	}
}

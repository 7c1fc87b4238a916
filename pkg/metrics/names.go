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

package metrics

// This file exports metric name constants for consumers that scrape or query
// planner metrics programmatically (for example from a node-exporter textfile
// written with --metrics-file).
//
// For metric label names, see labels.go.
//
// Example usage:
//
//	query := fmt.Sprintf("min by (%s) (%s)", metrics.LabelRegion, metrics.MetricPlanTotalCost)

// Plan Metrics
//
// These metrics describe the most recent plan computed for each region.

const (
	// MetricPlansComputed counts plans returned to callers.
	// Type: Counter
	// Labels: region, strategy
	MetricPlansComputed = "capacity_planner_plans_computed_total"

	// MetricPlanTotalCost is the scaled total cost (USD) of the latest plan.
	// Type: Gauge
	// Labels: region
	MetricPlanTotalCost = "capacity_planner_plan_total_cost_dollars"

	// MetricPlanTotalCPUs is the number of CPUs the latest plan provisions.
	// Type: Gauge
	// Labels: region
	MetricPlanTotalCPUs = "capacity_planner_plan_total_cpus"

	// MetricPlanConstraintSatisfied is 1 when the latest plan satisfies the
	// constraint, 0 otherwise.
	// Type: Gauge
	// Labels: region, constraint (cpu_floor, budget)
	MetricPlanConstraintSatisfied = "capacity_planner_plan_constraint_satisfied"

	// MetricPlanningDuration measures how long a cost request took end to end.
	// Type: Histogram
	// Labels: none
	MetricPlanningDuration = "capacity_planner_planning_duration_seconds"
)

// Catalog and Cache Metrics

const (
	// MetricCatalogInstanceTypes is the number of priced instance types per region.
	// Type: Gauge
	// Labels: region
	MetricCatalogInstanceTypes = "capacity_planner_catalog_instance_types"

	// MetricRankingCacheLookups counts ranking lookups by outcome.
	// Type: Counter
	// Labels: result (hit, miss)
	MetricRankingCacheLookups = "capacity_planner_ranking_cache_lookups_total"

	// MetricRankingCacheInvalidations counts rankings dropped after a catalog change.
	// Type: Counter
	// Labels: none
	MetricRankingCacheInvalidations = "capacity_planner_ranking_cache_invalidations_total"

	// MetricRankingCacheEntries is the number of regions with a memoized ranking.
	// Type: Gauge
	// Labels: none
	MetricRankingCacheEntries = "capacity_planner_ranking_cache_entries"

	// MetricRankingCacheLastUpdate is the Unix timestamp of the last ranking
	// stored or dropped.
	// Type: Gauge
	// Labels: none
	MetricRankingCacheLastUpdate = "capacity_planner_ranking_cache_last_update_timestamp"
)

// Validation Metrics

const (
	// MetricValidationErrors counts rejected fields by operation and kind.
	// Type: Counter
	// Labels: operation, error_type (e.g., FieldValueInvalid)
	MetricValidationErrors = "capacity_planner_validation_errors_total"
)

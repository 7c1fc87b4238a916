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

// Package metrics provides Prometheus metrics for the capacity planner.
// It exposes the latest plan per region, catalog size, ranking cache
// efficiency and input validation failures.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/nextdoor/capacity-planner/pkg/allocation"
	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// Metrics holds all Prometheus metrics for the planner.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
// This lets an Allocator run with metrics disabled without nil checks at
// every call site.
type Metrics struct {
	// PlansComputed counts plans returned to callers.
	// Labels: region, strategy
	PlansComputed *prometheus.CounterVec

	// PlanTotalCost records the scaled total cost of the latest plan per region.
	// Labels: region
	PlanTotalCost *prometheus.GaugeVec

	// PlanTotalCPUs records the CPUs provisioned by the latest plan per region.
	// Labels: region
	PlanTotalCPUs *prometheus.GaugeVec

	// PlanConstraintSatisfied is 1 when the latest plan meets the constraint.
	// Constraints that were not requested are reported as satisfied.
	// Labels: region, constraint
	PlanConstraintSatisfied *prometheus.GaugeVec

	// PlanningDuration measures the time spent serving a cost request.
	PlanningDuration prometheus.Histogram

	// CatalogInstanceTypes tracks how many instance types are priced per region.
	// Regions removed from the catalog are deleted from the metric.
	// Labels: region
	CatalogInstanceTypes *prometheus.GaugeVec

	// RankingCacheLookups counts ranking lookups by outcome.
	// Labels: result
	RankingCacheLookups *prometheus.CounterVec

	// RankingCacheInvalidations counts rankings dropped by catalog mutations.
	RankingCacheInvalidations prometheus.Counter

	// RankingCacheEntries tracks how many regions have a memoized ranking.
	RankingCacheEntries prometheus.Gauge

	// RankingCacheLastUpdate records the Unix timestamp of the last ranking
	// stored or dropped. Stays unset until the cache is first touched.
	RankingCacheLastUpdate prometheus.Gauge

	// ValidationErrors counts individual rejected fields.
	// Labels: operation, error_type
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all planner metrics with the provided
// registry.
//
// Example usage:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewMetrics(reg)
//	alloc, err := planner.New(prices, cpus, planner.WithMetrics(m))
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlansComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPlansComputed,
			Help: "Number of region plans returned to callers",
		}, []string{LabelRegion, LabelStrategy}),

		PlanTotalCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricPlanTotalCost,
			Help: "Total cost in USD of the latest plan, scaled to the requested hours",
		}, []string{LabelRegion}),

		PlanTotalCPUs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricPlanTotalCPUs,
			Help: "CPUs provisioned by the latest plan",
		}, []string{LabelRegion}),

		PlanConstraintSatisfied: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricPlanConstraintSatisfied,
			Help: "Whether the latest plan satisfies the constraint (1 = satisfied, 0 = not satisfied)",
		}, []string{LabelRegion, LabelConstraint}),

		PlanningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: MetricPlanningDuration,
			Help: "Time taken to serve a cost request",
			// Planning is pure in-memory work; buckets span 10µs to ~160ms
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),

		CatalogInstanceTypes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricCatalogInstanceTypes,
			Help: "Number of priced instance types per region",
		}, []string{LabelRegion}),

		RankingCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRankingCacheLookups,
			Help: "Ranking cache lookups by result (hit or miss)",
		}, []string{LabelResult}),

		RankingCacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankingCacheInvalidations,
			Help: "Rankings dropped after a catalog mutation",
		}),

		RankingCacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRankingCacheEntries,
			Help: "Number of regions with a memoized ranking",
		}),

		RankingCacheLastUpdate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRankingCacheLastUpdate,
			Help: "Unix timestamp of the last ranking stored or dropped",
		}),

		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricValidationErrors,
			Help: "Rejected input fields by operation and error type",
		}, []string{LabelOperation, LabelErrorType}),
	}

	reg.MustRegister(
		m.PlansComputed,
		m.PlanTotalCost,
		m.PlanTotalCPUs,
		m.PlanConstraintSatisfied,
		m.PlanningDuration,
		m.CatalogInstanceTypes,
		m.RankingCacheLookups,
		m.RankingCacheInvalidations,
		m.RankingCacheEntries,
		m.RankingCacheLastUpdate,
		m.ValidationErrors,
	)

	return m
}

// ObservePlan records a plan returned for a cost request. The hours are used
// to report the same scaled cost the caller sees.
func (m *Metrics) ObservePlan(plan allocation.Plan, hours float64) {
	if m == nil {
		return
	}
	region := prometheus.Labels{LabelRegion: plan.Region}

	m.PlansComputed.With(prometheus.Labels{
		LabelRegion:   plan.Region,
		LabelStrategy: string(plan.Strategy),
	}).Inc()
	m.PlanTotalCost.With(region).Set(plan.ScaledCost(hours))
	m.PlanTotalCPUs.With(region).Set(float64(plan.TotalCPUs))
	m.PlanConstraintSatisfied.WithLabelValues(plan.Region, ConstraintCPUFloor).Set(boolToFloat(plan.MeetsCPUFloor))
	m.PlanConstraintSatisfied.WithLabelValues(plan.Region, ConstraintBudget).Set(boolToFloat(plan.WithinBudget))
}

// ObservePlanningDuration records how long a cost request took.
func (m *Metrics) ObservePlanningDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.PlanningDuration.Observe(d.Seconds())
}

// ObserveCatalog replaces the per-region instance type counts with the
// current catalog contents.
//
// The gauge is reset first so that regions no longer present disappear
// instead of reporting stale counts.
func (m *Metrics) ObserveCatalog(c catalog.Catalog) {
	if m == nil {
		return
	}
	m.CatalogInstanceTypes.Reset()
	for region, prices := range c {
		m.CatalogInstanceTypes.With(prometheus.Labels{LabelRegion: region}).Set(float64(len(prices)))
	}
}

// ObserveRankingLookup records a ranking cache hit or miss.
func (m *Metrics) ObserveRankingLookup(hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.RankingCacheLookups.WithLabelValues(result).Inc()
}

// ObserveRankingInvalidations records rankings dropped by a catalog mutation.
func (m *Metrics) ObserveRankingInvalidations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RankingCacheInvalidations.Add(float64(n))
}

// ObserveRankingCache records the ranking cache size and when it last
// changed. A zero lastUpdate leaves the timestamp unset.
func (m *Metrics) ObserveRankingCache(entries int, lastUpdate time.Time) {
	if m == nil {
		return
	}
	m.RankingCacheEntries.Set(float64(entries))
	if !lastUpdate.IsZero() {
		m.RankingCacheLastUpdate.Set(float64(lastUpdate.Unix()))
	}
}

// ObserveValidationErrors records one increment per rejected field.
func (m *Metrics) ObserveValidationErrors(operation string, errs field.ErrorList) {
	if m == nil {
		return
	}
	for _, err := range errs {
		m.ValidationErrors.WithLabelValues(operation, string(err.Type)).Inc()
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

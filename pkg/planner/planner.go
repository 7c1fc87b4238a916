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

// Package planner plans compute reservations across regions.
//
// An Allocator owns a price catalog and a CPU table. For every cost request it
// ranks each region's instance types by value, fills the request greedily
// (by CPU floor, by budget ceiling, or both reconciled), scales the result to
// the requested hours and returns the regions cheapest first.
//
// # Concurrency
//
// An Allocator is not safe for concurrent use. It assumes a single logical
// writer at a time; callers that share one across goroutines must serialize
// every call themselves, typically with a sync.Mutex.
package planner

import (
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/nextdoor/capacity-planner/internal/cache"
	"github.com/nextdoor/capacity-planner/pkg/allocation"
	"github.com/nextdoor/capacity-planner/pkg/catalog"
	"github.com/nextdoor/capacity-planner/pkg/metrics"
)

var (
	regionPath       = field.NewPath("region")
	instanceTypePath = field.NewPath("instanceType")
)

// Allocator plans reservations against its own copy of a price catalog.
type Allocator struct {
	catalog  catalog.Catalog
	cpus     catalog.CPUTable
	rankings *cache.RankingCache

	log     logr.Logger
	metrics *metrics.Metrics
}

// New validates the catalog and CPU table and returns an Allocator holding
// deep copies of both. Nothing is retained when validation fails; the error is
// a *ValidationError listing every problem found.
func New(prices catalog.Catalog, cpus catalog.CPUTable, opts ...Option) (*Allocator, error) {
	a := &Allocator{
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if errs := catalog.Validate(prices, cpus); len(errs) > 0 {
		a.metrics.ObserveValidationErrors(metrics.OperationNew, errs)
		return nil, asError(errs)
	}

	a.catalog = prices.Clone()
	a.cpus = cpus.Clone()
	a.rankings = cache.NewRankingCache()
	a.metrics.ObserveCatalog(a.catalog)

	a.log.V(1).Info("Allocator created",
		"regions", len(a.catalog),
		"instanceTypes", len(a.cpus))

	return a, nil
}

// Prices returns a snapshot of the current catalog. Modifying the snapshot
// does not affect the Allocator.
func (a *Allocator) Prices() catalog.Catalog {
	return a.catalog.Clone()
}

// CPUs returns a snapshot of the CPU table.
func (a *Allocator) CPUs() catalog.CPUTable {
	return a.cpus.Clone()
}

// UpsertInstance sets the hourly price of an instance type in a region,
// creating the region if needed, and invalidates that region's ranking.
//
// The instance type must already be in the CPU table. On a validation error
// the catalog and ranking cache are left untouched.
func (a *Allocator) UpsertInstance(region, instanceType string, price float64) error {
	var errs field.ErrorList
	if strings.TrimSpace(region) == "" {
		errs = append(errs, field.Required(regionPath, "region name must not be empty"))
	}
	if strings.TrimSpace(instanceType) == "" {
		errs = append(errs, field.Required(instanceTypePath, "instance type name must not be empty"))
	} else {
		errs = append(errs, catalog.ValidateInstancePrice(field.NewPath("price"), instanceType, price, a.cpus)...)
	}
	if len(errs) > 0 {
		a.metrics.ObserveValidationErrors(metrics.OperationUpsert, errs)
		return asError(errs)
	}

	prices, ok := a.catalog[region]
	if !ok {
		prices = catalog.RegionPrices{}
		a.catalog[region] = prices
	}
	previous, existed := prices[instanceType]
	prices[instanceType] = price
	a.invalidate(region)
	a.metrics.ObserveCatalog(a.catalog)

	if existed {
		a.log.Info("Updated instance price",
			"region", region,
			"instanceType", instanceType,
			"previousPrice", previous,
			"price", price)
	} else {
		a.log.Info("Added instance",
			"region", region,
			"instanceType", instanceType,
			"price", price,
			"newRegion", !ok)
	}
	return nil
}

// RemoveInstance deletes an instance type from a region and invalidates the
// region's ranking. Removing an unknown region or instance type is a no-op.
//
// A region left with no instance types stays in the catalog and produces an
// empty plan.
func (a *Allocator) RemoveInstance(region, instanceType string) error {
	var errs field.ErrorList
	if strings.TrimSpace(region) == "" {
		errs = append(errs, field.Required(regionPath, "region name must not be empty"))
	}
	if strings.TrimSpace(instanceType) == "" {
		errs = append(errs, field.Required(instanceTypePath, "instance type name must not be empty"))
	}
	if len(errs) > 0 {
		a.metrics.ObserveValidationErrors(metrics.OperationRemove, errs)
		return asError(errs)
	}

	prices, ok := a.catalog[region]
	if !ok {
		return nil
	}
	if _, ok := prices[instanceType]; !ok {
		return nil
	}

	delete(prices, instanceType)
	a.invalidate(region)
	a.metrics.ObserveCatalog(a.catalog)

	a.log.Info("Removed instance",
		"region", region,
		"instanceType", instanceType,
		"remainingTypes", len(prices))
	return nil
}

// Ranking returns a copy of the region's instance types ordered best value
// first.
func (a *Allocator) Ranking(region string) ([]string, error) {
	if _, ok := a.catalog[region]; !ok {
		errs := field.ErrorList{field.NotFound(regionPath, region)}
		a.metrics.ObserveValidationErrors(metrics.OperationRanking, errs)
		return nil, asError(errs)
	}
	ranked := a.ranking(region)
	return append([]string(nil), ranked...), nil
}

// Costs plans the request in every selected region and returns one record per
// region, cheapest first.
//
// The strategy depends on which constraints are set:
//   - CPUs only: fill the CPU floor with the best-value types
//   - Price only: spend the per-hour budget on the best-value types
//   - both: run both fills and keep the budget plan unless it misses a
//     constraint that the capacity plan satisfies
//
// A plan that cannot meet a constraint is not an error; it is reported through
// the record's MeetsCPUFloor and WithinBudget flags.
func (a *Allocator) Costs(req CostRequest) (*Response, error) {
	start := time.Now()

	if errs := req.validate(a.catalog); len(errs) > 0 {
		a.metrics.ObserveValidationErrors(metrics.OperationCosts, errs)
		return nil, asError(errs)
	}

	c := req.constraints()
	regions := req.regions(a.catalog)
	plans := make([]allocation.Plan, 0, len(regions))

	for _, region := range regions {
		plan := a.plan(region, c)
		a.metrics.ObservePlan(plan, c.Hours)
		plans = append(plans, plan)
	}

	resp := assemble(plans, c.Hours)
	a.metrics.ObservePlanningDuration(time.Since(start))
	return resp, nil
}

// plan computes the per-hour plan for one region under the constraints.
func (a *Allocator) plan(region string, c allocation.Constraints) allocation.Plan {
	ranked := a.ranking(region)
	prices := a.catalog[region]

	switch {
	case c.HasCPUFloor() && c.HasBudget():
		chosen := allocation.Reconcile(region, ranked, prices, a.cpus, c)
		a.log.V(1).Info("Reconciled plans",
			"region", region,
			"chosen", chosen.Strategy,
			"meetsCPUFloor", chosen.MeetsCPUFloor,
			"withinBudget", chosen.WithinBudget)
		return chosen

	case c.HasCPUFloor():
		return allocation.Evaluate(allocation.AllocateByCPU(region, ranked, prices, a.cpus, c.MinCPUs), c)

	default:
		return allocation.Evaluate(allocation.AllocateByBudget(region, ranked, prices, a.cpus, c.SpendPerHour()), c)
	}
}

// ranking returns the memoized ranking for a region, computing it on a miss.
func (a *Allocator) ranking(region string) []string {
	ranked, ok := a.rankings.Get(region)
	a.metrics.ObserveRankingLookup(ok)
	if ok {
		return ranked
	}

	ranked = allocation.Rank(a.catalog[region], a.cpus)
	a.rankings.Put(region, ranked)
	a.metrics.ObserveRankingCache(a.rankings.Len(), a.rankings.GetLastUpdate())

	a.log.V(1).Info("Computed ranking",
		"region", region,
		"ranking", ranked)
	return ranked
}

// invalidate drops the memoized ranking for a region.
func (a *Allocator) invalidate(region string) {
	if a.rankings.Invalidate(region) {
		a.metrics.ObserveRankingInvalidations(1)
		a.metrics.ObserveRankingCache(a.rankings.Len(), a.rankings.GetLastUpdate())
		a.log.V(1).Info("Invalidated ranking", "region", region)
	}
}

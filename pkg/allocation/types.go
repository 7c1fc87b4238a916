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

// Package allocation implements the instance ranking and greedy allocation
// engine used to build a per-region provisioning plan.
//
// The engine works in three steps:
//  1. Rank: order a region's instance types by effective value, i.e. the cost
//     of covering a fixed large reference capacity using only that type.
//  2. Fill: walk the ranked list greedily, either until a CPU target is met
//     (AllocateByCPU) or until an hourly budget is exhausted (AllocateByBudget).
//  3. Reconcile: when both a CPU floor and a budget ceiling are supplied, run
//     both fills and pick one plan per region using a fixed precedence rule.
//
// Every function in this package is pure. Inputs are passed explicitly
// (ranked list, region prices, CPU table, target) and nothing is cached here;
// memoizing rankings is the caller's concern.
//
// All costs in this package are hourly ($/hour) unless a function says
// otherwise. Scaling by reservation length happens in ScaledCost.
package allocation

import (
	"math"

	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// Strategy identifies which greedy fill produced a plan.
type Strategy string

const (
	// StrategyCapacity indicates the plan was built by filling a CPU target.
	StrategyCapacity Strategy = "capacity"

	// StrategyBudget indicates the plan was built by exhausting an hourly budget.
	StrategyBudget Strategy = "budget"
)

// LineItem is a quantity of one instance type within a plan.
type LineItem struct {
	// InstanceType is the instance type name (e.g., "8xlarge")
	InstanceType string `json:"instanceType"`

	// Count is how many instances of this type the plan provisions. Always >= 1;
	// types with a zero count are never emitted.
	Count int `json:"count"`
}

// Plan is the allocation chosen for a single region.
//
// HourlyCost and TotalCPUs are always exact sums over LineItems; they are
// accumulated while the plan is built and never estimated.
type Plan struct {
	// Region is the region the plan was computed for
	Region string

	// Strategy records which fill produced the plan
	Strategy Strategy

	// HourlyCost is sum(price * count) over LineItems ($/hour, unrounded)
	HourlyCost float64

	// TotalCPUs is sum(cpus * count) over LineItems
	TotalCPUs int

	// LineItems are the selected instance types in rank order
	LineItems []LineItem

	// MeetsCPUFloor is true when TotalCPUs reaches the requested CPU floor,
	// or when no floor was requested.
	MeetsCPUFloor bool

	// WithinBudget is true when the hours-scaled cost does not exceed the
	// requested budget ceiling, or when no ceiling was requested.
	WithinBudget bool
}

// Satisfied reports whether the plan meets both the CPU floor and the budget
// ceiling.
func (p Plan) Satisfied() bool {
	return p.MeetsCPUFloor && p.WithinBudget
}

// ScaledCost returns the plan's cost over the given number of hours. The
// hourly cost is rounded to cents before scaling and the product is rounded
// again.
func (p Plan) ScaledCost(hours float64) float64 {
	return RoundCents(RoundCents(p.HourlyCost) * hours)
}

// add appends a line item and folds it into the running totals.
func (p *Plan) add(instanceType string, count int, prices catalog.RegionPrices, cpus catalog.CPUTable) {
	p.LineItems = append(p.LineItems, LineItem{InstanceType: instanceType, Count: count})
	p.HourlyCost += float64(count) * prices[instanceType]
	p.TotalCPUs += count * cpus[instanceType]
}

// Constraints describes what the caller asked for. A zero MinCPUs means no
// CPU floor; a zero MaxBudget means no budget ceiling.
type Constraints struct {
	// Hours is the reservation length. Must be >= 1.
	Hours float64

	// MinCPUs is the CPU floor
	MinCPUs int

	// MaxBudget is the budget ceiling over the whole reservation ($, not $/hour)
	MaxBudget float64
}

// HasCPUFloor reports whether a CPU floor was requested.
func (c Constraints) HasCPUFloor() bool {
	return c.MinCPUs > 0
}

// HasBudget reports whether a budget ceiling was requested.
func (c Constraints) HasBudget() bool {
	return c.MaxBudget > 0
}

// SpendPerHour converts the budget ceiling into an hourly figure rounded to
// cents. Returns 0 when no ceiling was requested.
func (c Constraints) SpendPerHour() float64 {
	if !c.HasBudget() || c.Hours <= 0 {
		return 0
	}
	return RoundCents(c.MaxBudget / c.Hours)
}

// Evaluate sets the plan's satisfaction flags against the constraints.
//
// The budget check compares the hours-scaled, cent-rounded cost with the
// ceiling, which is the same figure reported to callers.
func Evaluate(p Plan, c Constraints) Plan {
	p.MeetsCPUFloor = !c.HasCPUFloor() || p.TotalCPUs >= c.MinCPUs
	p.WithinBudget = !c.HasBudget() || p.ScaledCost(c.Hours) <= c.MaxBudget
	return p
}

// RoundCents rounds a money value to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

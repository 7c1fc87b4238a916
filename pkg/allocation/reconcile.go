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

package allocation

import (
	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// Reconcile builds a plan for a region when both a CPU floor and a budget
// ceiling are supplied.
//
// Both fills run:
//   - a budget fill over the ceiling converted to an hourly figure
//   - a capacity fill over the CPU floor; the ceiling only feeds its
//     WithinBudget flag and never constrains the loop
//
// The budget plan is the default. The capacity plan replaces it only when the
// budget plan fails at least one check AND the capacity plan passes both. In
// every other case the budget plan is kept, even when it fails one or both
// checks itself: the capacity plan is a fallback, never a tie-breaker.
func Reconcile(
	region string,
	ranked []string,
	prices catalog.RegionPrices,
	cpus catalog.CPUTable,
	c Constraints,
) Plan {
	byBudget := Evaluate(AllocateByBudget(region, ranked, prices, cpus, c.SpendPerHour()), c)
	byCPU := Evaluate(AllocateByCPU(region, ranked, prices, cpus, c.MinCPUs), c)
	return Choose(byBudget, byCPU)
}

// Choose applies the reconciliation precedence to two evaluated plans for the
// same region and returns the one to report.
func Choose(byBudget, byCPU Plan) Plan {
	if !byBudget.Satisfied() && byCPU.Satisfied() {
		return byCPU
	}
	return byBudget
}

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

// AllocateByCPU greedily fills a CPU target from a ranked list.
//
// Algorithm:
//  1. remaining = targetCPUs
//  2. For each ranked type in order, stop if remaining is smaller than the CPU
//     count of the worst-ranked type: no type can make progress past that
//     granularity without overshooting.
//  3. Otherwise take floor(remaining / cpus[type]) instances of the type,
//     subtract the CPUs consumed, and move on even when the count was zero.
//  4. Stop when remaining reaches zero or the list is exhausted.
//
// The fill never provisions more CPUs than requested. When the target cannot
// be reached the plan is returned with MeetsCPUFloor=false; that is not an
// error. WithinBudget is left true; callers with a ceiling run Evaluate.
func AllocateByCPU(
	region string,
	ranked []string,
	prices catalog.RegionPrices,
	cpus catalog.CPUTable,
	targetCPUs int,
) Plan {
	plan := Plan{
		Region:       region,
		Strategy:     StrategyCapacity,
		LineItems:    []LineItem{},
		WithinBudget: true,
	}

	remaining := targetCPUs
	for index := 0; remaining > 0; index++ {
		if index >= len(ranked) || remaining < cpus[ranked[len(ranked)-1]] {
			break
		}

		instanceType := ranked[index]
		capacity := cpus[instanceType]
		if capacity <= 0 {
			continue
		}

		count := remaining / capacity
		if count > 0 {
			plan.add(instanceType, count, prices, cpus)
			remaining -= count * capacity
		}
	}

	plan.MeetsCPUFloor = plan.TotalCPUs >= targetCPUs
	return plan
}

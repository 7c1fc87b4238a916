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
	"math"

	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// AllocateByBudget greedily spends an hourly budget over a ranked list.
//
// Algorithm:
//  1. remaining = spendPerHour
//  2. For each ranked type in order, take floor(remaining / price[type])
//     instances, subtract their cost, and round remaining to cents so that
//     floating-point drift does not accumulate across steps.
//  3. Move on even when the count was zero; stop when the list is exhausted.
//
// With prices quoted in fractions of a cent the exact HourlyCost can pass
// spendPerHour by less than half a cent; the cent-rounded hourly figure that
// ScaledCost reports does not. MeetsCPUFloor and WithinBudget are left true;
// callers with constraints run Evaluate.
func AllocateByBudget(
	region string,
	ranked []string,
	prices catalog.RegionPrices,
	cpus catalog.CPUTable,
	spendPerHour float64,
) Plan {
	plan := Plan{
		Region:        region,
		Strategy:      StrategyBudget,
		LineItems:     []LineItem{},
		MeetsCPUFloor: true,
		WithinBudget:  true,
	}

	remaining := spendPerHour
	for _, instanceType := range ranked {
		price := prices[instanceType]
		if price <= 0 || remaining <= 0 {
			continue
		}

		count := int(math.Floor(remaining / price))
		if count <= 0 {
			continue
		}

		plan.add(instanceType, count, prices, cpus)
		remaining = RoundCents(remaining - float64(count)*price)
		if remaining < 0 {
			remaining = 0
		}
	}

	return plan
}

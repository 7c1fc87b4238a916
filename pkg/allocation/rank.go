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
	"sort"

	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// referenceMultiplier scales the largest CPU count in a region to obtain the
// reference capacity every instance type is normalised against.
const referenceMultiplier = 2

// Rank orders the instance types of one region from best to worst value.
//
// Value is measured as the cost of covering a reference capacity using only
// copies of a given type:
//
//	referenceCapacity = cpus[largest type in region] * 2
//	normalizedCost(t) = price[t] * (referenceCapacity / cpus[t])
//
// Ranking by plain price-per-CPU favours types that are efficient in isolation
// but poor at covering large demand; normalising against a fixed bulk target
// reflects how the greedy fills actually consume the list.
//
// Types are sorted ascending by normalized cost. The sort is stable over the
// types in name order, so equal-cost types always come out in name order and
// re-ranking an unchanged region yields an identical list.
//
// The result is a permutation of the region's price map keys. An empty region
// yields an empty, non-nil list.
func Rank(prices catalog.RegionPrices, cpus catalog.CPUTable) []string {
	types := prices.InstanceTypes()
	if len(types) == 0 {
		return types
	}

	referenceCapacity := referenceCapacity(types, prices, cpus)

	normalized := make(map[string]float64, len(types))
	for _, t := range types {
		normalized[t] = prices[t] * (referenceCapacity / float64(cpus[t]))
	}

	sort.SliceStable(types, func(i, j int) bool {
		return normalized[types[i]] < normalized[types[j]]
	})
	return types
}

// referenceCapacity returns twice the largest CPU count among types. If no
// type has a usable CPU count it falls back to the price of the first type,
// which keeps the ranking defined for unvalidated input.
func referenceCapacity(types []string, prices catalog.RegionPrices, cpus catalog.CPUTable) float64 {
	maxCPU := 0
	for _, t := range types {
		if cpus[t] > maxCPU {
			maxCPU = cpus[t]
		}
	}
	if maxCPU <= 0 {
		return prices[types[0]]
	}
	return float64(maxCPU * referenceMultiplier)
}

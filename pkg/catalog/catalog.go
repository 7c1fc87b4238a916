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

// Package catalog holds the static reference data the planner allocates from:
// per-region hourly prices for each instance type, and the global table of
// CPU counts per instance type.
//
// The catalog is plain data. It carries no caching or synchronization of its
// own; the planner owns a catalog instance and is responsible for invalidating
// anything derived from it when it changes.
package catalog

import (
	"sort"
)

// CPUTable maps an instance type name to the number of CPUs it provides.
// It is shared read-only reference data and is not owned by any region.
type CPUTable map[string]int

// RegionPrices maps an instance type name to its hourly price ($/hour)
// in a single region.
type RegionPrices map[string]float64

// Catalog maps a region name to the prices of the instance types offered there.
type Catalog map[string]RegionPrices

// Clone returns a deep copy of the catalog. Mutating the copy never affects
// the original.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for region, prices := range c {
		out[region] = prices.Clone()
	}
	return out
}

// Regions returns the region names in lexical order.
func (c Catalog) Regions() []string {
	regions := make([]string, 0, len(c))
	for region := range c {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// Clone returns a copy of the price map.
func (p RegionPrices) Clone() RegionPrices {
	out := make(RegionPrices, len(p))
	for instanceType, price := range p {
		out[instanceType] = price
	}
	return out
}

// InstanceTypes returns the instance type names priced in this region,
// in lexical order. This is the base order that ties in the value ranking
// fall back to.
func (p RegionPrices) InstanceTypes() []string {
	types := make([]string, 0, len(p))
	for instanceType := range p {
		types = append(types, instanceType)
	}
	sort.Strings(types)
	return types
}

// Clone returns a copy of the CPU table.
func (t CPUTable) Clone() CPUTable {
	out := make(CPUTable, len(t))
	for instanceType, cpus := range t {
		out[instanceType] = cpus
	}
	return out
}

// InstanceTypes returns the instance type names in the table, in lexical order.
func (t CPUTable) InstanceTypes() []string {
	types := make([]string, 0, len(t))
	for instanceType := range t {
		types = append(types, instanceType)
	}
	sort.Strings(types)
	return types
}

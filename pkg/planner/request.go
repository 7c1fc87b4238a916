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
	"math"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/nextdoor/capacity-planner/pkg/allocation"
	"github.com/nextdoor/capacity-planner/pkg/catalog"
)

// MinHours is the shortest reservation a cost request may ask for.
const MinHours = 1

// CostRequest describes a reservation to plan for.
//
// At least one of CPUs and Price must be set. Supplying only CPUs plans by
// capacity, only Price plans by budget, and both reconciles the two plans per
// region. Use k8s.io/utils/ptr to fill the optional fields:
//
//	req := planner.CostRequest{Hours: 7, CPUs: ptr.To(214), Price: ptr.To(95.0)}
type CostRequest struct {
	// Hours is the reservation length. Must be at least MinHours.
	Hours float64

	// CPUs is the minimum number of CPUs to provision (the CPU floor).
	CPUs *int

	// Price is the maximum total spend over the whole reservation
	// (the budget ceiling), in dollars.
	Price *float64

	// Regions restricts planning to the named regions. Empty means every
	// region in the catalog.
	Regions []string
}

var (
	hoursPath   = field.NewPath("hours")
	cpusPath    = field.NewPath("cpus")
	pricePath   = field.NewPath("price")
	regionsPath = field.NewPath("regions")
)

// validate checks the request against the catalog it will be planned on.
func (r CostRequest) validate(c catalog.Catalog) field.ErrorList {
	var errs field.ErrorList

	switch {
	case math.IsNaN(r.Hours) || math.IsInf(r.Hours, 0):
		errs = append(errs, field.Invalid(hoursPath, r.Hours, "hours must be a finite number"))
	case r.Hours < MinHours:
		errs = append(errs, field.Invalid(hoursPath, r.Hours, "hours must be at least 1"))
	}

	if r.CPUs == nil && r.Price == nil {
		errs = append(errs, field.Required(cpusPath, "at least one of cpus or price is required"))
	}
	if r.CPUs != nil && *r.CPUs < 1 {
		errs = append(errs, field.Invalid(cpusPath, *r.CPUs, "cpus must be at least 1"))
	}
	if r.Price != nil {
		if err := catalog.ValidatePrice(pricePath, *r.Price); err != nil {
			errs = append(errs, err)
		}
	}

	seen := sets.New[string]()
	for i, region := range r.Regions {
		path := regionsPath.Index(i)
		if seen.Has(region) {
			errs = append(errs, field.Duplicate(path, region))
			continue
		}
		seen.Insert(region)
		if _, ok := c[region]; !ok {
			errs = append(errs, field.NotFound(path, region))
		}
	}

	return errs
}

// constraints converts a validated request into allocation constraints.
func (r CostRequest) constraints() allocation.Constraints {
	c := allocation.Constraints{Hours: r.Hours}
	if r.CPUs != nil {
		c.MinCPUs = *r.CPUs
	}
	if r.Price != nil {
		c.MaxBudget = *r.Price
	}
	return c
}

// regions returns the regions to plan for, in name order.
func (r CostRequest) regions(c catalog.Catalog) []string {
	if len(r.Regions) == 0 {
		return c.Regions()
	}
	return slices.Sorted(slices.Values(r.Regions))
}

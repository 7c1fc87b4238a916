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
	"sort"
	"strconv"

	"github.com/nextdoor/capacity-planner/pkg/allocation"
)

// AllocationRecord is the planned allocation for one region, scaled to the
// requested reservation length.
type AllocationRecord struct {
	// Region is the region name
	Region string `json:"region"`

	// TotalCost is the cent-rounded hourly cost multiplied by TotalHours, rounded
	// to cents again
	TotalCost float64 `json:"totalCost"`

	// FormattedCost is TotalCost with a dollar prefix (e.g., "$132.16")
	FormattedCost string `json:"formattedCost"`

	// TotalCPUs is the number of CPUs the line items provision
	TotalCPUs int `json:"totalCPUs"`

	// TotalHours echoes the requested reservation length
	TotalHours float64 `json:"totalHours"`

	// Strategy is the allocator that produced the plan
	Strategy allocation.Strategy `json:"strategy"`

	// LineItems lists instance quantities in rank order
	LineItems []allocation.LineItem `json:"lineItems"`

	// MeetsCPUFloor is false when a CPU floor was requested and not reached
	MeetsCPUFloor bool `json:"meetsCPUFloor"`

	// WithinBudget is false when a budget ceiling was requested and exceeded
	WithinBudget bool `json:"withinBudget"`
}

// Response is the result of a cost request: one record per planned region,
// cheapest first.
type Response struct {
	Result []AllocationRecord `json:"result"`
}

// Cheapest returns the first (lowest cost) record, or false if no region was
// planned.
func (r *Response) Cheapest() (AllocationRecord, bool) {
	if len(r.Result) == 0 {
		return AllocationRecord{}, false
	}
	return r.Result[0], true
}

// Record returns the record for a region, or false if it was not planned.
func (r *Response) Record(region string) (AllocationRecord, bool) {
	for _, record := range r.Result {
		if record.Region == region {
			return record, true
		}
	}
	return AllocationRecord{}, false
}

// FormatCost renders a dollar amount with a "$" prefix and no trailing zeros.
//
// Examples:
//
//	FormatCost(132.16) // "$132.16"
//	FormatCost(94.4)   // "$94.4"
//	FormatCost(0)      // "$0"
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', -1, 64)
}

// assemble scales each plan by the requested hours and orders the records
// ascending by total cost. Plans with equal cost keep their input order.
func assemble(plans []allocation.Plan, hours float64) *Response {
	records := make([]AllocationRecord, 0, len(plans))
	for _, plan := range plans {
		cost := plan.ScaledCost(hours)
		records = append(records, AllocationRecord{
			Region:        plan.Region,
			TotalCost:     cost,
			FormattedCost: FormatCost(cost),
			TotalCPUs:     plan.TotalCPUs,
			TotalHours:    hours,
			Strategy:      plan.Strategy,
			LineItems:     plan.LineItems,
			MeetsCPUFloor: plan.MeetsCPUFloor,
			WithinBudget:  plan.WithinBudget,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TotalCost < records[j].TotalCost
	})

	return &Response{Result: records}
}

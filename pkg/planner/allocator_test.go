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

package planner_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"

	"github.com/nextdoor/capacity-planner/pkg/allocation"
	"github.com/nextdoor/capacity-planner/pkg/catalog"
	"github.com/nextdoor/capacity-planner/pkg/planner"
)

// regionsOf returns the region order of a response.
func regionsOf(resp *planner.Response) []string {
	regions := make([]string, 0, len(resp.Result))
	for _, r := range resp.Result {
		regions = append(regions, r.Region)
	}
	return regions
}

// cpusOf recomputes the CPUs of a record from its line items.
func cpusOf(r planner.AllocationRecord, cpus catalog.CPUTable) int {
	total := 0
	for _, item := range r.LineItems {
		total += item.Count * cpus[item.InstanceType]
	}
	return total
}

var _ = Describe("Allocator", func() {
	var alloc *planner.Allocator

	BeforeEach(func() {
		var err error
		alloc, err = planner.New(catalog.Default(), catalog.DefaultCPUTable(), planner.WithLogger(GinkgoLogr))
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when only a CPU floor is requested", func() {
		It("meets the floor in every region and sorts by cost", func() {
			resp, err := alloc.Costs(planner.CostRequest{Hours: 7, CPUs: ptr.To(214)})
			Expect(err).NotTo(HaveOccurred())

			Expect(regionsOf(resp)).To(Equal([]string{"asia", "us-west", "us-east"}))
			for _, r := range resp.Result {
				Expect(r.TotalCPUs).To(BeNumerically(">=", 214))
				Expect(r.TotalCPUs).To(Equal(cpusOf(r, catalog.DefaultCPUTable())))
				Expect(r.MeetsCPUFloor).To(BeTrue())
				Expect(r.Strategy).To(Equal(allocation.StrategyCapacity))
			}
			Expect(resp.Result[2].FormattedCost).To(Equal("$132.16"))
		})

		It("consumes the best-value type first", func() {
			resp, err := alloc.Costs(planner.CostRequest{Hours: 7, CPUs: ptr.To(214), Regions: []string{"us-east"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Result).To(HaveLen(1))
			Expect(resp.Result[0].LineItems[0]).To(Equal(allocation.LineItem{InstanceType: "8xlarge", Count: 13}))
		})
	})

	Context("when only a budget ceiling is requested", func() {
		It("never exceeds the budget", func() {
			resp, err := alloc.Costs(planner.CostRequest{Hours: 24, Price: ptr.To(115.0)})
			Expect(err).NotTo(HaveOccurred())

			Expect(resp.Result).To(HaveLen(3))
			for _, r := range resp.Result {
				Expect(r.TotalCost).To(BeNumerically("<=", 115))
				Expect(r.MeetsCPUFloor).To(BeTrue())
				Expect(r.WithinBudget).To(BeTrue())
				Expect(r.TotalHours).To(Equal(24.0))
			}
		})

		It("buys at least as many CPUs with a larger budget", func() {
			previous := map[string]int{}
			for _, budget := range []float64{10, 29, 60, 115, 240, 500} {
				resp, err := alloc.Costs(planner.CostRequest{Hours: 8, Price: ptr.To(budget)})
				Expect(err).NotTo(HaveOccurred())
				for _, r := range resp.Result {
					Expect(r.TotalCPUs).To(BeNumerically(">=", previous[r.Region]), "region %s at $%v", r.Region, budget)
					previous[r.Region] = r.TotalCPUs
				}
			}
		})
	})

	Context("when both a CPU floor and a budget ceiling are requested", func() {
		It("keeps the budget plan when the capacity plan is over budget", func() {
			resp, err := alloc.Costs(planner.CostRequest{Hours: 7, CPUs: ptr.To(214), Price: ptr.To(95.0)})
			Expect(err).NotTo(HaveOccurred())

			Expect(regionsOf(resp)).To(Equal([]string{"asia", "us-east", "us-west"}))
			for _, r := range resp.Result {
				Expect(r.Strategy).To(Equal(allocation.StrategyBudget))
				Expect(r.MeetsCPUFloor).To(BeFalse())
				Expect(r.WithinBudget).To(BeTrue())
			}
		})

		It("keeps the budget plan when it already satisfies both", func() {
			resp, err := alloc.Costs(planner.CostRequest{Hours: 7, CPUs: ptr.To(100), Price: ptr.To(95.0)})
			Expect(err).NotTo(HaveOccurred())
			for _, r := range resp.Result {
				Expect(r.Strategy).To(Equal(allocation.StrategyBudget))
				Expect(r.MeetsCPUFloor).To(BeTrue())
				Expect(r.WithinBudget).To(BeTrue())
			}
		})

		It("falls back to the capacity plan when it satisfies both and the budget plan does not", func() {
			edge, err := planner.New(
				catalog.Catalog{"edge": {"pair": 6.67, "single": 4.0}},
				catalog.CPUTable{"pair": 2, "single": 1},
			)
			Expect(err).NotTo(HaveOccurred())

			resp, err := edge.Costs(planner.CostRequest{Hours: 3, CPUs: ptr.To(1), Price: ptr.To(20.0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Result).To(HaveLen(1))
			Expect(resp.Result[0].Strategy).To(Equal(allocation.StrategyCapacity))
			Expect(resp.Result[0].WithinBudget).To(BeTrue())
		})
	})

	Context("when the catalog is mutated", func() {
		It("restores the ranking after an upsert and remove round trip", func() {
			cpus := catalog.DefaultCPUTable()
			cpus["16xlarge"] = 64
			extended, err := planner.New(catalog.Default(), cpus)
			Expect(err).NotTo(HaveOccurred())

			for _, region := range extended.Prices().Regions() {
				before, err := extended.Ranking(region)
				Expect(err).NotTo(HaveOccurred())

				Expect(extended.UpsertInstance(region, "16xlarge", 0.5)).To(Succeed())
				during, err := extended.Ranking(region)
				Expect(err).NotTo(HaveOccurred())
				Expect(during).To(HaveLen(len(before) + 1))

				Expect(extended.RemoveInstance(region, "16xlarge")).To(Succeed())
				after, err := extended.Ranking(region)
				Expect(err).NotTo(HaveOccurred())
				Expect(after).To(Equal(before), "region %s", region)
			}
		})

		It("ranks a permutation of the region's instance types", func() {
			Expect(alloc.UpsertInstance(catalog.RegionAsia, catalog.X10Large, 2.5)).To(Succeed())

			ranked, err := alloc.Ranking(catalog.RegionAsia)
			Expect(err).NotTo(HaveOccurred())
			Expect(sets.New(ranked...).Equal(sets.KeySet(alloc.Prices()[catalog.RegionAsia]))).To(BeTrue())
			Expect(ranked).To(HaveLen(5))
		})

		It("leaves the catalog untouched when a mutation is rejected", func() {
			before := alloc.Prices()

			err := alloc.UpsertInstance(catalog.RegionUSEast, catalog.Large, -1)
			Expect(planner.IsValidationError(err)).To(BeTrue())
			Expect(alloc.Prices()).To(Equal(before))
		})

		It("treats removing an unknown instance as a no-op", func() {
			Expect(alloc.RemoveInstance("mars", catalog.Large)).To(Succeed())
			Expect(alloc.Prices()).To(Equal(catalog.Default()))
		})
	})

	Context("when the request is malformed", func() {
		DescribeTable("rejects it with a ValidationError",
			func(req planner.CostRequest, field string) {
				resp, err := alloc.Costs(req)
				Expect(resp).To(BeNil())
				Expect(planner.IsValidationError(err)).To(BeTrue())
				Expect(planner.FieldErrors(err)[0].Field).To(Equal(field))
			},
			Entry("hours below one", planner.CostRequest{Hours: 0, CPUs: ptr.To(1)}, "hours"),
			Entry("no cpus or price", planner.CostRequest{Hours: 7}, "cpus"),
			Entry("non-positive price", planner.CostRequest{Hours: 7, Price: ptr.To(-5.0)}, "price"),
			Entry("unknown region", planner.CostRequest{Hours: 7, CPUs: ptr.To(1), Regions: []string{"mars"}}, "regions[0]"),
		)
	})
})

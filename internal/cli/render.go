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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nextdoor/capacity-planner/pkg/allocation"
	"github.com/nextdoor/capacity-planner/pkg/catalog"
	"github.com/nextdoor/capacity-planner/pkg/config"
	"github.com/nextdoor/capacity-planner/pkg/planner"
)

const (
	regionColumn       = "Region"
	strategyColumn     = "Strategy"
	totalCostColumn    = "Total Cost"
	cpusColumn         = "CPUs"
	hoursColumn        = "Hours"
	cpuFloorColumn     = "CPU Floor"
	budgetColumn       = "Budget"
	instancesColumn    = "Instances"
	rankColumn         = "Rank"
	instanceTypeColumn = "Instance Type"
	priceColumn        = "USD/Hour"
	pricePerCPUColumn  = "USD/CPU/Hour"
)

// regionRanking is the value order of one region.
type regionRanking struct {
	Region        string   `json:"region"`
	InstanceTypes []string `json:"instanceTypes"`
}

type pricesView struct {
	Prices catalog.Catalog  `json:"prices"`
	CPUs   catalog.CPUTable `json:"cpus"`
}

type rankingsView struct {
	Rankings []regionRanking `json:"rankings"`
}

// writeJSON encodes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// newTable returns a table writer that renders to w in the house style.
func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleLight)
	return t
}

func renderCosts(w io.Writer, output string, resp *planner.Response) error {
	if output == config.OutputJSON {
		return writeJSON(w, resp)
	}

	t := newTable(w, table.Row{
		regionColumn, strategyColumn, totalCostColumn, cpusColumn, hoursColumn,
		cpuFloorColumn, budgetColumn, instancesColumn,
	})
	for _, r := range resp.Result {
		t.AppendRow(table.Row{
			r.Region,
			string(r.Strategy),
			r.FormattedCost,
			r.TotalCPUs,
			formatNumber(r.TotalHours),
			satisfaction(r.MeetsCPUFloor),
			satisfaction(r.WithinBudget),
			formatLineItems(r.LineItems),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: totalCostColumn, Align: text.AlignRight},
		{Name: hoursColumn, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

func renderPrices(w io.Writer, output string, prices catalog.Catalog, cpus catalog.CPUTable) error {
	if output == config.OutputJSON {
		return writeJSON(w, pricesView{Prices: prices, CPUs: cpus})
	}

	t := newTable(w, table.Row{regionColumn, instanceTypeColumn, cpusColumn, priceColumn, pricePerCPUColumn})
	for _, region := range prices.Regions() {
		regionPrices := prices[region]
		for _, instanceType := range regionPrices.InstanceTypes() {
			t.AppendRow(priceRow(region, instanceType, regionPrices[instanceType], cpus[instanceType]))
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: regionColumn, Number: 1, AutoMerge: true},
	})
	t.Render()
	return nil
}

func renderRankings(w io.Writer, output string, rankings []regionRanking, prices catalog.Catalog, cpus catalog.CPUTable) error {
	if output == config.OutputJSON {
		return writeJSON(w, rankingsView{Rankings: rankings})
	}

	t := newTable(w, table.Row{regionColumn, rankColumn, instanceTypeColumn, cpusColumn, priceColumn, pricePerCPUColumn})
	for _, ranking := range rankings {
		for i, instanceType := range ranking.InstanceTypes {
			row := priceRow(ranking.Region, instanceType, prices[ranking.Region][instanceType], cpus[instanceType])
			t.AppendRow(append(table.Row{row[0], i + 1}, row[1:]...))
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: regionColumn, Number: 1, AutoMerge: true},
	})
	t.Render()
	return nil
}

func priceRow(region, instanceType string, price float64, cpus int) table.Row {
	perCPU := "-"
	if cpus > 0 {
		perCPU = strconv.FormatFloat(price/float64(cpus), 'f', 4, 64)
	}
	return table.Row{region, instanceType, cpus, formatNumber(price), perCPU}
}

// formatLineItems renders line items as "13 x 8xlarge, 1 x 2xlarge".
func formatLineItems(items []allocation.LineItem) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%d x %s", item.Count, item.InstanceType))
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func satisfaction(ok bool) string {
	if ok {
		return "met"
	}
	return "missed"
}

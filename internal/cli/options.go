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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/nextdoor/capacity-planner/pkg/planner"
)

// RootOptions are flags shared by every command.
type RootOptions struct {
	ConfigPath  string
	Output      string
	MetricsFile string
}

// NewRootOptions returns RootOptions with no overrides set.
func NewRootOptions() *RootOptions {
	return &RootOptions{}
}

// AddFlags registers the persistent flags on flags.
func (o *RootOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.ConfigPath, "config", "", "path to a YAML config file (overridden by $PLANNER_CONFIG_PATH)")
	flags.StringVarP(&o.Output, "output", "o", "", "output format: table|json (default from config, else table)")
	flags.StringVar(&o.MetricsFile, "metrics-file", "", "write planning metrics to this Prometheus textfile")
}

// CostsOptions are the flags of the costs command.
type CostsOptions struct {
	Hours   float64
	CPUs    int
	Price   float64
	Regions []string
	Set     []string
	Remove  []string
}

// NewCostsOptions returns empty CostsOptions.
func NewCostsOptions() *CostsOptions {
	return &CostsOptions{}
}

// AddFlags registers the costs flags on flags.
func (o *CostsOptions) AddFlags(flags *pflag.FlagSet) {
	flags.Float64Var(&o.Hours, "hours", 0, "reservation length in hours (at least 1)")
	flags.IntVarP(&o.CPUs, "cpus", "c", 0, "minimum number of CPUs to provision")
	flags.Float64VarP(&o.Price, "price", "p", 0, "maximum total spend in USD over the reservation")
	flags.StringSliceVarP(&o.Regions, "region", "r", nil, "limit planning to one or more regions (default all)")
	flags.StringArrayVar(&o.Set, "set", nil, "set an instance price before planning, as region/type=price (repeatable)")
	flags.StringArrayVar(&o.Remove, "remove", nil, "remove an instance type before planning, as region/type (repeatable)")
}

// Request builds the cost request. CPUs and price are only included when their
// flag was given, so that an explicit zero is reported as invalid rather than
// treated as absent.
func (o *CostsOptions) Request(flags *pflag.FlagSet) planner.CostRequest {
	req := planner.CostRequest{
		Hours:   o.Hours,
		Regions: o.Regions,
	}
	if flags.Changed("cpus") {
		req.CPUs = ptr.To(o.CPUs)
	}
	if flags.Changed("price") {
		req.Price = ptr.To(o.Price)
	}
	return req
}

// RankOptions are the flags of the rank command.
type RankOptions struct {
	Regions []string
}

// NewRankOptions returns empty RankOptions.
func NewRankOptions() *RankOptions {
	return &RankOptions{}
}

// AddFlags registers the rank flags on flags.
func (o *RankOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&o.Regions, "region", "r", nil, "regions to rank (default all)")
}

// instanceRef names an instance type within a region.
type instanceRef struct {
	Region       string
	InstanceType string
}

// parseInstanceRef parses "region/type".
func parseInstanceRef(s string) (instanceRef, error) {
	region, instanceType, ok := strings.Cut(s, "/")
	if !ok {
		return instanceRef{}, fmt.Errorf("invalid instance %q: expected region/type", s)
	}
	return instanceRef{Region: region, InstanceType: instanceType}, nil
}

// parsePriceSetting parses "region/type=price".
func parsePriceSetting(s string) (instanceRef, float64, error) {
	ref, value, ok := strings.Cut(s, "=")
	if !ok {
		return instanceRef{}, 0, fmt.Errorf("invalid price setting %q: expected region/type=price", s)
	}
	instance, err := parseInstanceRef(ref)
	if err != nil {
		return instanceRef{}, 0, err
	}
	price, err := strconv.ParseFloat(strings.TrimPrefix(value, "$"), 64)
	if err != nil {
		return instanceRef{}, 0, fmt.Errorf("invalid price in %q: %w", s, err)
	}
	return instance, price, nil
}

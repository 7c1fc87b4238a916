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

package catalog

import (
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Field path roots used in validation results.
var (
	catalogPath  = field.NewPath("catalog")
	cpuTablePath = field.NewPath("cpuTable")
)

// Validate checks the catalog and CPU table together and returns every problem
// it finds. An empty list means the pair is usable for ranking and allocation.
//
// Rules:
//   - instance type and region names must be non-empty
//   - CPU counts must be positive
//   - prices must be finite and positive
//   - every priced instance type must have a CPU count
func Validate(c Catalog, cpus CPUTable) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, ValidateCPUTable(cpus)...)

	for _, region := range c.Regions() {
		regionPath := catalogPath.Key(region)
		if strings.TrimSpace(region) == "" {
			errs = append(errs, field.Invalid(regionPath, region, "region name must not be empty"))
			continue
		}
		prices := c[region]
		for _, instanceType := range prices.InstanceTypes() {
			errs = append(errs, ValidateInstancePrice(regionPath.Key(instanceType), instanceType, prices[instanceType], cpus)...)
		}
	}
	return errs
}

// ValidateCPUTable checks that every entry names an instance type and has a
// positive CPU count.
func ValidateCPUTable(cpus CPUTable) field.ErrorList {
	var errs field.ErrorList
	for _, instanceType := range cpus.InstanceTypes() {
		path := cpuTablePath.Key(instanceType)
		if strings.TrimSpace(instanceType) == "" {
			errs = append(errs, field.Invalid(path, instanceType, "instance type name must not be empty"))
			continue
		}
		if count := cpus[instanceType]; count <= 0 {
			errs = append(errs, field.Invalid(path, count, "CPU count must be a positive integer"))
		}
	}
	return errs
}

// ValidateInstancePrice checks a single (instance type, price) entry against
// the CPU table. The path is used verbatim in any returned error.
func ValidateInstancePrice(path *field.Path, instanceType string, price float64, cpus CPUTable) field.ErrorList {
	var errs field.ErrorList
	if strings.TrimSpace(instanceType) == "" {
		errs = append(errs, field.Invalid(path, instanceType, "instance type name must not be empty"))
		return errs
	}
	if err := ValidatePrice(path, price); err != nil {
		errs = append(errs, err)
	}
	if _, ok := cpus[instanceType]; !ok {
		errs = append(errs, field.NotFound(cpuTablePath.Key(instanceType), instanceType))
	}
	return errs
}

// ValidatePrice returns an error if price is not a finite positive number.
func ValidatePrice(path *field.Path, price float64) *field.Error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return field.Invalid(path, price, "price must be a finite number")
	}
	if price <= 0 {
		return field.Invalid(path, price, "price must be positive")
	}
	return nil
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func TestCatalog_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()

	clone[RegionUSEast][Large] = 9
	delete(clone, RegionAsia)

	assert.Equal(t, 0.12, original[RegionUSEast][Large])
	assert.Contains(t, original, RegionAsia)
	assert.Empty(t, Catalog(nil).Clone())
}

func TestSortedIteration(t *testing.T) {
	assert.Equal(t, []string{"asia", "us-east", "us-west"}, Default().Regions())
	assert.Equal(t,
		[]string{"10xlarge", "2xlarge", "4xlarge", "8xlarge", "large", "xlarge"},
		Default()[RegionUSEast].InstanceTypes())
	assert.Equal(t,
		[]string{"10xlarge", "2xlarge", "4xlarge", "8xlarge", "large", "xlarge"},
		DefaultCPUTable().InstanceTypes())
	assert.Empty(t, Catalog{}.Regions())
}

func TestDefault(t *testing.T) {
	assert.Empty(t, Validate(Default(), DefaultCPUTable()))

	assert.Len(t, Default()[RegionUSEast], 6)
	assert.Len(t, Default()[RegionUSWest], 5)
	assert.Len(t, Default()[RegionAsia], 4)
	assert.Equal(t, 0.774, Default()[RegionUSEast][X4Large])
	assert.Equal(t, 32, DefaultCPUTable()[X10Large])

	// Each call returns a fresh copy
	c := Default()
	c[RegionAsia][Large] = 1
	assert.Equal(t, 0.11, Default()[RegionAsia][Large])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		catalog  Catalog
		cpus     CPUTable
		wantErrs []string
	}{
		{
			name:    "valid",
			catalog: Catalog{"r": {"a": 1}},
			cpus:    CPUTable{"a": 1},
		},
		{
			name:     "empty region name",
			catalog:  Catalog{"": {"a": 1}},
			cpus:     CPUTable{"a": 1},
			wantErrs: []string{"catalog[]"},
		},
		{
			name:     "empty instance type in cpu table",
			catalog:  Catalog{},
			cpus:     CPUTable{"": 1},
			wantErrs: []string{"cpuTable[]"},
		},
		{
			name:     "zero price and unknown type",
			catalog:  Catalog{"r": {"a": 0, "b": 1}},
			cpus:     CPUTable{"a": 1},
			wantErrs: []string{"catalog[r][a]", "cpuTable[b]"},
		},
		{
			name:     "region with no instance types is allowed",
			catalog:  Catalog{"r": {}},
			cpus:     CPUTable{"a": 1},
			wantErrs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.catalog, tt.cpus)
			var got []string
			for _, err := range errs {
				got = append(got, err.Field)
			}
			assert.Equal(t, tt.wantErrs, got)
		})
	}
}

func TestValidatePrice(t *testing.T) {
	path := field.NewPath("price")

	tests := []struct {
		name       string
		price      float64
		wantDetail string
	}{
		{"positive", 0.01, ""},
		{"zero", 0, "price must be positive"},
		{"negative", -1, "price must be positive"},
		{"NaN", math.NaN(), "price must be a finite number"},
		{"infinite", math.Inf(1), "price must be a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrice(path, tt.price)
			if tt.wantDetail == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, field.ErrorTypeInvalid, err.Type)
			assert.Equal(t, tt.wantDetail, err.Detail)
		})
	}
}

func TestValidateInstancePrice_NotFound(t *testing.T) {
	errs := ValidateInstancePrice(field.NewPath("price"), "12xlarge", 2, DefaultCPUTable())
	require.Len(t, errs, 1)
	assert.Equal(t, field.ErrorTypeNotFound, errs[0].Type)
	assert.Equal(t, "cpuTable[12xlarge]", errs[0].Field)
}

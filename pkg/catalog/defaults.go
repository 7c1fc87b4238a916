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

// Instance type names used by the built-in reference catalog.
const (
	Large    = "large"
	XLarge   = "xlarge"
	X2Large  = "2xlarge"
	X4Large  = "4xlarge"
	X8Large  = "8xlarge"
	X10Large = "10xlarge"
)

// Regions of the built-in reference catalog.
const (
	RegionUSEast = "us-east"
	RegionUSWest = "us-west"
	RegionAsia   = "asia"
)

// DefaultCPUTable returns the CPU counts of the reference instance types.
// A fresh map is returned on every call.
func DefaultCPUTable() CPUTable {
	return CPUTable{
		Large:    1,
		XLarge:   2,
		X2Large:  4,
		X4Large:  8,
		X8Large:  16,
		X10Large: 32,
	}
}

// Default returns the reference catalog of three regions. Not every region
// offers every instance type. A fresh catalog is returned on every call.
func Default() Catalog {
	return Catalog{
		RegionUSEast: {
			Large:    0.12,
			XLarge:   0.23,
			X2Large:  0.45,
			X4Large:  0.774,
			X8Large:  1.4,
			X10Large: 2.82,
		},
		RegionUSWest: {
			Large:    0.14,
			X2Large:  0.413,
			X4Large:  0.89,
			X8Large:  1.3,
			X10Large: 2.97,
		},
		RegionAsia: {
			Large:   0.11,
			XLarge:  0.2,
			X4Large: 0.67,
			X8Large: 1.18,
		},
	}
}

// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package team

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"

	"github.com/ajroetker/go-ksz/hwy"
)

// Capabilities describes the host the executors will run on.
type Capabilities struct {
	Dispatch      string
	VectorBytes   int
	Brand         string
	PhysicalCores int
	LogicalCores  int
	L1D           int
	L2            int
	GOMAXPROCS    int
	FMA           bool
	SVE           bool
}

// Detect reports the host's capabilities.
func Detect() Capabilities {
	return Capabilities{
		Dispatch:      hwy.CurrentName(),
		VectorBytes:   hwy.CurrentWidth(),
		Brand:         cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		L1D:           cpuid.CPU.Cache.L1D,
		L2:            cpuid.CPU.Cache.L2,
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		FMA:           hwy.HasFMA(),
		SVE:           hwy.HasSVE(),
	}
}

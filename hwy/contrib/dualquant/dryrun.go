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

package dualquant

import (
	"github.com/ajroetker/go-ksz/hwy"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

// dryRunGrain is the number of elements a pool worker claims at a time.
const dryRunGrain = 1 << 14

// DryRun writes the nearest grid point of every src element to dst:
// round(src[i] * p.StepInverse) * p.Step, computed in float64 and stored as
// float32. dst and src may alias. Panics if dst is shorter than src.
func DryRun(dst, src []float32, p Params) {
	if len(dst) < len(src) {
		panic("dualquant: dst is shorter than src")
	}
	n := len(src)
	lanes := hwy.MaxLanes[float32]()
	like := hwy.Zero[float32]()
	inv := hwy.Broadcast(like, p.StepInverse)
	step := hwy.Broadcast(like, p.Step)

	i := 0
	for ; i+lanes <= n; i += lanes {
		v := hwy.PromoteF32ToF64(hwy.Load(src[i:]))
		g := p.Rounding.roundVec(hwy.Mul(v, inv))
		hwy.Store(hwy.DemoteF64ToF32(hwy.Mul(g, step)), dst[i:])
	}
	for ; i < n; i++ {
		dst[i] = float32(p.Rounding.round(float64(src[i])*p.StepInverse) * p.Step)
	}
}

// DryRunInPlace replaces every element of data with its grid point.
func DryRunInPlace(data []float32, p Params) {
	DryRun(data, data, p)
}

// ParallelDryRun is DryRunInPlace split over pool. Elements are
// independent, so the result equals DryRunInPlace. A nil pool runs inline.
func ParallelDryRun(pool *workerpool.Pool, data []float32, p Params) {
	if pool == nil {
		DryRunInPlace(data, p)
		return
	}
	pool.ParallelForAtomicBatched(len(data), dryRunGrain, func(start, end int) {
		DryRunInPlace(data[start:end], p)
	})
}

// RoundPhase replaces every element of data with its grid index
// round(data[i] * p.StepInverse), the value the encoder's first phase
// leaves behind.
func RoundPhase(data []float32, p Params) {
	n := len(data)
	lanes := hwy.MaxLanes[float32]()
	inv := hwy.Broadcast(hwy.Zero[float32](), p.StepInverse)

	i := 0
	for ; i+lanes <= n; i += lanes {
		v := hwy.PromoteF32ToF64(hwy.Load(data[i:]))
		hwy.Store(hwy.DemoteF64ToF32(p.Rounding.roundVec(hwy.Mul(v, inv))), data[i:])
	}
	for ; i < n; i++ {
		data[i] = float32(p.Rounding.round(float64(data[i]) * p.StepInverse))
	}
}

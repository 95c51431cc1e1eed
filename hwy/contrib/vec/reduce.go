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

package vec

import (
	"errors"
	"math"
	"sync"

	"github.com/ajroetker/go-ksz/hwy"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

// ErrEmpty is returned by Range for an empty slice.
var ErrEmpty = errors.New("vec: empty slice")

// MinMax returns the minimum and maximum of v. A NaN anywhere in v makes
// both results NaN. It panics if v is empty.
//
// Example:
//
//	data := []float32{3, 1, 4, 1, 5}
//	lo, hi := MinMax(data)  // lo=1, hi=5
func MinMax[T hwy.Floats](v []T) (lo, hi T) {
	if len(v) == 0 {
		panic("vec: MinMax called on empty slice")
	}

	lanes := hwy.MaxLanes[T]()
	lo, hi = v[0], v[0]

	var i int
	if len(v) >= lanes {
		loVec := hwy.Load(v)
		hiVec := loVec
		for i = lanes; i+lanes <= len(v); i += lanes {
			va := hwy.Load(v[i:])
			loVec = hwy.Min(loVec, va)
			hiVec = hwy.Max(hiVec, va)
		}
		lo = hwy.ReduceMin(loVec)
		hi = hwy.ReduceMax(hiVec)
	}

	for ; i < len(v); i++ {
		lo = min(lo, v[i])
		hi = max(hi, v[i])
	}
	return lo, hi
}

// ParallelMinMax is MinMax with the scan split across pool.
// It panics if v is empty.
func ParallelMinMax[T hwy.Floats](pool *workerpool.Pool, v []T) (lo, hi T) {
	if len(v) == 0 {
		panic("vec: ParallelMinMax called on empty slice")
	}

	lo, hi = v[0], v[0]
	var mu sync.Mutex
	pool.ParallelFor(len(v), func(start, end int) {
		l, h := MinMax(v[start:end])
		mu.Lock()
		lo = min(lo, l)
		hi = max(hi, h)
		mu.Unlock()
	})
	return lo, hi
}

// Range returns max(v) - min(v) in float64, or ErrEmpty if v is empty.
// A signal containing NaN reports a NaN range.
func Range[T hwy.Floats](v []T) (float64, error) {
	if len(v) == 0 {
		return 0, ErrEmpty
	}
	lo, hi := MinMax(v)
	return rangeOf(lo, hi), nil
}

// ParallelRange is Range with the scan split across pool.
func ParallelRange[T hwy.Floats](pool *workerpool.Pool, v []T) (float64, error) {
	if len(v) == 0 {
		return 0, ErrEmpty
	}
	lo, hi := ParallelMinMax(pool, v)
	return rangeOf(lo, hi), nil
}

func rangeOf[T hwy.Floats](lo, hi T) float64 {
	if math.IsNaN(float64(lo)) || math.IsNaN(float64(hi)) {
		return math.NaN()
	}
	return float64(hi) - float64(lo)
}

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
)

// Reference encodes the grid indices implied by oracle, the DryRun of a
// signal, in one sequential vector pass with no team executor. Given the
// same Params it produces the same Codes, Quantizable tags and outlier
// values as Encode on the original signal. Outliers is a fresh slice.
func Reference(oracle []float32, p Params) *Result {
	n := len(oracle)
	block := p.BlockSize
	if block <= 0 {
		block = max(n, 1)
	}
	res := &Result{
		Codes:       make([]uint16, n),
		Outliers:    make([]float32, n),
		Quantizable: make([]bool, n),
		Blocks:      (n + block - 1) / block,
		BlockSize:   block,
	}
	if n == 0 {
		return res
	}

	grid := make([]float32, n)
	copy(grid, oracle)
	RoundPhase(grid, p)

	// pred[i] is the left neighbour's grid index, 0 at a block start.
	pred := make([]float32, n)
	for i := 1; i < n; i++ {
		if i%block != 0 {
			pred[i] = grid[i-1]
		}
	}

	codes := make([]float32, n)
	radius := hwy.Set(float32(p.Radius))
	classify := func(g, pr hwy.Vec[float32]) (hwy.Mask[float32], hwy.Vec[float32], hwy.Vec[float32]) {
		posterr := hwy.Sub(g, pr)
		q := hwy.LessThan(hwy.Abs(posterr), radius)
		code := hwy.IfThenElseZero(q, hwy.Add(hwy.Round(posterr), radius))
		return q, code, hwy.IfThenZeroElse(q, g)
	}

	hwy.ProcessWithTail[float32](n,
		func(i int) {
			q, code, outlier := classify(hwy.Load(grid[i:]), hwy.Load(pred[i:]))
			hwy.Store(code, codes[i:])
			hwy.Store(outlier, res.Outliers[i:])
			for j := range q.NumLanes() {
				res.Quantizable[i+j] = q.GetBit(j)
			}
			res.NumQuantized += q.CountTrue()
		},
		func(i, count int) {
			tail := hwy.TailMask[float32](count)
			q, code, outlier := classify(hwy.MaskLoad(tail, grid[i:]), hwy.MaskLoad(tail, pred[i:]))
			hwy.MaskStore(tail, code, codes[i:])
			hwy.MaskStore(tail, outlier, res.Outliers[i:])
			for j := range count {
				res.Quantizable[i+j] = q.GetBit(j)
				if q.GetBit(j) {
					res.NumQuantized++
				}
			}
		},
	)

	for i, c := range codes {
		res.Codes[i] = uint16(c)
	}
	res.NumOutliers = n - res.NumQuantized
	return res
}

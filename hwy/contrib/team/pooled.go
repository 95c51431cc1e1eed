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
	"github.com/klauspost/cpuid/v2"

	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

// defaultL1D is used when cpuid cannot report the L1 data cache size.
const defaultL1D = 32 << 10

// laneBytes is the per-lane footprint of a dual-quant team: a float32 value,
// a uint16 code and a one-byte tag.
const laneBytes = 4 + 2 + 1

// Pooled runs teams on a persistent worker pool. Workers claim teams in
// batches sized so that one batch fits in half the L1 data cache.
type Pooled struct {
	pool *workerpool.Pool
}

// NewPooled returns a Pooled executor scheduling onto pool.
func NewPooled(pool *workerpool.Pool) *Pooled {
	return &Pooled{pool: pool}
}

// Name implements Executor.
func (e *Pooled) Name() string { return BackendPool.String() }

// ParallelFor implements Executor.
func (e *Pooled) ParallelFor(p Policy, phases ...Phase) {
	e.pool.ParallelForAtomicBatched(p.LeagueSize, BatchSize(p.TeamSize), func(start, end int) {
		for league := start; league < end; league++ {
			runLockstep(p, league, phases)
		}
	})
}

// BatchSize returns how many teams of teamSize lanes a worker claims per
// grab: as many as fit in half of the L1 data cache, and at least one.
func BatchSize(teamSize int) int {
	l1 := cpuid.CPU.Cache.L1D
	if l1 <= 0 {
		l1 = defaultL1D
	}
	return max(1, l1/2/(max(teamSize, 1)*laneBytes))
}

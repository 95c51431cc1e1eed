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
	"sync"

	"golang.org/x/sync/errgroup"
)

// Threads runs every lane on its own goroutine, the closest match to a GPU
// thread block. At most workers teams are in flight at once.
type Threads struct {
	workers int
}

// NewThreads returns a Threads executor. If workers <= 0, uses GOMAXPROCS.
func NewThreads(workers int) *Threads {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Threads{workers: workers}
}

// Name implements Executor.
func (e *Threads) Name() string { return BackendThreads.String() }

// ParallelFor implements Executor.
func (e *Threads) ParallelFor(p Policy, phases ...Phase) {
	if p.LeagueSize == 0 || len(phases) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for league := range p.LeagueSize {
		g.Go(func() error {
			runThreaded(p, league, phases)
			return nil
		})
	}
	_ = g.Wait() // teams never fail
}

func runThreaded(p Policy, league int, phases []Phase) {
	barrier := NewBarrier(p.TeamSize)

	var wg sync.WaitGroup
	wg.Add(p.TeamSize)
	for rank := range p.TeamSize {
		go func() {
			defer wg.Done()
			m := Member{league: league, rank: rank, size: p.TeamSize}
			for i, phase := range phases {
				if i > 0 {
					barrier.Wait()
				}
				phase(m)
			}
		}()
	}
	wg.Wait()
}

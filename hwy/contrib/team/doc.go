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

// Package team runs fixed-size groups of lanes through ordered phases.
//
// A Policy describes a league of teams: LeagueSize teams of TeamSize lanes
// each, covering [0, LeagueSize*TeamSize). An Executor runs a list of Phase
// callbacks for every lane of every team. Two guarantees hold for every
// backend:
//
//   - Within one team, every lane finishes phase k before any lane starts
//     phase k+1 (a full team barrier), and writes made in phase k are
//     visible to every lane of the team in phase k+1.
//   - Nothing is ordered across teams. Teams may run concurrently,
//     sequentially, or interleaved, so a phase may only touch indices owned
//     by its own team.
//
// ParallelFor returns once every team has finished every phase; callers see
// the outputs of a dispatch all at once or not at all.
//
// # Backends
//
//   - serial: teams one after another, each phase a loop over lanes.
//   - pool: teams claimed in batches by a workerpool.Pool; within a team
//     phases are lane loops, so the loop boundary is the barrier.
//   - threads: every lane is a goroutine and phases are separated by a
//     real Barrier; teams are scheduled through an errgroup limited to the
//     pool's worker count.
//
// Usage:
//
//	exec, _ := team.New(team.BackendPool, pool)
//	policy := team.NewPolicy(len(data), 32)
//	exec.ParallelFor(policy,
//	    func(m team.Member) { /* phase 1 */ },
//	    func(m team.Member) { /* phase 2, reads neighbours' phase 1 output */ },
//	)
package team

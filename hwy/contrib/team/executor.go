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
	"errors"
	"fmt"
	"strings"

	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

// ErrUnknownBackend is returned by ParseBackend for unrecognised names.
var ErrUnknownBackend = errors.New("team: unknown backend")

// Executor dispatches a league of teams through a list of phases.
type Executor interface {
	// Name returns the backend name, as accepted by ParseBackend.
	Name() string

	// ParallelFor runs phases for every lane of every team in p, with a
	// team barrier between consecutive phases. It returns after all teams
	// complete.
	ParallelFor(p Policy, phases ...Phase)
}

// Backend selects where teams physically run.
type Backend int

const (
	// BackendSerial runs teams one at a time on the calling goroutine.
	BackendSerial Backend = iota

	// BackendPool distributes teams over a persistent worker pool.
	BackendPool

	// BackendThreads runs each lane as a goroutine with a real barrier.
	BackendThreads
)

// Backends lists every backend in declaration order.
var Backends = []Backend{BackendSerial, BackendPool, BackendThreads}

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendSerial:
		return "serial"
	case BackendPool:
		return "pool"
	case BackendThreads:
		return "threads"
	default:
		return "unknown"
	}
}

// ParseBackend maps a name (case-insensitive) to a Backend.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends {
		if strings.EqualFold(name, b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// New returns an Executor for backend b. The pool backend schedules onto
// pool; the threads backend uses pool.NumWorkers() as its concurrency limit.
// pool may be nil for the serial backend.
func New(b Backend, pool *workerpool.Pool) (Executor, error) {
	switch b {
	case BackendSerial:
		return Serial{}, nil
	case BackendPool:
		if pool == nil {
			return nil, errors.New("team: pool backend needs a worker pool")
		}
		return NewPooled(pool), nil
	case BackendThreads:
		workers := 0
		if pool != nil {
			workers = pool.NumWorkers()
		}
		return NewThreads(workers), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend, int(b))
	}
}

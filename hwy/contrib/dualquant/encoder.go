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
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/ajroetker/go-ksz/hwy/contrib/team"
)

// Result is the output of one Encode call. For every element exactly one of
// Codes[i] and Outliers[i] carries it, as told by Quantizable[i].
type Result struct {
	// Codes holds round(posterror) + Radius for quantizable elements and 0
	// for outliers.
	Codes []uint16

	// Outliers aliases the input slice. It holds the grid index of every
	// outlier and 0 for quantizable elements.
	Outliers []float32

	// Quantizable tags which output holds each element.
	Quantizable []bool

	Blocks       int
	BlockSize    int
	NumQuantized int
	NumOutliers  int

	// AssertionFailures counts elements whose code fell outside
	// [0, 2*Radius) despite passing the radius test. They are stored as
	// outliers.
	AssertionFailures int64

	// Elapsed is the wall time of the parallel dispatch.
	Elapsed time.Duration
}

// Len returns the number of encoded elements.
func (r *Result) Len() int { return len(r.Codes) }

// Encoder runs the dual-quantization kernel on a team executor.
type Encoder struct {
	exec   team.Executor
	logger *slog.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEncoder returns an Encoder that dispatches teams on exec.
func NewEncoder(exec team.Executor, opts ...Option) *Encoder {
	e := &Encoder{
		exec:   exec,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Executor returns the executor teams are dispatched on.
func (e *Encoder) Executor() team.Executor { return e.exec }

// Encode dual-quantizes data in place. On return data holds the outlier
// grid values and is also reachable as Result.Outliers. An empty data
// yields an empty Result. Configuration errors are reported before any
// element is touched.
func (e *Encoder) Encode(data []float32, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(data)
	res := &Result{
		Codes:       make([]uint16, n),
		Outliers:    data,
		Quantizable: make([]bool, n),
		BlockSize:   p.BlockSize,
	}
	if n == 0 {
		return res, nil
	}

	policy := team.NewPolicy(n, p.BlockSize)
	res.Blocks = policy.LeagueSize
	k := &kernel{
		data:     data,
		codes:    res.Codes,
		tags:     res.Quantizable,
		n:        n,
		inv:      p.StepInverse,
		radius:   p.Radius,
		rounding: p.Rounding,
	}

	e.logger.Debug("dispatch",
		"backend", e.exec.Name(),
		"elements", n,
		"blocks", policy.LeagueSize,
		"block_size", p.BlockSize,
		"radius", p.Radius)

	start := time.Now()
	e.exec.ParallelFor(policy, k.round, k.predict, k.commit)
	res.Elapsed = time.Since(start)

	for _, q := range res.Quantizable {
		if q {
			res.NumQuantized++
		}
	}
	res.NumOutliers = n - res.NumQuantized
	res.AssertionFailures = k.failures.Load()

	if res.AssertionFailures > 0 {
		e.logger.Warn("codes outside dictionary stored as outliers",
			"count", res.AssertionFailures)
	}
	e.logger.Debug("done",
		"quantized", res.NumQuantized,
		"outliers", res.NumOutliers,
		"elapsed", res.Elapsed)
	return res, nil
}

// kernel holds the per-call state shared by the three phases. Lanes past n
// belong to the last, partial team and do nothing.
type kernel struct {
	data     []float32
	codes    []uint16
	tags     []bool
	n        int
	inv      float64
	radius   int
	rounding Rounding
	failures atomic.Int64
}

func (k *kernel) round(m team.Member) {
	id := m.Index()
	if id >= k.n {
		return
	}
	k.data[id] = float32(k.rounding.round(float64(k.data[id]) * k.inv))
}

func (k *kernel) predict(m team.Member) {
	id := m.Index()
	if id >= k.n {
		return
	}
	var pred float32
	if m.TeamRank() > 0 {
		pred = k.data[id-1]
	}
	posterr := k.data[id] - pred
	if !(math.Abs(float64(posterr)) < float64(k.radius)) {
		k.codes[id] = 0
		k.tags[id] = false
		return
	}
	code := int64(math.Round(float64(posterr))) + int64(k.radius)
	if code < 0 || code >= 2*int64(k.radius) {
		k.failures.Add(1)
		k.codes[id] = 0
		k.tags[id] = false
		return
	}
	k.codes[id] = uint16(code)
	k.tags[id] = true
}

func (k *kernel) commit(m team.Member) {
	id := m.Index()
	if id >= k.n {
		return
	}
	if k.tags[id] {
		k.data[id] = 0
	}
}

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
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-ksz/hwy/contrib/errbound"
	"github.com/ajroetker/go-ksz/hwy/contrib/team"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

func executors(t testing.TB) []team.Executor {
	t.Helper()
	pool := workerpool.New(4)
	t.Cleanup(pool.Close)
	var out []team.Executor
	for _, b := range team.Backends {
		e, err := team.New(b, pool)
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

// signal is a smooth waveform with noise, so most residuals are small.
func signal(n int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float32, n)
	for i := range out {
		x := float64(i) / 97
		out[i] = float32(10*math.Sin(x) + 3*math.Cos(7*x) + 0.05*r.NormFloat64())
	}
	return out
}

func TestEncodeTwoUnitScenario(t *testing.T) {
	cfg, err := errbound.NewAbsolute(1, 4)
	require.NoError(t, err)
	p := NewParams(cfg, 4)
	require.Equal(t, 2.0, p.Step)
	require.Equal(t, 2, p.Radius)

	input := []float32{0, 1, 5, 5.4}

	t.Run("half-even", func(t *testing.T) {
		p := p
		p.Rounding = RoundHalfEven

		recon := make([]float32, len(input))
		DryRun(recon, input, p)
		assert.Equal(t, []float32{0, 0, 4, 6}, recon)

		for _, exec := range executors(t) {
			data := slices.Clone(input)
			res, err := NewEncoder(exec).Encode(data, p)
			require.NoError(t, err, exec.Name())

			// Grid indices [0 0 2 3], predictions [0 0 0 2],
			// residuals [0 0 2 1].
			assert.Equal(t, []bool{true, true, false, true}, res.Quantizable, exec.Name())
			assert.Equal(t, []uint16{2, 2, 0, 3}, res.Codes, exec.Name())
			assert.Equal(t, []float32{0, 0, 2, 0}, res.Outliers, exec.Name())
			assert.Equal(t, float32(4), res.Outliers[2]*float32(p.Step), exec.Name())
			assert.Equal(t, 3, res.NumQuantized)
			assert.Equal(t, 1, res.NumOutliers)
			assert.Equal(t, 1, res.Blocks)
		}
	})

	t.Run("half-away", func(t *testing.T) {
		recon := make([]float32, len(input))
		DryRun(recon, input, p)
		assert.Equal(t, []float32{0, 2, 6, 6}, recon)

		for _, exec := range executors(t) {
			data := slices.Clone(input)
			res, err := NewEncoder(exec).Encode(data, p)
			require.NoError(t, err, exec.Name())

			// Grid indices [0 1 3 3], residuals [0 1 2 0].
			assert.Equal(t, []bool{true, true, false, true}, res.Quantizable, exec.Name())
			assert.Equal(t, []uint16{2, 3, 0, 2}, res.Codes, exec.Name())
			assert.Equal(t, []float32{0, 0, 3, 0}, res.Outliers, exec.Name())
		}
	})
}

func TestEncodeEmpty(t *testing.T) {
	p := Params{Step: 1, StepInverse: 1, Radius: 4, BlockSize: 4}
	for _, exec := range executors(t) {
		res, err := NewEncoder(exec).Encode(nil, p)
		require.NoError(t, err, exec.Name())
		assert.Equal(t, 0, res.Len())
		assert.Empty(t, res.Quantizable)
		assert.Equal(t, 0, res.Blocks)
	}
}

func TestEncodeStrictTie(t *testing.T) {
	p := Params{Step: 1, StepInverse: 1, Radius: 4, BlockSize: 4}
	tests := []struct {
		name     string
		input    []float32
		codes    []uint16
		outliers []float32
	}{
		{
			name:     "positive",
			input:    []float32{0, 4, 8, 11},
			codes:    []uint16{4, 0, 0, 7},
			outliers: []float32{0, 4, 8, 0},
		},
		{
			name:     "negative",
			input:    []float32{0, -4, -7, -11},
			codes:    []uint16{4, 0, 1, 0},
			outliers: []float32{0, -4, 0, -11},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, exec := range executors(t) {
				res, err := NewEncoder(exec).Encode(slices.Clone(tt.input), p)
				require.NoError(t, err)
				assert.Equal(t, tt.codes, res.Codes, exec.Name())
				assert.Equal(t, tt.outliers, res.Outliers, exec.Name())
			}
		})
	}
}

func TestEncodeBlockReset(t *testing.T) {
	p := Params{Step: 1, StepInverse: 1, Radius: 8, BlockSize: 4}
	const n = 14
	for _, exec := range executors(t) {
		data := make([]float32, n)
		for i := range data {
			data[i] = 100
		}
		res, err := NewEncoder(exec).Encode(data, p)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Blocks)
		for i := range n {
			if i%p.BlockSize == 0 {
				assert.False(t, res.Quantizable[i], "%s: index %d", exec.Name(), i)
				assert.Equal(t, float32(100), res.Outliers[i])
				continue
			}
			assert.True(t, res.Quantizable[i], "%s: index %d", exec.Name(), i)
			assert.Equal(t, uint16(8), res.Codes[i])
			assert.Zero(t, res.Outliers[i])
		}
	}
}

func TestEncodeRadiusZero(t *testing.T) {
	p := Params{Step: 0.5, StepInverse: 2, Radius: 0, BlockSize: 8}
	input := signal(50, 3)
	grid := slices.Clone(input)
	RoundPhase(grid, p)

	for _, exec := range executors(t) {
		res, err := NewEncoder(exec).Encode(slices.Clone(input), p)
		require.NoError(t, err)
		assert.Equal(t, 0, res.NumQuantized)
		assert.Equal(t, len(input), res.NumOutliers)
		assert.Equal(t, grid, res.Outliers)
		assert.Equal(t, make([]uint16, len(input)), res.Codes)
	}
}

func TestEncodeNaN(t *testing.T) {
	p := Params{Step: 1, StepInverse: 1, Radius: 4, BlockSize: 4}
	nan := float32(math.NaN())
	for _, exec := range executors(t) {
		res, err := NewEncoder(exec).Encode([]float32{1, nan, 3, 4}, p)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false, false, true}, res.Quantizable)
		assert.Equal(t, []uint16{5, 0, 0, 5}, res.Codes)
		assert.True(t, math.IsNaN(float64(res.Outliers[1])))
		assert.Equal(t, float32(3), res.Outliers[2])
	}
}

func TestEncodeRejectsBadParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"zero block", Params{Step: 1, StepInverse: 1, Radius: 4}, ErrBlockSize},
		{"zero step", Params{Radius: 4, BlockSize: 4}, ErrStep},
		{"infinite step", Params{Step: math.Inf(1), Radius: 4, BlockSize: 4}, ErrStep},
		{"stale inverse", Params{Step: 2, StepInverse: 1, Radius: 4, BlockSize: 4}, ErrStep},
		{"radius overflow", Params{Step: 1, StepInverse: 1, Radius: 1<<15 + 1, BlockSize: 4}, errbound.ErrRadiusOverflow},
		{"negative radius", Params{Step: 1, StepInverse: 1, Radius: -1, BlockSize: 4}, errbound.ErrRadiusOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []float32{1.5, 2.5}
			res, err := NewEncoder(team.Serial{}).Encode(data, tt.p)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, []float32{1.5, 2.5}, data, "data must be untouched")
		})
	}
}

func TestEncodeMaxRadius(t *testing.T) {
	p := Params{Step: 1, StepInverse: 1, Radius: 1 << 15, BlockSize: 2}
	res, err := NewEncoder(team.Serial{}).Encode([]float32{0, 32767, 0, -32767}, p)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1 << 15, 65535, 1 << 15, 1}, res.Codes)
	assert.Zero(t, res.AssertionFailures)
}

func TestEncodePartition(t *testing.T) {
	cfg, err := errbound.New(64, 1, -2)
	require.NoError(t, err)
	for _, n := range []int{1, 31, 32, 33, 1000} {
		for _, exec := range executors(t) {
			p := NewParams(cfg, 32)
			res, err := NewEncoder(exec).Encode(signal(n, uint64(n)), p)
			require.NoError(t, err)
			require.Equal(t, n, res.Len())
			assert.Equal(t, n, res.NumQuantized+res.NumOutliers)
			assert.Equal(t, (n+31)/32, res.Blocks)
			for i := range n {
				if res.Quantizable[i] {
					assert.Less(t, int(res.Codes[i]), 2*p.Radius)
					assert.Zero(t, res.Outliers[i])
				} else {
					assert.Zero(t, res.Codes[i])
				}
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	cfg, err := errbound.New(1024, 1, -3)
	require.NoError(t, err)
	input := signal(10_007, 11)
	require.NoError(t, cfg.RelativeFromSignal(nil, input))
	p := NewParams(cfg, 32)

	var want *Result
	for _, exec := range executors(t) {
		res, err := NewEncoder(exec).Encode(slices.Clone(input), p)
		require.NoError(t, err)
		if want == nil {
			want = res
			continue
		}
		assert.Equal(t, want.Codes, res.Codes, exec.Name())
		assert.Equal(t, want.Outliers, res.Outliers, exec.Name())
		assert.Equal(t, want.Quantizable, res.Quantizable, exec.Name())
	}
}

func TestCrosscheck(t *testing.T) {
	cfg, err := errbound.New(512, 1, -2)
	require.NoError(t, err)
	input := signal(4099, 5)

	for _, rounding := range []Rounding{RoundHalfAway, RoundHalfEven} {
		p := NewParams(cfg, 64)
		p.Rounding = rounding
		oracle := make([]float32, len(input))
		DryRun(oracle, input, p)

		for _, exec := range executors(t) {
			res, err := NewEncoder(exec).Encode(slices.Clone(input), p)
			require.NoError(t, err)
			report := Crosscheck(res, oracle, p)
			assert.True(t, report.OK(), "%s/%s: %+v", rounding, exec.Name(), report.First)
			assert.Equal(t, len(input), report.Checked)
		}
	}
}

func TestReference(t *testing.T) {
	p := Params{Step: 2, StepInverse: 0.5, Radius: 2, BlockSize: 4, Rounding: RoundHalfEven}
	oracle := make([]float32, 4)
	DryRun(oracle, []float32{0, 1, 5, 5.4}, p)

	ref := Reference(oracle, p)
	assert.Equal(t, []bool{true, true, false, true}, ref.Quantizable)
	assert.Equal(t, []uint16{2, 2, 0, 3}, ref.Codes)
	assert.Equal(t, []float32{0, 0, 2, 0}, ref.Outliers)
	assert.Equal(t, 3, ref.NumQuantized)
	assert.Equal(t, 1, ref.NumOutliers)

	// Lengths that exercise both the full-vector body and the masked tail.
	for _, n := range []int{1, 15, 16, 17, 100} {
		p := Params{Step: 0.02, StepInverse: 50, Radius: 16, BlockSize: 8}
		input := signal(n, uint64(n))
		oracle := make([]float32, n)
		DryRun(oracle, input, p)

		res, err := NewEncoder(team.Serial{}).Encode(slices.Clone(input), p)
		require.NoError(t, err)
		ref := Reference(oracle, p)
		assert.Equal(t, res.Codes, ref.Codes, "n=%d", n)
		assert.Equal(t, res.Quantizable, ref.Quantizable, "n=%d", n)
		assert.Equal(t, res.Outliers, ref.Outliers, "n=%d", n)
		assert.Equal(t, res.NumQuantized, ref.NumQuantized, "n=%d", n)
		assert.Equal(t, res.Blocks, ref.Blocks, "n=%d", n)
	}

	assert.Equal(t, 0, Reference(nil, p).Len())
}

func TestCrosscheckDetectsTampering(t *testing.T) {
	cfg, err := errbound.New(512, 1, -2)
	require.NoError(t, err)
	input := signal(256, 8)
	p := NewParams(cfg, 16)
	oracle := make([]float32, len(input))
	DryRun(oracle, input, p)

	res, err := NewEncoder(team.Serial{}).Encode(slices.Clone(input), p)
	require.NoError(t, err)
	idx := slices.Index(res.Quantizable, true)
	require.GreaterOrEqual(t, idx, 0)
	res.Codes[idx] ^= 1

	report := Crosscheck(res, oracle, p)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Mismatches)
	require.NotNil(t, report.First)
	assert.Equal(t, idx, report.First.Index)
	assert.True(t, report.First.WantQuantizable)
	assert.Equal(t, report.First.WantCode^1, report.First.GotCode)
}

func TestDryRunBound(t *testing.T) {
	for _, eb := range []float64{1e-4, 1e-2, 0.5, 3} {
		cfg, err := errbound.NewAbsolute(eb, 1024)
		require.NoError(t, err)
		p := NewParams(cfg, 32)
		input := signal(1000, uint64(eb*1e4))
		got := make([]float32, len(input))
		DryRun(got, input, p)
		for i, x := range input {
			tol := eb + math.Abs(float64(got[i]))*0x1p-23
			assert.LessOrEqual(t, math.Abs(float64(got[i])-float64(x)), tol, "eb=%g x=%g", eb, x)
		}
	}
}

func TestDryRunMatchesScalar(t *testing.T) {
	p := Params{Step: 0.02, StepInverse: 1 / 0.02, Rounding: RoundHalfEven}
	// Odd length so both the vector body and the tail run.
	input := signal(37, 2)
	got := make([]float32, len(input))
	DryRun(got, input, p)
	for i, x := range input {
		want := float32(math.RoundToEven(float64(x)*p.StepInverse) * p.Step)
		assert.Equal(t, want, got[i], "index %d", i)
	}
}

func TestDryRunIdempotent(t *testing.T) {
	cfg, err := errbound.NewAbsolute(1e-3, 1024)
	require.NoError(t, err)
	p := NewParams(cfg, 32)
	once := signal(777, 4)
	DryRunInPlace(once, p)
	twice := slices.Clone(once)
	DryRunInPlace(twice, p)
	assert.Equal(t, once, twice)
}

func TestParallelDryRun(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()
	p := Params{Step: 0.1, StepInverse: 10}
	input := signal(3*dryRunGrain+5, 6)

	want := slices.Clone(input)
	DryRunInPlace(want, p)
	got := slices.Clone(input)
	ParallelDryRun(pool, got, p)
	assert.Equal(t, want, got)

	got = slices.Clone(input)
	ParallelDryRun(nil, got, p)
	assert.Equal(t, want, got)
}

func TestRoundPhaseMatchesEncoderOutliers(t *testing.T) {
	p := Params{Step: 0.25, StepInverse: 4, Radius: 2, BlockSize: 8}
	input := signal(100, 9)
	grid := slices.Clone(input)
	RoundPhase(grid, p)

	res, err := NewEncoder(team.Serial{}).Encode(slices.Clone(input), p)
	require.NoError(t, err)
	for i := range input {
		if !res.Quantizable[i] {
			assert.Equal(t, grid[i], res.Outliers[i], "index %d", i)
		}
	}
}

func TestParseRounding(t *testing.T) {
	for _, r := range []Rounding{RoundHalfAway, RoundHalfEven} {
		got, err := ParseRounding(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRounding("stochastic")
	assert.ErrorIs(t, err, ErrUnknownRounding)
}

func BenchmarkEncode(b *testing.B) {
	cfg, err := errbound.New(1024, 1, -3)
	require.NoError(b, err)
	input := signal(1<<20, 1)
	require.NoError(b, cfg.RelativeFromSignal(nil, input))
	p := NewParams(cfg, 256)
	data := make([]float32, len(input))

	for _, exec := range executors(b) {
		if exec.Name() == team.BackendThreads.String() {
			continue
		}
		enc := NewEncoder(exec)
		b.Run(exec.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(input) * 4))
			for b.Loop() {
				copy(data, input)
				if _, err := enc.Encode(data, p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDryRun(b *testing.B) {
	p := Params{Step: 0.002, StepInverse: 500}
	input := signal(1<<20, 1)
	out := make([]float32, len(input))
	b.SetBytes(int64(len(input) * 4))
	for b.Loop() {
		DryRun(out, input, p)
	}
}

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

// Package errbound derives the quantization grid from a user error bound.
//
// A Config turns a target bound eb and a dictionary (bin) count into the
// values the encoder works with:
//
//	EBFinal     = eb                  (absolute mode)
//	EBFinal     = eb * (max - min)    (relative mode, rescaled once)
//	Step        = 2 * EBFinal         (grid spacing, "ebx2")
//	StepInverse = 1 / Step            ("ebx2_r")
//	Radius      = DictSize / 2        (residuals in (-Radius, Radius) get a code)
//
// Codes are stored as uint16, so DictSize may not exceed 65536.
package errbound

import (
	"errors"
	"fmt"
	"math"

	"github.com/ajroetker/go-ksz/hwy/contrib/vec"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
)

// MaxDictSize is the largest dictionary whose codes fit in uint16.
const MaxDictSize = 1 << 16

var (
	// ErrNonPositiveBound is returned for an error bound <= 0, NaN or Inf.
	ErrNonPositiveBound = errors.New("errbound: error bound must be positive and finite")

	// ErrEmptySignal is returned when relative mode is requested on an empty signal.
	ErrEmptySignal = errors.New("errbound: relative mode needs a non-empty signal")

	// ErrNonPositiveRange is returned when the signal's value range is <= 0 or NaN.
	ErrNonPositiveRange = errors.New("errbound: value range must be positive")

	// ErrAlreadyRelative is returned when the bound is rescaled a second time.
	ErrAlreadyRelative = errors.New("errbound: bound already rescaled to relative mode")

	// ErrRadiusOverflow is returned when codes for DictSize would not fit in uint16.
	ErrRadiusOverflow = errors.New("errbound: dictionary size overflows 16-bit codes")

	// ErrNegativeDictSize is returned for a negative dictionary size.
	ErrNegativeDictSize = errors.New("errbound: dictionary size must not be negative")
)

// Mode says how EBFinal was derived from EB.
type Mode int

const (
	// Absolute uses the bound as given.
	Absolute Mode = iota

	// Relative scales the bound by the signal's value range.
	Relative
)

// String returns "abs" or "r2r".
func (m Mode) String() string {
	if m == Relative {
		return "r2r"
	}
	return "abs"
}

// Config is the error-bound configuration of one encoding run. Build it with
// New or NewAbsolute; rescale at most once with ChangeToRelativeMode before
// encoding starts.
type Config struct {
	// EB is the bound as the user specified it.
	EB float64
	// EBFinal is the absolute bound the encoder must honour.
	EBFinal float64
	// Step is the quantization grid spacing, 2*EBFinal.
	Step float64
	// StepInverse is 1/Step.
	StepInverse float64
	// DictSize is the number of quantization bins.
	DictSize int
	// Radius is DictSize/2.
	Radius int
	// ValueRange is the range the bound was scaled by (0 in absolute mode).
	ValueRange float64
	// Mode records whether EBFinal was rescaled.
	Mode Mode
}

// New builds an absolute-mode Config from a bound written as
// mantissa * 10^exponent, the way the command line takes it.
func New(dictSize int, mantissa float64, exponent int) (*Config, error) {
	return NewAbsolute(mantissa*math.Pow10(exponent), dictSize)
}

// NewAbsolute builds an absolute-mode Config.
func NewAbsolute(eb float64, dictSize int) (*Config, error) {
	if !(eb > 0) || math.IsInf(eb, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveBound, eb)
	}
	if dictSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeDictSize, dictSize)
	}
	if dictSize > MaxDictSize {
		return nil, fmt.Errorf("%w: dict size %d > %d", ErrRadiusOverflow, dictSize, MaxDictSize)
	}

	c := &Config{
		EB:       eb,
		DictSize: dictSize,
		Radius:   dictSize / 2,
		Mode:     Absolute,
	}
	c.setFinal(eb)
	return c, nil
}

func (c *Config) setFinal(ebFinal float64) {
	c.EBFinal = ebFinal
	c.Step = 2 * ebFinal
	c.StepInverse = 1 / c.Step
}

// ChangeToRelativeMode rescales the bound by valueRange (max - min of the
// whole signal). It may be called once per Config.
func (c *Config) ChangeToRelativeMode(valueRange float64) error {
	if c.Mode == Relative {
		return ErrAlreadyRelative
	}
	if !(valueRange > 0) || math.IsInf(valueRange, 0) {
		return fmt.Errorf("%w: got %g", ErrNonPositiveRange, valueRange)
	}
	ebFinal := c.EB * valueRange
	if !(ebFinal > 0) || math.IsInf(ebFinal, 0) {
		return fmt.Errorf("%w: %g * range %g = %g", ErrNonPositiveBound, c.EB, valueRange, ebFinal)
	}

	c.ValueRange = valueRange
	c.Mode = Relative
	c.setFinal(ebFinal)
	return nil
}

// RelativeFromSignal scans data for its value range, splitting the scan over
// pool when it is non-nil, and rescales the bound by it.
func (c *Config) RelativeFromSignal(pool *workerpool.Pool, data []float32) error {
	if len(data) == 0 {
		return ErrEmptySignal
	}
	var (
		rng float64
		err error
	)
	if pool != nil {
		rng, err = vec.ParallelRange(pool, data)
	} else {
		rng, err = vec.Range(data)
	}
	if err != nil {
		return fmt.Errorf("errbound: range scan: %w", err)
	}
	return c.ChangeToRelativeMode(rng)
}

// String summarises the configuration for logs and reports.
func (c *Config) String() string {
	return fmt.Sprintf("mode=%s eb=%g eb_final=%g step=%g radius=%d", c.Mode, c.EB, c.EBFinal, c.Step, c.Radius)
}

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
	"fmt"
	"math"
	"strings"

	"github.com/ajroetker/go-ksz/hwy"
	"github.com/ajroetker/go-ksz/hwy/contrib/errbound"
)

// DefaultBlockSize is the team size used when none is configured.
const DefaultBlockSize = 32

var (
	// ErrBlockSize is returned for a non-positive block size.
	ErrBlockSize = errors.New("dualquant: block size must be positive")

	// ErrStep is returned for a step that is not positive and finite, or
	// whose StepInverse is not 1/Step.
	ErrStep = errors.New("dualquant: invalid quantization step")

	// ErrUnknownRounding is returned by ParseRounding.
	ErrUnknownRounding = errors.New("dualquant: unknown rounding mode")
)

// Rounding selects how halfway cases snap to the grid.
type Rounding int

const (
	// RoundHalfAway rounds halfway cases away from zero, like C's round().
	RoundHalfAway Rounding = iota

	// RoundHalfEven rounds halfway cases to the even neighbour.
	RoundHalfEven
)

// String returns "half-away" or "half-even".
func (r Rounding) String() string {
	if r == RoundHalfEven {
		return "half-even"
	}
	return "half-away"
}

// ParseRounding maps "half-away" or "half-even" to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(s) {
	case "half-away", "":
		return RoundHalfAway, nil
	case "half-even":
		return RoundHalfEven, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRounding, s)
}

func (r Rounding) round(x float64) float64 {
	if r == RoundHalfEven {
		return math.RoundToEven(x)
	}
	return math.Round(x)
}

func (r Rounding) roundVec(v hwy.Vec[float64]) hwy.Vec[float64] {
	if r == RoundHalfEven {
		return hwy.RoundToEven(v)
	}
	return hwy.Round(v)
}

// Params is everything the encoder needs besides the signal itself.
type Params struct {
	Step        float64
	StepInverse float64
	Radius      int
	BlockSize   int
	Rounding    Rounding
}

// NewParams takes the grid from cfg and uses blockSize lanes per team.
func NewParams(cfg *errbound.Config, blockSize int) Params {
	return Params{
		Step:        cfg.Step,
		StepInverse: cfg.StepInverse,
		Radius:      cfg.Radius,
		BlockSize:   blockSize,
	}
}

// Validate reports configuration errors before any work is dispatched.
func (p Params) Validate() error {
	if p.BlockSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrBlockSize, p.BlockSize)
	}
	if !(p.Step > 0) || math.IsInf(p.Step, 0) {
		return fmt.Errorf("%w: step %g", ErrStep, p.Step)
	}
	if p.StepInverse != 1/p.Step {
		return fmt.Errorf("%w: step inverse %g != 1/%g", ErrStep, p.StepInverse, p.Step)
	}
	if p.Radius < 0 || 2*p.Radius > errbound.MaxDictSize {
		return fmt.Errorf("%w: radius %d", errbound.ErrRadiusOverflow, p.Radius)
	}
	return nil
}

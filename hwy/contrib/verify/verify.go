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

// Package verify compares a reconstructed signal against the original and
// reports error statistics, checking the result against an error bound.
package verify

import (
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when recon and orig differ in length.
	ErrLengthMismatch = errors.New("verify: length mismatch")

	// ErrEmpty is returned for empty input.
	ErrEmpty = errors.New("verify: empty input")
)

const (
	// boundSlack is the relative slack on the error bound itself.
	boundSlack = 1e-6

	// storageSlack is one float32 ulp relative to the largest magnitude,
	// the rounding a reconstructed value picks up when stored as float32.
	storageSlack = 0x1p-23
)

// Options carries the caller's settings. Override and Scale are accepted
// for compatibility with callers that set them and are otherwise ignored.
type Options struct {
	Override     bool
	ErrorBound   float64
	ArchiveBytes int
	Scale        float64
}

// Stats holds the error statistics of one comparison.
type Stats struct {
	Len int

	Min, Max, Range float64

	MaxAbsErr      float64
	MaxAbsErrIndex int
	// MaxRelErr is MaxAbsErr relative to Range.
	MaxRelErr float64

	MSE   float64
	NRMSE float64
	PSNR  float64

	Pearson float64

	// CompressionRatio is raw bytes over ArchiveBytes, 0 when no archive
	// size was given.
	CompressionRatio float64

	ErrorBound float64
	// Tolerance is the largest error that still passes: the bound plus
	// float32 storage slack.
	Tolerance float64
	Pass      bool
}

// Data compares recon against orig. Positions where both are NaN count as
// exact; a NaN on one side only is an infinite error.
func Data(recon, orig []float32, opts Options) (*Stats, error) {
	if len(recon) != len(orig) {
		return nil, fmt.Errorf("%w: recon %d, orig %d", ErrLengthMismatch, len(recon), len(orig))
	}
	n := len(orig)
	if n == 0 {
		return nil, ErrEmpty
	}

	o := make([]float64, n)
	diff := make([]float64, n)
	for i := range n {
		o[i] = float64(orig[i])
		diff[i] = absErr(float64(recon[i]), o[i])
	}
	r := make([]float64, n)
	for i, x := range recon {
		r[i] = float64(x)
	}

	s := &Stats{
		Len:        n,
		Min:        floats.Min(o),
		Max:        floats.Max(o),
		ErrorBound: opts.ErrorBound,
	}
	s.Range = s.Max - s.Min
	s.MaxAbsErrIndex = floats.MaxIdx(diff)
	s.MaxAbsErr = diff[s.MaxAbsErrIndex]
	s.MSE = floats.Dot(diff, diff) / float64(n)

	if s.Range > 0 {
		s.MaxRelErr = s.MaxAbsErr / s.Range
		s.NRMSE = math.Sqrt(s.MSE) / s.Range
	}
	switch {
	case s.MSE == 0:
		s.PSNR = math.Inf(1)
	case s.Range > 0:
		s.PSNR = 20*math.Log10(s.Range) - 10*math.Log10(s.MSE)
	}
	s.Pearson = stat.Correlation(o, r, nil)

	if opts.ArchiveBytes > 0 {
		s.CompressionRatio = float64(n*4) / float64(opts.ArchiveBytes)
	}
	s.Tolerance = opts.ErrorBound*(1+boundSlack) + storageSlack*max(math.Abs(s.Min), math.Abs(s.Max))
	s.Pass = s.MaxAbsErr <= s.Tolerance
	return s, nil
}

func absErr(recon, orig float64) float64 {
	switch {
	case math.IsNaN(recon) && math.IsNaN(orig):
		return 0
	case math.IsNaN(recon) || math.IsNaN(orig):
		return math.Inf(1)
	}
	return math.Abs(recon - orig)
}

// Report writes a human-readable summary of s to w.
func (s *Stats) Report(w io.Writer) error {
	p := message.NewPrinter(language.English)
	verdict := "PASS"
	if !s.Pass {
		verdict = "FAIL"
	}
	_, err := p.Fprintf(w,
		"elements          %d\n"+
			"min, max, range   %.6g, %.6g, %.6g\n"+
			"max abs error     %.6g (index %d, bound %.6g)\n"+
			"max rel error     %.6g\n"+
			"PSNR              %.3f dB\n"+
			"NRMSE             %.6g\n"+
			"pearson           %.8f\n"+
			"compression ratio %.3f\n"+
			"verdict           %s\n",
		s.Len,
		s.Min, s.Max, s.Range,
		s.MaxAbsErr, s.MaxAbsErrIndex, s.ErrorBound,
		s.MaxRelErr,
		s.PSNR,
		s.NRMSE,
		s.Pearson,
		s.CompressionRatio,
		verdict)
	return err
}

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

package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-ksz/hwy/contrib/dualquant"
	"github.com/ajroetker/go-ksz/hwy/contrib/errbound"
	"github.com/ajroetker/go-ksz/hwy/contrib/verify"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
	"github.com/ajroetker/go-ksz/internal/binio"
	"github.com/ajroetker/go-ksz/internal/metrics"
)

var (
	errCrosscheck   = errors.New("crosscheck found mismatches")
	errVerification = errors.New("reconstruction exceeds the error bound")
)

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [input]",
		Short: "Dual-quantize a raw float32 file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.input(args)
			if err != nil {
				return err
			}
			return a.encode(path)
		},
	}
}

// loadSignal reads path and derives the error bound, rescaling it by the
// value range in relative mode.
func (a *app) loadSignal(pool *workerpool.Pool, path string) ([]float32, *errbound.Config, error) {
	data, err := binio.ReadFloat32s(path)
	if err != nil {
		return nil, nil, err
	}
	eb, err := a.cfg.ErrorBoundConfig()
	if err != nil {
		return nil, nil, err
	}
	mode, err := a.cfg.ModeValue()
	if err != nil {
		return nil, nil, err
	}
	if mode == errbound.Relative {
		if err := eb.RelativeFromSignal(pool, data); err != nil {
			return nil, nil, err
		}
	}
	a.logger.Info("loaded input", "path", path, "elements", len(data), "bound", eb.String())
	return data, eb, nil
}

func (a *app) encode(path string) error {
	pool := workerpool.New(a.cfg.Workers)
	defer pool.Close()

	data, eb, err := a.loadSignal(pool, path)
	if err != nil {
		return err
	}
	p := a.cfg.Params(eb)
	if err := p.Validate(); err != nil {
		return err
	}
	exec, err := a.executor(pool)
	if err != nil {
		return err
	}

	orig := slices.Clone(data)
	enc := dualquant.NewEncoder(exec, dualquant.WithLogger(a.logger))
	res, err := enc.Encode(data, p)
	if err != nil {
		return err
	}

	recon := slices.Clone(orig)
	dualquant.ParallelDryRun(pool, recon, p)

	m := metrics.New()
	m.ObserveEncode(exec.Name(), res)
	a.printEncode(exec.Name(), res)

	var failed error
	if a.cfg.Crosscheck {
		report := dualquant.Crosscheck(res, recon, p)
		if !report.OK() {
			a.logger.Error("crosscheck", "mismatches", report.Mismatches, "first", report.First.Index)
			failed = fmt.Errorf("%w: %d of %d", errCrosscheck, report.Mismatches, report.Checked)
		} else {
			a.logger.Info("crosscheck passed", "checked", report.Checked)
		}
	}
	if a.cfg.Verify && len(orig) > 0 {
		if err := a.verify(m, recon, orig, eb); err != nil && failed == nil {
			failed = err
		}
	}

	if err := a.writeOutputs(res, recon, m); err != nil {
		return err
	}
	return failed
}

func (a *app) printEncode(backend string, res *dualquant.Result) {
	p := message.NewPrinter(language.English)
	n := res.Len()
	outliers := lo.CountBy(res.Quantizable, func(q bool) bool { return !q })
	distinct := len(lo.Uniq(lo.Filter(res.Codes, func(_ uint16, i int) bool { return res.Quantizable[i] })))

	p.Fprintf(a.out, "backend           %s\n", backend)
	p.Fprintf(a.out, "elements          %d in %d blocks of %d\n", n, res.Blocks, res.BlockSize)
	p.Fprintf(a.out, "quantized         %d (%d distinct codes)\n", res.NumQuantized, distinct)
	if n > 0 {
		p.Fprintf(a.out, "outliers          %d (%.4f%%)\n", outliers, 100*float64(outliers)/float64(n))
	}
	if res.AssertionFailures > 0 {
		p.Fprintf(a.out, "demoted codes     %d\n", res.AssertionFailures)
	}
	if secs := res.Elapsed.Seconds(); secs > 0 {
		p.Fprintf(a.out, "encode time       %v\n", res.Elapsed)
		p.Fprintf(a.out, "throughput        %.3f GiB/s\n", metrics.Throughput(n*4, secs))
	}
}

func (a *app) verify(m *metrics.Metrics, recon, orig []float32, eb *errbound.Config) error {
	stats, err := verify.Data(recon, orig, verify.Options{ErrorBound: eb.EBFinal})
	if err != nil {
		return err
	}
	m.ObserveVerify(stats)
	if err := stats.Report(a.out); err != nil {
		return err
	}
	if !stats.Pass {
		a.logger.Error("verification failed",
			"max_abs_error", stats.MaxAbsErr,
			"index", stats.MaxAbsErrIndex,
			"bound", eb.EBFinal)
		return fmt.Errorf("%w: %g > %g", errVerification, stats.MaxAbsErr, eb.EBFinal)
	}
	return nil
}

func (a *app) writeOutputs(res *dualquant.Result, recon []float32, m *metrics.Metrics) error {
	out := a.cfg.Output
	if out.Codes != "" {
		if err := binio.WriteUint16s(out.Codes, res.Codes); err != nil {
			return err
		}
		a.logger.Info("wrote codes", "path", out.Codes)
	}
	if out.Outliers != "" {
		if err := binio.WriteFloat32s(out.Outliers, res.Outliers); err != nil {
			return err
		}
		a.logger.Info("wrote outliers", "path", out.Outliers)
	}
	if out.Recon != "" {
		if err := binio.WriteFloat32s(out.Recon, recon); err != nil {
			return err
		}
		a.logger.Info("wrote reconstruction", "path", out.Recon)
	}
	if out.Metrics != "" {
		if err := m.WriteTextfile(out.Metrics); err != nil {
			return err
		}
		a.logger.Info("wrote metrics", "path", out.Metrics)
	}
	return nil
}

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
	"slices"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-ksz/hwy/contrib/dualquant"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
	"github.com/ajroetker/go-ksz/internal/binio"
	"github.com/ajroetker/go-ksz/internal/metrics"
)

func newDryRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dryrun [input]",
		Short: "Round every element to the grid and verify the bound",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.input(args)
			if err != nil {
				return err
			}
			return a.dryRun(path)
		},
	}
}

func (a *app) dryRun(path string) error {
	pool := workerpool.New(a.cfg.Workers)
	defer pool.Close()

	orig, eb, err := a.loadSignal(pool, path)
	if err != nil {
		return err
	}
	p := a.cfg.Params(eb)
	recon := slices.Clone(orig)
	dualquant.ParallelDryRun(pool, recon, p)

	m := metrics.New()
	var failed error
	if len(orig) > 0 {
		failed = a.verify(m, recon, orig, eb)
	}
	if a.cfg.Output.Recon != "" {
		if err := binio.WriteFloat32s(a.cfg.Output.Recon, recon); err != nil {
			return err
		}
	}
	if a.cfg.Output.Metrics != "" {
		if err := m.WriteTextfile(a.cfg.Output.Metrics); err != nil {
			return err
		}
	}
	return failed
}

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
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-ksz/hwy"
	"github.com/ajroetker/go-ksz/hwy/contrib/team"
)

func newCPUInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cpuinfo",
		Short: "Show the vector level and cache sizes the executors use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.printCPUInfo()
		},
	}
}

func (a *app) printCPUInfo() {
	c := team.Detect()
	p := message.NewPrinter(language.English)
	p.Fprintf(a.out, "cpu               %s\n", c.Brand)
	p.Fprintf(a.out, "cores             %d physical, %d logical, GOMAXPROCS %d\n",
		c.PhysicalCores, c.LogicalCores, c.GOMAXPROCS)
	p.Fprintf(a.out, "dispatch          %s (%d-byte vectors, %d float32 lanes)\n",
		c.Dispatch, c.VectorBytes, hwy.MaxLanes[float32]())
	p.Fprintf(a.out, "fma, sve          %t, %t\n", c.FMA, c.SVE)
	p.Fprintf(a.out, "cache             L1D %d bytes, L2 %d bytes\n", c.L1D, c.L2)
	p.Fprintf(a.out, "pool batch        %d teams of %d\n",
		team.BatchSize(a.cfg.BlockSize), a.cfg.BlockSize)
	p.Fprintf(a.out, "features          %s\n", strings.Join(features(), " "))
}

func features() []string {
	flags := map[string]bool{
		"sse2":     cpu.X86.HasSSE2,
		"avx2":     cpu.X86.HasAVX2,
		"fma":      cpu.X86.HasFMA,
		"avx512f":  cpu.X86.HasAVX512F,
		"avx512dq": cpu.X86.HasAVX512DQ,
		"asimd":    cpu.ARM64.HasASIMD,
		"fphp":     cpu.ARM64.HasFPHP,
		"sve":      cpu.ARM64.HasSVE,
		"sve2":     cpu.ARM64.HasSVE2,
	}
	names := lo.Keys(lo.PickBy(flags, func(_ string, on bool) bool { return on }))
	slices.Sort(names)
	if len(names) == 0 {
		return []string{"none"}
	}
	return names
}

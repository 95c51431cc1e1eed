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

// Command ksz runs block-parallel dual quantization over a raw float32
// file, checks it against the pointwise dry run and reports error
// statistics and throughput.
//
// Usage:
//
//	ksz encode -i data.f32 --mode r2r --exponent -3 --backend pool
//	ksz dryrun -i data.f32 --eb 0.01 --recon-out data.recon.f32
//	ksz cpuinfo
//
// Settings come from built-in defaults, then --config FILE (YAML), then
// flags given on the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

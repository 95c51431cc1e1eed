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

// Package vec provides whole-slice helpers around the encoder: the value
// range scan used by relative error bounds, and little-endian codecs for the
// raw float32 signal and uint16 code arrays.
//
// # Range scan
//
//	lo, hi := vec.MinMax(data)                // panics on empty input
//	lo, hi = vec.ParallelMinMax(pool, data)   // same result, split over a pool
//	rng, err := vec.Range(data)               // hi - lo, ErrEmpty on empty input
//
// A NaN element poisons the scan: MinMax returns NaN for both ends and Range
// reports a NaN range, which relative error bounds reject.
//
// # Codecs
//
//	buf := make([]byte, 4*len(data))
//	vec.EncodeFloat32s(buf, data)
//	vec.DecodeFloat32s(data, buf)
//
// On little-endian hosts (amd64, arm64) the codecs are a reinterpreting
// copy; elsewhere they fall back to encoding/binary.
package vec

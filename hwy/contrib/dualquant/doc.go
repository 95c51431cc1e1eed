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

// Package dualquant implements block-parallel dual quantization of a 1D
// float32 signal, plus the pointwise dry-run oracle used to check it.
//
// # Encoding
//
// The signal is cut into teams of BlockSize lanes. Every team runs three
// phases with a team barrier between consecutive phases:
//
//  1. round: value(i) = round(value(i) * StepInverse), the element's
//     position on the grid of spacing Step.
//  2. predict: pred = 0 on the first lane of a team, otherwise the left
//     neighbour's rounded value. posterror = value(i) - pred. The element
//     is quantizable iff |posterror| < Radius (strict). Quantizable
//     elements get code(i) = round(posterror) + Radius in [0, 2*Radius);
//     the rest get code(i) = 0.
//  3. commit: quantizable elements clear value(i); outliers keep their
//     rounded value there.
//
// Prediction never crosses a team boundary, so teams are independent. The
// second barrier is needed because phase 3 clears the slot the right
// neighbour reads in phase 2.
//
// The Quantizable tag array says which of the two outputs holds each
// element, so a zero code from a zero residual is never confused with the
// outlier sentinel.
//
//	cfg, _ := errbound.New(1024, 1, -4)
//	enc := dualquant.NewEncoder(exec)
//	res, err := enc.Encode(data, dualquant.NewParams(cfg, 32))
//
// # Dry run
//
// DryRun rounds every element to the nearest grid point independently:
// round(x * StepInverse) * Step, so |DryRun(x) - x| <= EBFinal. It shares
// the rounding rule with phase 1 and serves as the oracle Crosscheck
// compares the encoder's decisions against.
package dualquant

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

// Mismatch describes the first element where an encoding disagrees with the
// dry-run oracle.
type Mismatch struct {
	Index           int
	WantQuantizable bool
	GotQuantizable  bool
	WantCode        uint16
	GotCode         uint16
	WantOutlier     float32
	GotOutlier      float32
}

// CrosscheckReport summarises a Crosscheck.
type CrosscheckReport struct {
	Checked    int
	Mismatches int
	First      *Mismatch
}

// OK reports whether every element agreed.
func (r CrosscheckReport) OK() bool { return r.Mismatches == 0 }

// Crosscheck compares res against Reference(oracle, p) and counts the
// elements with a different quantizable decision, code or outlier value.
// oracle is the DryRun of the signal res was encoded from.
func Crosscheck(res *Result, oracle []float32, p Params) CrosscheckReport {
	ref := Reference(oracle, p)
	n := min(ref.Len(), res.Len())
	report := CrosscheckReport{Checked: n}
	for i := range n {
		if ref.Quantizable[i] == res.Quantizable[i] &&
			ref.Codes[i] == res.Codes[i] &&
			sameFloat(ref.Outliers[i], res.Outliers[i]) {
			continue
		}
		report.Mismatches++
		if report.First == nil {
			report.First = &Mismatch{
				Index:           i,
				WantQuantizable: ref.Quantizable[i],
				GotQuantizable:  res.Quantizable[i],
				WantCode:        ref.Codes[i],
				GotCode:         res.Codes[i],
				WantOutlier:     ref.Outliers[i],
				GotOutlier:      res.Outliers[i],
			}
		}
	}
	return report
}

func sameFloat(a, b float32) bool {
	return a == b || (a != a && b != b)
}

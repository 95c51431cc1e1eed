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

// Package metrics records encode and verification results in a Prometheus
// registry that can be written out as a node-exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajroetker/go-ksz/hwy/contrib/dualquant"
	"github.com/ajroetker/go-ksz/hwy/contrib/verify"
)

const namespace = "ksz"

const gib = 1 << 30

// Metrics is a private registry with the ksz collectors. Methods are safe
// for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	elements          *prometheus.CounterVec
	quantized         *prometheus.CounterVec
	outliers          *prometheus.CounterVec
	assertionFailures *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	throughput        *prometheus.GaugeVec

	maxAbsError prometheus.Gauge
	psnr        prometheus.Gauge
	pass        prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		elements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "elements_total",
			Help:      "Elements passed through the encoder.",
		}, []string{"backend"}),
		quantized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "quantized_total",
			Help:      "Elements stored as quantization codes.",
		}, []string{"backend"}),
		outliers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "outliers_total",
			Help:      "Elements stored as outliers.",
		}, []string{"backend"}),
		assertionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "assertion_failures_total",
			Help:      "Codes outside the dictionary that were demoted to outliers.",
		}, []string{"backend"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "duration_seconds",
			Help:      "Wall time of the parallel encode dispatch.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"backend"}),
		throughput: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "encode",
			Name:      "throughput_gib_per_second",
			Help:      "Input bytes per second of the last encode, in GiB/s.",
		}, []string{"backend"}),
		maxAbsError: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "max_abs_error",
			Help:      "Largest absolute reconstruction error of the last verification.",
		}),
		psnr: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "psnr_db",
			Help:      "PSNR of the last verification.",
		}),
		pass: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "pass",
			Help:      "1 if the last verification met the error bound, else 0.",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveEncode records one encode result.
func (m *Metrics) ObserveEncode(backend string, res *dualquant.Result) {
	m.elements.WithLabelValues(backend).Add(float64(res.Len()))
	m.quantized.WithLabelValues(backend).Add(float64(res.NumQuantized))
	m.outliers.WithLabelValues(backend).Add(float64(res.NumOutliers))
	m.assertionFailures.WithLabelValues(backend).Add(float64(res.AssertionFailures))

	secs := res.Elapsed.Seconds()
	m.duration.WithLabelValues(backend).Observe(secs)
	if secs > 0 {
		m.throughput.WithLabelValues(backend).Set(Throughput(res.Len()*4, secs))
	}
}

// ObserveVerify records one verification.
func (m *Metrics) ObserveVerify(s *verify.Stats) {
	m.maxAbsError.Set(s.MaxAbsErr)
	m.psnr.Set(s.PSNR)
	if s.Pass {
		m.pass.Set(1)
	} else {
		m.pass.Set(0)
	}
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

// Throughput converts a byte count and a duration to GiB/s.
func Throughput(bytes int, seconds float64) float64 {
	return float64(bytes) / gib / seconds
}

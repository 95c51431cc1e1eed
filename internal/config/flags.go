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

package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds a flag for every setting to fs, with the built-in
// defaults shown in help.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("input", "i", d.Input, "raw little-endian float32 input file")
	fs.Int("dict-size", d.DictSize, "number of quantization bins (radius is half)")
	fs.Float64("mantissa", d.Mantissa, "error bound mantissa")
	fs.Int("exponent", d.Exponent, "error bound base-10 exponent")
	fs.Float64("eb", d.ErrorBound, "explicit error bound, overrides mantissa and exponent")
	fs.String("mode", d.Mode, "error bound mode: abs or r2r")
	fs.IntP("block-size", "b", d.BlockSize, "lanes per team")
	fs.String("backend", d.Backend, "team executor: serial, pool or threads")
	fs.IntP("workers", "j", d.Workers, "worker count, 0 for GOMAXPROCS")
	fs.String("rounding", d.Rounding, "rounding of halfway cases: half-away or half-even")
	fs.Bool("verify", d.Verify, "compare the dry-run reconstruction with the input")
	fs.Bool("crosscheck", d.Crosscheck, "check every encoder decision against the dry run")
	fs.String("codes-out", d.Output.Codes, "write quantization codes (uint16 LE) to this file")
	fs.String("outliers-out", d.Output.Outliers, "write outlier grid values (float32 LE) to this file")
	fs.String("recon-out", d.Output.Recon, "write the dry-run reconstruction (float32 LE) to this file")
	fs.String("metrics-file", d.Output.Metrics, "write Prometheus metrics in text format to this file")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	fs.String("log-format", d.Log.Format, "log format: text or json")
}

// ApplyFlags copies every flag that was set explicitly on fs into c.
// Flags RegisterFlags did not add are ignored.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil {
			err = c.applyFlag(fs, f.Name)
		}
	})
	return err
}

func (c *Config) applyFlag(fs *pflag.FlagSet, name string) error {
	var err error
	switch name {
	case "input":
		c.Input, err = fs.GetString(name)
	case "dict-size":
		c.DictSize, err = fs.GetInt(name)
	case "mantissa":
		c.Mantissa, err = fs.GetFloat64(name)
	case "exponent":
		c.Exponent, err = fs.GetInt(name)
	case "eb":
		c.ErrorBound, err = fs.GetFloat64(name)
	case "mode":
		c.Mode, err = fs.GetString(name)
	case "block-size":
		c.BlockSize, err = fs.GetInt(name)
	case "backend":
		c.Backend, err = fs.GetString(name)
	case "workers":
		c.Workers, err = fs.GetInt(name)
	case "rounding":
		c.Rounding, err = fs.GetString(name)
	case "verify":
		c.Verify, err = fs.GetBool(name)
	case "crosscheck":
		c.Crosscheck, err = fs.GetBool(name)
	case "codes-out":
		c.Output.Codes, err = fs.GetString(name)
	case "outliers-out":
		c.Output.Outliers, err = fs.GetString(name)
	case "recon-out":
		c.Output.Recon, err = fs.GetString(name)
	case "metrics-file":
		c.Output.Metrics, err = fs.GetString(name)
	case "log-level":
		c.Log.Level, err = fs.GetString(name)
	case "log-format":
		c.Log.Format, err = fs.GetString(name)
	}
	return err
}

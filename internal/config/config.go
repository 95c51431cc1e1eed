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

// Package config holds the settings of a ksz run. Values come from
// built-in defaults, then an optional YAML file, then explicitly set
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-ksz/hwy/contrib/dualquant"
	"github.com/ajroetker/go-ksz/hwy/contrib/errbound"
	"github.com/ajroetker/go-ksz/hwy/contrib/team"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full set of run settings.
type Config struct {
	Input string `yaml:"input"`

	// DictSize is the number of quantization bins; the radius is half of it.
	DictSize int `yaml:"dict_size"`

	// The error bound is Mantissa * 10^Exponent unless ErrorBound is set.
	Mantissa   float64 `yaml:"mantissa"`
	Exponent   int     `yaml:"exponent"`
	ErrorBound float64 `yaml:"error_bound"`

	// Mode is "abs" or "r2r" (relative to the value range).
	Mode string `yaml:"mode"`

	BlockSize int    `yaml:"block_size"`
	Backend   string `yaml:"backend"`
	Workers   int    `yaml:"workers"`
	Rounding  string `yaml:"rounding"`

	Verify     bool `yaml:"verify"`
	Crosscheck bool `yaml:"crosscheck"`

	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// OutputConfig names optional output files. Empty means not written.
type OutputConfig struct {
	Codes    string `yaml:"codes"`
	Outliers string `yaml:"outliers"`
	Recon    string `yaml:"recon"`
	Metrics  string `yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DictSize:   1024,
		Mantissa:   1,
		Exponent:   -4,
		Mode:       errbound.Absolute.String(),
		BlockSize:  dualquant.DefaultBlockSize,
		Backend:    team.BackendPool.String(),
		Rounding:   dualquant.RoundHalfAway.String(),
		Verify:     true,
		Crosscheck: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns Default overlaid with the YAML file at path. An empty path
// returns the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if c.DictSize < 0 || c.DictSize > errbound.MaxDictSize {
		return fmt.Errorf("%w: dict_size %d outside [0, %d]", ErrInvalid, c.DictSize, errbound.MaxDictSize)
	}
	if c.ErrorBound < 0 {
		return fmt.Errorf("%w: error_bound %g is negative", ErrInvalid, c.ErrorBound)
	}
	if c.ErrorBound == 0 && !(c.Mantissa > 0) {
		return fmt.Errorf("%w: mantissa %g must be positive", ErrInvalid, c.Mantissa)
	}
	if _, err := c.ModeValue(); err != nil {
		return err
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block_size %d must be positive", ErrInvalid, c.BlockSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalid, c.Workers)
	}
	if _, err := team.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := dualquant.ParseRounding(c.Rounding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalid, c.Log.Format)
	}
	return nil
}

// ModeValue parses Mode.
func (c *Config) ModeValue() (errbound.Mode, error) {
	switch c.Mode {
	case errbound.Absolute.String():
		return errbound.Absolute, nil
	case errbound.Relative.String():
		return errbound.Relative, nil
	}
	return 0, fmt.Errorf("%w: mode %q (want abs or r2r)", ErrInvalid, c.Mode)
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return l, nil
}

// ErrorBoundConfig builds the absolute-mode bound. Switching to relative
// mode needs the signal and is left to the caller.
func (c *Config) ErrorBoundConfig() (*errbound.Config, error) {
	if c.ErrorBound > 0 {
		return errbound.NewAbsolute(c.ErrorBound, c.DictSize)
	}
	return errbound.New(c.DictSize, c.Mantissa, c.Exponent)
}

// Params returns the engine parameters for eb. The config must be valid.
func (c *Config) Params(eb *errbound.Config) dualquant.Params {
	p := dualquant.NewParams(eb, c.BlockSize)
	p.Rounding, _ = dualquant.ParseRounding(c.Rounding)
	return p
}

// BackendValue parses Backend.
func (c *Config) BackendValue() (team.Backend, error) {
	return team.ParseBackend(c.Backend)
}

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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-ksz/hwy/contrib/team"
	"github.com/ajroetker/go-ksz/hwy/contrib/workerpool"
	"github.com/ajroetker/go-ksz/internal/config"
)

// app is the state shared by subcommands once flags are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	runID  string
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}
	var configPath string

	root := &cobra.Command{
		Use:           "ksz",
		Short:         "Block-parallel dual-quantization encoder",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newEncodeCmd(a),
		newDryRunCmd(a),
		newCPUInfoCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.runID = uuid.NewString()

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger.With("run_id", a.runID)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// input returns the input path from the first argument or the settings.
func (a *app) input(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.cfg.Input == "" {
		return "", fmt.Errorf("no input file: pass one as an argument or with --input")
	}
	return a.cfg.Input, nil
}

// executor builds the configured team backend over pool.
func (a *app) executor(pool *workerpool.Pool) (team.Executor, error) {
	b, err := a.cfg.BackendValue()
	if err != nil {
		return nil, err
	}
	return team.New(b, pool)
}

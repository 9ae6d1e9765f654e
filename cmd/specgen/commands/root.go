// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Specgen - Specgen turns loosely structured specification documents into
structured function records and drafts source code from them.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartekus/specgen/cmd/specgen/internal/clierr"
	"github.com/bartekus/specgen/internal/codegen"
	"github.com/bartekus/specgen/internal/config"
	"github.com/bartekus/specgen/internal/logging"
	"github.com/bartekus/specgen/internal/projectroot"
	"github.com/bartekus/specgen/internal/runner"
)

// app carries state shared by every subcommand. It is populated in the
// root command's PersistentPreRunE.
type app struct {
	verbose    bool
	logJSON    bool
	configFile string

	rootDir string
	cfg     *config.Config
	logger  *zap.Logger

	// newGenerator builds the code generator for generate and serve.
	newGenerator func(ctx context.Context, cfg config.CodegenConfig, logger *zap.Logger) (codegen.Generator, error)
}

// NewRootCmd constructs the specgen root Cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newGenerator: codegen.New})
}

func newRootCmd(a *app) *cobra.Command {
	version := os.Getenv("SPECGEN_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	a.logger = zap.NewNop()
	if a.newGenerator == nil {
		a.newGenerator = codegen.New
	}

	cmd := &cobra.Command{
		Use:           "specgen",
		Short:         "Specgen - extract function specifications and generate code",
		Long:          "Specgen reads specification documents (.docx, .md, .txt), extracts one record per function, and drafts code for each record.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .specgen/config.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of Specgen",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Specgen version %s\n", version)
		},
	})

	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newResetCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

func (a *app) init() error {
	logger, err := logging.New(logging.Options{Verbose: a.verbose, JSON: a.logJSON})
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "configuring logging", err)
	}
	a.logger = logger

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return err
	}
	a.rootDir = root

	cfg, err := config.NewLoader(root, a.configFile).Load()
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "loading configuration", err)
	}
	a.cfg = cfg

	logger.Debug("configuration loaded",
		zap.String("project_root", root),
		zap.String("provider", cfg.Codegen.Provider),
		zap.String("header_mode", cfg.Extract.HeaderMode),
	)
	return nil
}

// stateStore resolves the run state directory against the project root.
func (a *app) stateStore() *runner.StateStore {
	dir := a.cfg.State.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.rootDir, dir)
	}
	return runner.NewStateStore(dir)
}

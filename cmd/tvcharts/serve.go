// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/httpapi"
)

// Serve-specific flag values.
var (
	serveOpts buildFlags
	serveAddr string
)

// serveCmd serves the chart datasets over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the chart datasets as a JSON API",
	Long: `Load a television dataset once and serve its chart datasets over HTTP.

Routes:
  GET /healthz                 liveness probe
  GET /api/datasets            every dataset in one JSON envelope
  GET /api/datasets/{kind}     one dataset (brands, sizes, ranges)

Query parameters top_n, order, brand, min_screen, max_screen and max_energy
override the flags for a single request. Access logs go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveOpts.register(serveCmd.Flags())
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	absPath, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadBuildConfig(serveOpts.overrides(cmd))
	if err != nil {
		return err
	}
	cfg.Source = args[0]

	rows, err := dataset.Load(absPath)
	if err != nil {
		return exitError(ExitInvalidArgs, "tvcharts: cannot read %q (%v)", args[0], err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(rows, cfg)
	if err := httpapi.Serve(ctx, serveAddr, srv.Handler(cmd.ErrOrStderr())); err != nil {
		return exitError(ExitTotalFailure, "tvcharts: %v", err)
	}
	return nil
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/tvcharts/internal/output"
	"github.com/davetashner/tvcharts/internal/pipeline"
	"github.com/davetashner/tvcharts/internal/tv"
)

// Build-specific flag values.
var (
	buildOpts   buildFlags
	buildFormat string
	buildOutput string
)

// buildCmd builds the chart datasets and writes them in a machine-readable format.
var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Build chart datasets from a television dataset",
	Long: `Read a television energy dataset (.csv or .xlsx) and write the chart
datasets as JSON, Markdown or CSV.

Flags override environment variables, which override .tvcharts.yaml in the
current directory, which overrides the global config.

Exit codes: 0 ok, 1 invalid arguments or config, 2 some aggregators failed,
3 all aggregators failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildOpts.register(buildCmd.Flags())
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "json", "output format (json, markdown, csv)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file path (default: stdout)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	absPath, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	cli := buildOpts.overrides(cmd)
	if cmd.Flags().Changed("format") {
		cli.OutputFormat = buildFormat
	}
	cfg, err := loadBuildConfig(cli)
	if err != nil {
		return err
	}
	cfg.Source = args[0]

	formatter, err := output.GetFormatter(cfg.OutputFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "tvcharts: %v", err)
	}

	result, err := runPipeline(cmd, cfg, absPath)
	if err != nil {
		return err
	}

	exitCode := computeExitCode(result)
	if exitCode == ExitTotalFailure {
		return exitError(exitCode, "")
	}

	if err := writeOutput(cmd, buildOutput, func(w io.Writer) error {
		return formatter.Format(result, w)
	}); err != nil {
		return err
	}

	if exitCode != ExitOK {
		return exitError(exitCode, "")
	}
	return nil
}

// runPipeline builds the datasets for the file at absPath and logs any
// aggregator failures.
func runPipeline(cmd *cobra.Command, cfg tv.BuildConfig, absPath string) (*tv.BuildResult, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "tvcharts: %v", err)
	}

	slog.Info("building datasets", "source", cfg.Source, "aggregators", p.Aggregators())
	result, err := p.RunFile(cmd.Context(), absPath)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "tvcharts: %v", err)
	}

	for _, ar := range result.Results {
		if ar.Err != nil {
			slog.Warn("aggregator failed", "aggregator", ar.Aggregator, "error", ar.Err)
		}
	}
	if result.Parse.Dropped > 0 {
		slog.Info("rows dropped", "count", result.Parse.Dropped, "total", result.Parse.Total)
	}
	slog.Debug("build complete", "filtered", result.Filtered, "duration", result.Duration)
	return result, nil
}

// writeOutput calls write with the output file at path, or with the command's
// stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	if path != "" {
		f, err := cmdFS.Create(path)
		if err != nil {
			return exitError(ExitInvalidArgs, "tvcharts: cannot create output file %q (%v)", path, err)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}
	if err := write(w); err != nil {
		return exitError(ExitTotalFailure, "tvcharts: writing output failed (%v)", err)
	}
	if path != "" {
		slog.Info("wrote output", "path", path)
	}
	return nil
}

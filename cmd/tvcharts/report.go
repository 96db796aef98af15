package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/tvcharts/internal/report"
)

// Report-specific flag values.
var (
	reportOpts     buildFlags
	reportSections string
	reportFormat   string
	reportOutput   string
)

// reportCmd renders the chart datasets as a terminal report.
var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Show a terminal report of the chart datasets",
	Long: `Build the chart datasets for a television dataset and render them as
tables with bars, preceded by a summary of row counts and aggregator status.

Use --sections to pick report sections (summary, brands, sizes, ranges) and
--format json for a machine-readable rendition of the same report.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportOpts.register(reportCmd.Flags())
	reportCmd.Flags().StringVar(&reportSections, "sections", "", "comma-separated list of report sections to include")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "report format: text or json")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file path (default: stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	absPath, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	sections := splitList(reportSections)
	if unknown := report.UnknownSections(sections); len(unknown) > 0 {
		return exitError(ExitInvalidArgs, "tvcharts: unknown sections: %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(report.List(), ", "))
	}

	switch reportFormat {
	case "text", "json":
	default:
		return exitError(ExitInvalidArgs, "tvcharts: unsupported report format %q (must be text or json)", reportFormat)
	}

	cfg, err := loadBuildConfig(reportOpts.overrides(cmd))
	if err != nil {
		return err
	}
	cfg.Source = args[0]

	result, err := runPipeline(cmd, cfg, absPath)
	if err != nil {
		return err
	}

	render := func(w io.Writer) error { return report.Render(result, sections, w) }
	if reportFormat == "json" {
		render = func(w io.Writer) error { return report.RenderJSON(result, sections, w) }
	}
	if err := writeOutput(cmd, reportOutput, render); err != nil {
		return err
	}

	if code := computeExitCode(result); code == ExitTotalFailure {
		return exitError(code, "")
	}
	return nil
}

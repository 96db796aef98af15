package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/tvcharts/internal/config"
	tvlog "github.com/davetashner/tvcharts/internal/log"
)

// Global flag values.
var (
	verbose   bool
	quiet     bool
	noColor   bool
	logFormat string
	envFile   string
)

// rootCmd is the base command for tvcharts.
var rootCmd = &cobra.Command{
	Use:   "tvcharts",
	Short: "Build chart datasets from television energy data",
	Long: `tvcharts reads a television energy-rating dataset (CSV or XLSX) and
builds the data behind three charts: the largest screen per brand, average
energy use by screen size, and the number of models per screen-size range.

Datasets can be written as JSON, Markdown or CSV, shown as a terminal
report, served over HTTP, or exposed to agents through MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		format, err := tvlog.ParseFormat(logFormat)
		if err != nil {
			return exitError(ExitInvalidArgs, "tvcharts: %v", err)
		}
		tvlog.SetupFormat(verbose, quiet, format)
		if noColor {
			color.NoColor = true
		}
		if err := config.LoadDotEnv(envFile); err != nil {
			return exitError(ExitInvalidArgs, "tvcharts: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of KEY=VALUE pairs to load into the environment")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

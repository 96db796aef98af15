package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/validate"
)

// Validate-specific flag values.
var (
	validateStrict bool
	validateJSON   bool
)

// validateCmd checks a dataset before it is charted.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a television dataset for problems",
	Long: `Check a television dataset (.csv or .xlsx) against the configured column
names. Reports missing columns, rows without a brand and unusable numeric
cells, with fix suggestions.

Column names come from the columns section of .tvcharts.yaml, so a dataset
that validates will also build with the same configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "machine-readable output")
}

func runValidate(cmd *cobra.Command, args []string) error {
	absPath, err := resolveDataset(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadBuildConfig(nil)
	if err != nil {
		return err
	}

	rows, err := dataset.Load(absPath)
	if err != nil {
		return exitError(ExitInvalidArgs, "tvcharts: cannot read %q (%v)", args[0], err)
	}
	result := validate.Validate(rows, dataset.DefaultColumns().Override(cfg.Columns))

	failed := !result.Valid() || (validateStrict && len(result.Warnings) > 0)
	if validateJSON {
		if err := printValidateJSON(cmd.OutOrStdout(), result, !failed); err != nil {
			return err
		}
	} else {
		printValidateText(cmd, result)
	}

	if failed {
		return exitError(ExitInvalidArgs, "")
	}
	return nil
}

func printValidateText(cmd *cobra.Command, result *validate.Result) {
	errOut := cmd.ErrOrStderr()
	for _, e := range result.Errors {
		printIssue(errOut, "error", e)
	}
	for _, e := range result.Warnings {
		printIssue(errOut, "warning", e)
	}

	if result.Valid() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d of %d rows usable\n", result.Records, result.TotalRows)
		if len(result.Warnings) > 0 {
			_, _ = fmt.Fprintf(errOut, "\n%d warning(s) found in %d rows\n", len(result.Warnings), result.TotalRows)
		}
		return
	}
	_, _ = fmt.Fprintf(errOut, "\n%d error(s), %d warning(s) found in %d rows\n",
		len(result.Errors), len(result.Warnings), result.TotalRows)
}

func printIssue(w io.Writer, label string, e validate.ValidationError) {
	_, _ = fmt.Fprintf(w, "%s: %s\n", label, e.Error())
	if e.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "  fix: %s\n", e.Suggestion)
	}
}

func printValidateJSON(w io.Writer, result *validate.Result, valid bool) error {
	data, err := json.MarshalIndent(struct {
		Valid bool `json:"valid"`
		*validate.Result
	}{valid, result}, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davetashner/tvcharts/internal/tv"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes datasets as human-readable Markdown tables.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes a Markdown document to w with a summary line, one table per
// dataset in result order, and a section listing failed aggregators.
func (m *MarkdownFormatter) Format(result *tv.BuildResult, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# TV Chart Datasets\n\n")
	if result.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", result.Source)
	}
	fmt.Fprintf(&b, "**%d** rows read, **%d** records parsed, **%d** dropped, **%d** filtered out.\n",
		result.Parse.Total, result.Parse.Parsed, result.Parse.Dropped, result.Filtered)

	var failed []tv.AggregatorResult
	for _, r := range result.Results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		b.WriteString("\n")
		writeDataset(&b, r.Dataset)
	}

	if len(failed) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, r := range failed {
			fmt.Fprintf(&b, "- **%s**: %s\n", r.Aggregator, r.Err)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeDataset(b *strings.Builder, ds tv.Dataset) {
	switch ds.Kind {
	case tv.KindBrands:
		b.WriteString("## Largest screen per brand\n\n")
		if len(ds.Brands) == 0 {
			b.WriteString("_No records with a screen size._\n")
			return
		}
		b.WriteString("| # | Brand | Model | Screen (in) | Energy (kWh/yr) |\n")
		b.WriteString("|--:|-------|-------|------------:|----------------:|\n")
		for i, e := range ds.Brands {
			fmt.Fprintf(b, "| %d | %s | %s | %s | %s |\n",
				i+1, escapeCell(e.Brand), escapeCell(e.ModelNumber),
				formatFloat(e.ScreenSize), dashIfEmpty(formatNumber(e.EnergyConsumption)))
		}
	case tv.KindSizes:
		b.WriteString("## Average energy by screen size\n\n")
		if len(ds.Sizes) == 0 {
			b.WriteString("_No records with both a screen size and an energy value._\n")
			return
		}
		b.WriteString("| Screen (in) | Avg energy (kWh/yr) | Models |\n")
		b.WriteString("|------------:|--------------------:|-------:|\n")
		for _, e := range ds.Sizes {
			fmt.Fprintf(b, "| %d | %s | %d |\n", e.BucketSize, strconv.FormatFloat(e.AverageEnergy, 'f', 1, 64), e.Count)
		}
	case tv.KindRanges:
		b.WriteString("## Models by screen-size range\n\n")
		if len(ds.Ranges) == 0 {
			b.WriteString("_No records in any range._\n")
			return
		}
		b.WriteString("| Range | Models | Share |\n")
		b.WriteString("|-------|-------:|------:|\n")
		for _, e := range ds.Ranges {
			fmt.Fprintf(b, "| %s | %d | %s%% |\n", escapeCell(e.Label), e.Count, strconv.FormatFloat(e.Share, 'f', 1, 64))
		}
	default:
		fmt.Fprintf(b, "## %s\n\n_%d entries._\n", ds.Kind, ds.Len())
	}
}

// escapeCell makes s safe inside a Markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

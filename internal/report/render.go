package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/davetashner/tvcharts/internal/tv"
)

// Render writes a terminal report for result: a header followed by each
// requested section. Sections whose dataset is missing are noted and skipped.
func Render(result *tv.BuildResult, sections []string, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "TV Charts Report\n")
	_, _ = fmt.Fprintf(w, "================\n\n")
	if result.Source != "" {
		_, _ = fmt.Fprintf(w, "Dataset:   %s\n", result.Source)
	}
	_, _ = fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Duration:  %s\n\n", result.Duration.Round(time.Millisecond))

	for _, name := range ResolveSections(sections) {
		sec := Get(name)
		if err := sec.Analyze(result); err != nil {
			if errors.Is(err, ErrDatasetNotAvailable) {
				slog.Debug("skipping report section", "section", name, "reason", err)
				_, _ = fmt.Fprintf(w, "%s\n  skipped: %v\n\n", SectionTitle(sec.Description()), err)
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}
		if err := sec.Render(w); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
	}
	return nil
}

// ReportJSON is the top-level JSON structure for --format json output.
type ReportJSON struct {
	Source      string           `json:"source,omitempty"`
	Generated   string           `json:"generated"`
	Duration    string           `json:"duration"`
	Aggregators []AggregatorJSON `json:"aggregators"`
	Rows        tv.ParseSummary  `json:"rows"`
	Filtered    int              `json:"filtered"`
	Sections    []SectionJSON    `json:"sections,omitempty"`
}

// AggregatorJSON is the JSON representation of a single aggregator result.
type AggregatorJSON struct {
	Name     string `json:"name"`
	Entries  int    `json:"entries"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// SectionJSON is the JSON representation of a single report section.
type SectionJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`            // "ok", "skipped"
	Content     string `json:"content,omitempty"` // rendered text
}

// RenderJSON writes the report as machine-readable JSON. Row issues are
// summarized by count only.
func RenderJSON(result *tv.BuildResult, sections []string, w io.Writer) error {
	rows := result.Parse
	rows.Issues = nil

	out := ReportJSON{
		Source:      result.Source,
		Generated:   time.Now().Format(time.RFC3339),
		Duration:    result.Duration.Round(time.Millisecond).String(),
		Aggregators: []AggregatorJSON{},
		Rows:        rows,
		Filtered:    result.Filtered,
	}

	for _, r := range result.Results {
		aj := AggregatorJSON{
			Name:     r.Aggregator,
			Entries:  r.Dataset.Len(),
			Duration: r.Duration.Round(time.Millisecond).String(),
		}
		if r.Err != nil {
			aj.Error = r.Err.Error()
		}
		out.Aggregators = append(out.Aggregators, aj)
	}

	for _, name := range ResolveSections(sections) {
		sec := Get(name)
		sj := SectionJSON{
			Name:        sec.Name(),
			Description: sec.Description(),
		}

		if err := sec.Analyze(result); err != nil {
			if errors.Is(err, ErrDatasetNotAvailable) {
				sj.Status = "skipped"
				out.Sections = append(out.Sections, sj)
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}

		sj.Status = "ok"
		var buf bytes.Buffer
		if err := sec.Render(&buf); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
		sj.Content = buf.String()
		out.Sections = append(out.Sections, sj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ResolveSections determines which sections to run. If filter is empty, all
// registered sections are used. Unknown names are dropped; use
// UnknownSections to report them.
func ResolveSections(filter []string) []string {
	if len(filter) == 0 {
		return List()
	}

	var names []string
	for _, name := range filter {
		name = strings.TrimSpace(name)
		if Get(name) != nil {
			names = append(names, name)
		}
	}
	return names
}

// UnknownSections returns the names in filter that are not registered.
func UnknownSections(filter []string) []string {
	var unknown []string
	for _, name := range filter {
		if Get(strings.TrimSpace(name)) == nil {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

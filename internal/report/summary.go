// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/davetashner/tvcharts/internal/tv"
)

// summarySection reports how many rows were read and which aggregators ran.
type summarySection struct {
	parse    tv.ParseSummary
	filtered int
	results  []tv.AggregatorResult
}

func (s *summarySection) Name() string        { return "summary" }
func (s *summarySection) Description() string { return "Row counts and aggregator status" }

func (s *summarySection) Analyze(result *tv.BuildResult) error {
	s.parse = result.Parse
	s.filtered = result.Filtered
	s.results = result.Results
	return nil
}

func (s *summarySection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Summary"))
	_, _ = fmt.Fprintf(w, "-------\n")
	_, _ = fmt.Fprintf(w, "  Rows read:        %d\n", s.parse.Total)
	_, _ = fmt.Fprintf(w, "  Records parsed:   %d\n", s.parse.Parsed)
	_, _ = fmt.Fprintf(w, "  Rows dropped:     %s\n", colorCount(s.parse.Dropped))
	_, _ = fmt.Fprintf(w, "  Row issues:       %s\n", colorCount(len(s.parse.Issues)))
	_, _ = fmt.Fprintf(w, "  Filtered out:     %d\n\n", s.filtered)

	if len(s.results) == 0 {
		_, _ = fmt.Fprintf(w, "  No aggregators ran.\n\n")
		return nil
	}

	tbl := NewTable(
		Column{Header: "Aggregator"},
		Column{Header: "Status", Color: ColorStatus},
		Column{Header: "Entries", Align: AlignRight},
		Column{Header: "Excluded", Align: AlignRight},
		Column{Header: "Duration", Align: AlignRight},
	)
	for _, r := range s.results {
		status, entries, excluded := "ok", strconv.Itoa(r.Dataset.Len()), strconv.Itoa(r.Dataset.Stats.Excluded)
		if r.Err != nil {
			status, entries, excluded = "failed", "-", "-"
		}
		tbl.AddRow(r.Aggregator, status, entries, excluded, r.Duration.Round(time.Microsecond).String())
	}
	if err := tbl.Render(w); err != nil {
		return err
	}

	for _, r := range s.results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", r.Aggregator, r.Err)
		}
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

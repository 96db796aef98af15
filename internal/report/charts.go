// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/davetashner/tvcharts/internal/tv"
)

// barWidth is the length of the longest bar in a chart section.
const barWidth = 30

// brandsSection renders the largest-screen model per brand.
type brandsSection struct {
	entries []tv.BrandSelectionEntry
	stats   tv.DatasetStats
}

func (s *brandsSection) Name() string { return tv.KindBrands }
func (s *brandsSection) Description() string {
	return "Largest screen per brand, ranked (bar chart data)"
}

func (s *brandsSection) Analyze(result *tv.BuildResult) error {
	ds, err := datasetFor(result, tv.KindBrands)
	if err != nil {
		return err
	}
	s.entries = ds.Brands
	s.stats = ds.Stats
	return nil
}

func (s *brandsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Largest Screen per Brand"))
	_, _ = fmt.Fprintf(w, "------------------------\n")
	if len(s.entries) == 0 {
		_, _ = fmt.Fprintf(w, "  No records with a screen size.\n\n")
		return nil
	}

	maxSize := 0.0
	for _, e := range s.entries {
		maxSize = math.Max(maxSize, e.ScreenSize)
	}

	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Brand"},
		Column{Header: "Model"},
		Column{Header: "Screen", Align: AlignRight},
		Column{Header: "kWh/yr", Align: AlignRight, Color: ColorEnergy},
		Column{Header: "", Color: ColorBar},
	)
	for i, e := range s.entries {
		energy := "-"
		if e.EnergyConsumption.Valid {
			energy = formatFloat(e.EnergyConsumption.Value, 0)
		}
		tbl.AddRow(strconv.Itoa(i+1), e.Brand, e.ModelNumber, formatFloat(e.ScreenSize, 1), energy, bar(e.ScreenSize, maxSize))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	if s.stats.Excluded > 0 {
		_, _ = fmt.Fprintf(w, "  %d records without a screen size were skipped.\n", s.stats.Excluded)
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

// sizesSection renders mean energy per whole-inch screen size.
type sizesSection struct {
	entries []tv.SizeBucketEntry
}

func (s *sizesSection) Name() string { return tv.KindSizes }
func (s *sizesSection) Description() string {
	return "Average energy consumption by screen size (line chart data)"
}

func (s *sizesSection) Analyze(result *tv.BuildResult) error {
	ds, err := datasetFor(result, tv.KindSizes)
	if err != nil {
		return err
	}
	s.entries = ds.Sizes
	return nil
}

func (s *sizesSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Average Energy by Screen Size"))
	_, _ = fmt.Fprintf(w, "-----------------------------\n")
	if len(s.entries) == 0 {
		_, _ = fmt.Fprintf(w, "  No records with both a screen size and an energy value.\n\n")
		return nil
	}

	maxEnergy := 0.0
	for _, e := range s.entries {
		maxEnergy = math.Max(maxEnergy, e.AverageEnergy)
	}

	tbl := NewTable(
		Column{Header: "Inches", Align: AlignRight},
		Column{Header: "Avg kWh/yr", Align: AlignRight, Color: ColorEnergy},
		Column{Header: "Models", Align: AlignRight},
		Column{Header: "", Color: ColorBar},
	)
	for _, e := range s.entries {
		tbl.AddRow(strconv.Itoa(e.BucketSize), formatFloat(e.AverageEnergy, 1), strconv.Itoa(e.Count), bar(e.AverageEnergy, maxEnergy))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

// rangesSection renders record counts per screen-size range.
type rangesSection struct {
	entries []tv.RangeBucketEntry
	stats   tv.DatasetStats
}

func (s *rangesSection) Name() string { return tv.KindRanges }
func (s *rangesSection) Description() string {
	return "Models per screen-size range (pie chart data)"
}

func (s *rangesSection) Analyze(result *tv.BuildResult) error {
	ds, err := datasetFor(result, tv.KindRanges)
	if err != nil {
		return err
	}
	s.entries = ds.Ranges
	s.stats = ds.Stats
	return nil
}

func (s *rangesSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Screen Size Distribution"))
	_, _ = fmt.Fprintf(w, "------------------------\n")
	if len(s.entries) == 0 {
		_, _ = fmt.Fprintf(w, "  No records in any range.\n\n")
		return nil
	}

	tbl := NewTable(
		Column{Header: "Range"},
		Column{Header: "Models", Align: AlignRight},
		Column{Header: "Share", Align: AlignRight},
		Column{Header: "", Color: ColorBar},
	)
	for _, e := range s.entries {
		tbl.AddRow(e.Label, strconv.Itoa(e.Count), formatFloat(e.Share, 1)+"%", bar(e.Share, 100))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	if s.stats.Unclassified > 0 {
		_, _ = fmt.Fprintf(w, "  %s records fell outside every range.\n", colorCount(s.stats.Unclassified))
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

// bar draws a horizontal bar proportional to v/maxV. Any positive value gets
// at least one cell.
func bar(v, maxV float64) string {
	if maxV <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / maxV * barWidth))
	return strings.Repeat("#", min(max(n, 1), barWidth))
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

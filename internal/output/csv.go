// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/davetashner/tvcharts/internal/tv"
)

func init() {
	RegisterFormatter(NewCSVFormatter())
}

// CSVHeader is the header row of the long-format CSV output.
var CSVHeader = []string{"dataset", "label", "model", "screen_size", "energy", "count", "share"}

// CSVFormatter writes all datasets as one long-format CSV table, one row per
// chart entry. Columns that do not apply to a dataset are left empty.
type CSVFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*CSVFormatter)(nil)

// NewCSVFormatter returns a new CSVFormatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Name returns the format name.
func (c *CSVFormatter) Name() string {
	return "csv"
}

// Format writes the header and one row per entry of every successful dataset.
func (c *CSVFormatter) Format(result *tv.BuildResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	for _, r := range result.Results {
		if r.Err != nil {
			continue
		}
		for _, row := range csvRows(r.Dataset) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvRows(ds tv.Dataset) [][]string {
	var rows [][]string
	switch ds.Kind {
	case tv.KindBrands:
		for _, e := range ds.Brands {
			rows = append(rows, []string{
				ds.Kind, e.Brand, e.ModelNumber,
				formatFloat(e.ScreenSize), formatNumber(e.EnergyConsumption), "", "",
			})
		}
	case tv.KindSizes:
		for _, e := range ds.Sizes {
			size := strconv.Itoa(e.BucketSize)
			rows = append(rows, []string{
				ds.Kind, size, "",
				size, formatFloat(e.AverageEnergy), strconv.Itoa(e.Count), "",
			})
		}
	case tv.KindRanges:
		for _, e := range ds.Ranges {
			rows = append(rows, []string{
				ds.Kind, e.Label, "",
				"", "", strconv.Itoa(e.Count), formatFloat(e.Share),
			})
		}
	}
	return rows
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package tv defines the core domain types for tvcharts: parsed television
// records, the per-chart dataset entries, and the build configuration and
// result shared by the pipeline and its consumers.
package tv

import (
	"encoding/json"
	"time"
)

// Number is an optional numeric field. An absent value is distinct from zero:
// a labelled consumption of 0 kWh/year is data, an unparseable cell is not.
type Number struct {
	Value float64
	Valid bool
}

// Some returns a valid Number holding v.
func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// MarshalJSON encodes an absent Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as an absent Number.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Record is one parsed row of the television dataset.
type Record struct {
	SubmitID          string `json:"submit_id"`
	Brand             string `json:"brand"` // Never empty in a parsed record.
	ModelNumber       string `json:"model_number"`
	FamilyName        string `json:"family_name"`
	ScreenSize        Number `json:"screen_size"`        // Inches.
	EnergyConsumption Number `json:"energy_consumption"` // kWh/year.
}

// BrandSelectionEntry is the largest-screen record of a single brand.
type BrandSelectionEntry struct {
	Brand             string  `json:"brand"`
	ModelNumber       string  `json:"model_number"`
	ScreenSize        float64 `json:"screen_size"`
	EnergyConsumption Number  `json:"energy_consumption"`
}

// SizeBucketEntry is the mean energy consumption of all records whose screen
// size floors to BucketSize.
type SizeBucketEntry struct {
	BucketSize    int     `json:"bucket_size"`
	AverageEnergy float64 `json:"average_energy"`

	// Count is the number of records in the bucket with a valid screen size,
	// including records that had no energy value and so did not contribute
	// to AverageEnergy.
	Count int `json:"count"`
}

// RangeBucketEntry is the number of records whose screen size falls in
// (MinExclusive, MaxInclusive].
type RangeBucketEntry struct {
	Label        string  `json:"label"`
	MinExclusive float64 `json:"min_exclusive"`
	MaxInclusive float64 `json:"max_inclusive"`
	Count        int     `json:"count"`
	Share        float64 `json:"share"` // Percentage of all classified records.
}

// Order selects how the brand selection is ranked before truncation.
type Order string

const (
	// OrderBySize ranks brands by their largest screen, descending.
	OrderBySize Order = "size"
	// OrderByEnergy ranks the same representatives by energy, descending.
	OrderByEnergy Order = "energy"
)

// Dataset kinds, one per chart.
const (
	KindBrands = "brands"
	KindSizes  = "sizes"
	KindRanges = "ranges"
)

// DatasetStats explains how many records an aggregator used and why the rest
// were left out.
type DatasetStats struct {
	Input      int `json:"input"`
	Considered int `json:"considered"`
	Excluded   int `json:"excluded"`

	// Classified and Unclassified are only set by the range bucketer. They
	// are always encoded for the ranges kind, even when zero.
	Classified   int `json:"classified,omitempty"`
	Unclassified int `json:"unclassified,omitempty"`
}

// Dataset is the chart-ready output of one aggregator. Only the slice that
// matches Kind is populated, and it encodes as [] rather than being left out
// when empty.
type Dataset struct {
	Kind   string                `json:"kind"`
	Brands []BrandSelectionEntry `json:"brands,omitempty"`
	Sizes  []SizeBucketEntry     `json:"sizes,omitempty"`
	Ranges []RangeBucketEntry    `json:"ranges,omitempty"`
	Stats  DatasetStats          `json:"stats"`
}

// MarshalJSON encodes only the slice that matches Kind. A dataset of an
// unknown kind keeps whichever slices are non-empty.
func (d Dataset) MarshalJSON() ([]byte, error) {
	type stats struct {
		Input        int  `json:"input"`
		Considered   int  `json:"considered"`
		Excluded     int  `json:"excluded"`
		Classified   *int `json:"classified,omitempty"`
		Unclassified *int `json:"unclassified,omitempty"`
	}
	out := struct {
		Kind   string                 `json:"kind"`
		Brands *[]BrandSelectionEntry `json:"brands,omitempty"`
		Sizes  *[]SizeBucketEntry     `json:"sizes,omitempty"`
		Ranges *[]RangeBucketEntry    `json:"ranges,omitempty"`
		Stats  stats                  `json:"stats"`
	}{
		Kind: d.Kind,
		Stats: stats{
			Input:      d.Stats.Input,
			Considered: d.Stats.Considered,
			Excluded:   d.Stats.Excluded,
		},
	}
	if d.Stats.Classified != 0 || d.Stats.Unclassified != 0 || d.Kind == KindRanges {
		out.Stats.Classified = &d.Stats.Classified
		out.Stats.Unclassified = &d.Stats.Unclassified
	}

	switch d.Kind {
	case KindBrands:
		out.Brands = nonNil(d.Brands)
	case KindSizes:
		out.Sizes = nonNil(d.Sizes)
	case KindRanges:
		out.Ranges = nonNil(d.Ranges)
	default:
		if len(d.Brands) > 0 {
			out.Brands = &d.Brands
		}
		if len(d.Sizes) > 0 {
			out.Sizes = &d.Sizes
		}
		if len(d.Ranges) > 0 {
			out.Ranges = &d.Ranges
		}
	}
	return json.Marshal(out)
}

func nonNil[T any](s []T) *[]T {
	if s == nil {
		s = []T{}
	}
	return &s
}

// Len returns the number of entries in the populated slice.
func (d Dataset) Len() int {
	switch d.Kind {
	case KindBrands:
		return len(d.Brands)
	case KindSizes:
		return len(d.Sizes)
	case KindRanges:
		return len(d.Ranges)
	default:
		return 0
	}
}

// Criteria selects which records take part in aggregation. Zero values mean
// "no constraint".
type Criteria struct {
	Brands    []string `json:"brands,omitempty"`
	MinScreen float64  `json:"min_screen,omitempty"`
	MaxScreen float64  `json:"max_screen,omitempty"`
	MaxEnergy float64  `json:"max_energy,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return len(c.Brands) == 0 && c.MinScreen == 0 && c.MaxScreen == 0 && c.MaxEnergy == 0
}

// DefaultTopN is the number of brands kept by the brand selector.
const DefaultTopN = 20

// BuildConfig holds the resolved configuration for one build.
type BuildConfig struct {
	// Source is the dataset path, used for reporting only.
	Source string

	// Aggregators lists the aggregator names to run. Empty means all registered.
	Aggregators []string

	// OutputFormat specifies the output format (e.g., "json", "markdown").
	OutputFormat string

	// TopN caps the brand selection. Must be non-negative.
	TopN int

	// Order ranks the brand selection. Empty means OrderBySize.
	Order Order

	// Ranges is the range table for the range bucketer. The zero value
	// means DefaultRanges.
	Ranges RangeTable

	// Filter restricts the records handed to every aggregator.
	Filter Criteria

	// Columns overrides dataset header names keyed by field
	// ("brand", "screen_size", ...).
	Columns map[string]string
}

// DefaultBuildConfig returns the configuration used when nothing is set.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		OutputFormat: "json",
		TopN:         DefaultTopN,
		Order:        OrderBySize,
		Ranges:       DefaultRanges(),
	}
}

// RowIssue describes a problem found while parsing one input row.
type RowIssue struct {
	Row     int    `json:"row"` // 1-based data row, header excluded.
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Dropped bool   `json:"dropped"`
}

// ParseSummary reports what the record parser did with the input rows.
type ParseSummary struct {
	Total   int        `json:"total"`
	Parsed  int        `json:"parsed"`
	Dropped int        `json:"dropped"`
	Issues  []RowIssue `json:"issues,omitempty"`
}

// AggregatorResult holds the output from a single aggregator run.
type AggregatorResult struct {
	// Aggregator is the name of the aggregator that produced the dataset.
	Aggregator string

	// Dataset is the chart data. Empty when Err is set.
	Dataset Dataset

	// Duration is how long the aggregator took.
	Duration time.Duration

	// Err is any error encountered during aggregation.
	Err error
}

// BuildResult holds the outcome of one pipeline run.
type BuildResult struct {
	// Source is the dataset the records came from.
	Source string

	// Parse summarizes record parsing.
	Parse ParseSummary

	// Filtered is the number of parsed records removed by the filter.
	Filtered int

	// Results is the per-aggregator breakdown, in resolved order.
	Results []AggregatorResult

	// Duration is the total run duration.
	Duration time.Duration
}

// Dataset returns the dataset produced by the named aggregator.
func (r *BuildResult) Dataset(kind string) (Dataset, bool) {
	for _, ar := range r.Results {
		if ar.Aggregator == kind && ar.Err == nil {
			return ar.Dataset, true
		}
	}
	return Dataset{}, false
}

// Failed returns the number of aggregators that returned an error.
func (r *BuildResult) Failed() int {
	n := 0
	for _, ar := range r.Results {
		if ar.Err != nil {
			n++
		}
	}
	return n
}

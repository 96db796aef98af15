// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package tv

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRanges indicates a range table that would misclassify records.
var ErrInvalidRanges = errors.New("invalid range table")

// Range is a half-open screen-size interval (Min, Max].
type Range struct {
	Label string  `json:"label" yaml:"label" toml:"label"`
	Min   float64 `json:"min" yaml:"min" toml:"min"`
	Max   float64 `json:"max" yaml:"max" toml:"max"`
}

// Contains reports whether size lies in (Min, Max].
func (r Range) Contains(size float64) bool {
	return size > r.Min && size <= r.Max
}

// RangeTable is an ordered list of contiguous, non-overlapping ranges.
// Build one with NewRangeTable; the zero value is treated as DefaultRanges
// by the range bucketer.
type RangeTable struct {
	ranges []Range
}

// NewRangeTable validates ranges and returns a table preserving their order.
// Every range needs a unique, non-empty label and Min < Max; ranges must be
// ascending with each Min equal to the previous Max, so that no size is
// counted twice or falls between two ranges.
func NewRangeTable(ranges []Range) (RangeTable, error) {
	if len(ranges) == 0 {
		return RangeTable{}, fmt.Errorf("%w: no ranges", ErrInvalidRanges)
	}

	var errs []string
	seen := make(map[string]bool, len(ranges))
	for i, r := range ranges {
		label := strings.TrimSpace(r.Label)
		switch {
		case label == "":
			errs = append(errs, fmt.Sprintf("range %d: empty label", i))
		case seen[label]:
			errs = append(errs, fmt.Sprintf("range %d: duplicate label %q", i, label))
		}
		seen[label] = true

		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
			errs = append(errs, fmt.Sprintf("range %d (%s): bounds must be finite", i, label))
			continue
		}
		if r.Min >= r.Max {
			errs = append(errs, fmt.Sprintf("range %d (%s): min %g must be below max %g", i, label, r.Min, r.Max))
		}
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		switch {
		case r.Min < prev.Max:
			errs = append(errs, fmt.Sprintf("range %d (%s): overlaps previous range ending at %g", i, label, prev.Max))
		case r.Min > prev.Max:
			errs = append(errs, fmt.Sprintf("range %d (%s): gap after previous range ending at %g", i, label, prev.Max))
		}
	}
	if len(errs) > 0 {
		return RangeTable{}, fmt.Errorf("%w: %s", ErrInvalidRanges, strings.Join(errs, "; "))
	}

	out := make([]Range, len(ranges))
	copy(out, ranges)
	for i := range out {
		out[i].Label = strings.TrimSpace(out[i].Label)
	}
	return RangeTable{ranges: out}, nil
}

// MustRangeTable is like NewRangeTable but panics on an invalid table.
// It is intended for package-level tables known to be valid.
func MustRangeTable(ranges []Range) RangeTable {
	t, err := NewRangeTable(ranges)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultRanges = []Range{
	{Label: `Small (≤ 32")`, Min: 0, Max: 32},
	{Label: `Medium (33-43")`, Min: 32, Max: 43},
	{Label: `Large (44-55")`, Min: 43, Max: 55},
	{Label: `Extra Large (56-65")`, Min: 55, Max: 65},
	{Label: `Super Size (> 65")`, Min: 65, Max: 1000},
}

// DefaultRanges returns the five screen-size ranges used by the pie chart.
func DefaultRanges() RangeTable {
	return MustRangeTable(defaultRanges)
}

// IsZero reports whether the table was never built.
func (t RangeTable) IsZero() bool {
	return len(t.ranges) == 0
}

// Ranges returns a copy of the ranges in table order.
func (t RangeTable) Ranges() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// Len returns the number of ranges.
func (t RangeTable) Len() int {
	return len(t.ranges)
}

// Classify returns the index of the range containing size, or -1.
func (t RangeTable) Classify(size float64) int {
	for i, r := range t.ranges {
		if r.Contains(size) {
			return i
		}
	}
	return -1
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"context"

	"github.com/davetashner/tvcharts/internal/tv"
)

// RangeResult is the outcome of range bucketing.
type RangeResult struct {
	// Entries holds one entry per range with at least one record, in table
	// order.
	Entries []tv.RangeBucketEntry

	// TotalClassified is the sum of all entry counts.
	TotalClassified int

	// Unclassified counts records with a valid screen size outside every
	// range.
	Unclassified int

	// Invalid counts records without a valid screen size.
	Invalid int
}

// RangeBuckets counts records per screen-size range. A zero table means
// tv.DefaultRanges. Ranges without records are omitted.
func RangeBuckets(records []tv.Record, table tv.RangeTable) RangeResult {
	if table.IsZero() {
		table = tv.DefaultRanges()
	}
	ranges := table.Ranges()
	counts := make([]int, len(ranges))

	var res RangeResult
	for _, r := range records {
		if !r.ScreenSize.Valid {
			res.Invalid++
			continue
		}
		i := table.Classify(r.ScreenSize.Value)
		if i < 0 {
			res.Unclassified++
			continue
		}
		counts[i]++
		res.TotalClassified++
	}

	res.Entries = make([]tv.RangeBucketEntry, 0, len(ranges))
	for i, rg := range ranges {
		if counts[i] == 0 {
			continue
		}
		res.Entries = append(res.Entries, tv.RangeBucketEntry{
			Label:        rg.Label,
			MinExclusive: rg.Min,
			MaxInclusive: rg.Max,
			Count:        counts[i],
			Share:        float64(counts[i]) / float64(res.TotalClassified) * 100,
		})
	}
	return res
}

type rangesAggregator struct{}

func (rangesAggregator) Name() string { return tv.KindRanges }

func (rangesAggregator) Description() string {
	return "record count per screen-size range (pie chart)"
}

func (rangesAggregator) Aggregate(ctx context.Context, records []tv.Record, cfg tv.BuildConfig) (tv.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return tv.Dataset{}, err
	}
	res := RangeBuckets(records, cfg.Ranges)
	return tv.Dataset{
		Kind:   tv.KindRanges,
		Ranges: res.Entries,
		Stats: tv.DatasetStats{
			Input:        len(records),
			Considered:   len(records) - res.Invalid,
			Excluded:     res.Invalid,
			Classified:   res.TotalClassified,
			Unclassified: res.Unclassified,
		},
	}, nil
}

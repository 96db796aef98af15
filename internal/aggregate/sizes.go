// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"context"
	"math"
	"slices"

	"github.com/davetashner/tvcharts/internal/tv"
)

// maxBucket bounds the screen sizes that can be floored into an int bucket.
const maxBucket = math.MaxInt32

type sizeAcc struct {
	sum    float64
	valued int // records that contributed an energy value
	count  int // records with a valid screen size
}

// SizeBuckets groups records by floor(screen size) and averages their energy
// consumption, smallest bucket first.
//
// Count includes records without an energy value; only records with one
// contribute to the average. A bucket where no record has an energy value is
// not emitted.
func SizeBuckets(records []tv.Record) []tv.SizeBucketEntry {
	entries, _ := sizeBuckets(records)
	return entries
}

func sizeBuckets(records []tv.Record) ([]tv.SizeBucketEntry, int) {
	buckets := make(map[int]*sizeAcc)
	considered := 0

	for _, r := range records {
		if !r.ScreenSize.Valid || r.ScreenSize.Value >= maxBucket {
			continue
		}
		considered++
		key := int(math.Floor(r.ScreenSize.Value))
		acc, ok := buckets[key]
		if !ok {
			acc = &sizeAcc{}
			buckets[key] = acc
		}
		acc.count++
		if r.EnergyConsumption.Valid {
			acc.sum += r.EnergyConsumption.Value
			acc.valued++
		}
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]tv.SizeBucketEntry, 0, len(keys))
	for _, k := range keys {
		acc := buckets[k]
		if acc.valued == 0 {
			continue
		}
		entries = append(entries, tv.SizeBucketEntry{
			BucketSize:    k,
			AverageEnergy: acc.sum / float64(acc.valued),
			Count:         acc.count,
		})
	}
	return entries, considered
}

type sizesAggregator struct{}

func (sizesAggregator) Name() string { return tv.KindSizes }

func (sizesAggregator) Description() string {
	return "mean energy consumption per whole-inch screen size (line chart)"
}

func (sizesAggregator) Aggregate(ctx context.Context, records []tv.Record, _ tv.BuildConfig) (tv.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return tv.Dataset{}, err
	}
	entries, considered := sizeBuckets(records)
	return tv.Dataset{
		Kind:  tv.KindSizes,
		Sizes: entries,
		Stats: tv.DatasetStats{
			Input:      len(records),
			Considered: considered,
			Excluded:   len(records) - considered,
		},
	}, nil
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"context"
	"fmt"
	"slices"

	"github.com/davetashner/tvcharts/internal/tv"
)

// TopBrands selects the largest-screen record of every brand and returns the
// topN brands by screen size, largest first.
//
// Records without a valid screen size are ignored, so a brand with none
// disappears. Within a brand the first record with the maximum size wins.
// Brands of equal size keep the order in which they first appeared.
func TopBrands(records []tv.Record, topN int) ([]tv.BrandSelectionEntry, error) {
	return TopBrandsOrdered(records, topN, tv.OrderBySize)
}

// TopBrandsOrdered is TopBrands with a choice of ranking. OrderByEnergy keeps
// the same per-brand representatives but ranks them by energy consumption,
// highest first, with unknown consumption last.
func TopBrandsOrdered(records []tv.Record, topN int, order tv.Order) ([]tv.BrandSelectionEntry, error) {
	if topN < 0 {
		return nil, fmt.Errorf("%w: top_n must be non-negative, got %d", ErrInvalidConfig, topN)
	}

	var cmp func(a, b tv.BrandSelectionEntry) int
	switch order {
	case "", tv.OrderBySize:
		cmp = bySizeDesc
	case tv.OrderByEnergy:
		cmp = byEnergyDesc
	default:
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidConfig, order)
	}

	picks := pickLargestPerBrand(records)
	slices.SortStableFunc(picks, cmp)

	if len(picks) > topN {
		picks = picks[:topN]
	}
	return picks, nil
}

// pickLargestPerBrand returns one entry per brand in order of first valid
// appearance.
func pickLargestPerBrand(records []tv.Record) []tv.BrandSelectionEntry {
	index := make(map[string]int)
	var picks []tv.BrandSelectionEntry

	for _, r := range records {
		if !r.ScreenSize.Valid {
			continue
		}
		i, seen := index[r.Brand]
		if !seen {
			index[r.Brand] = len(picks)
			picks = append(picks, entryFor(r))
			continue
		}
		if r.ScreenSize.Value > picks[i].ScreenSize {
			picks[i] = entryFor(r)
		}
	}
	return picks
}

func entryFor(r tv.Record) tv.BrandSelectionEntry {
	return tv.BrandSelectionEntry{
		Brand:             r.Brand,
		ModelNumber:       r.ModelNumber,
		ScreenSize:        r.ScreenSize.Value,
		EnergyConsumption: r.EnergyConsumption,
	}
}

func bySizeDesc(a, b tv.BrandSelectionEntry) int {
	switch {
	case a.ScreenSize > b.ScreenSize:
		return -1
	case a.ScreenSize < b.ScreenSize:
		return 1
	default:
		return 0
	}
}

func byEnergyDesc(a, b tv.BrandSelectionEntry) int {
	ea, eb := a.EnergyConsumption, b.EnergyConsumption
	switch {
	case ea.Valid && !eb.Valid:
		return -1
	case !ea.Valid && eb.Valid:
		return 1
	case !ea.Valid && !eb.Valid:
		return 0
	case ea.Value > eb.Value:
		return -1
	case ea.Value < eb.Value:
		return 1
	default:
		return 0
	}
}

type brandsAggregator struct{}

func (brandsAggregator) Name() string { return tv.KindBrands }

func (brandsAggregator) Description() string {
	return "largest-screen model per brand, top N by screen size (bar chart)"
}

func (brandsAggregator) Aggregate(ctx context.Context, records []tv.Record, cfg tv.BuildConfig) (tv.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return tv.Dataset{}, err
	}
	entries, err := TopBrandsOrdered(records, cfg.TopN, cfg.Order)
	if err != nil {
		return tv.Dataset{}, err
	}

	considered := 0
	for _, r := range records {
		if r.ScreenSize.Valid {
			considered++
		}
	}
	if entries == nil {
		entries = []tv.BrandSelectionEntry{}
	}
	return tv.Dataset{
		Kind:   tv.KindBrands,
		Brands: entries,
		Stats: tv.DatasetStats{
			Input:      len(records),
			Considered: considered,
			Excluded:   len(records) - considered,
		},
	}, nil
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package filter narrows a record set before aggregation.
package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/davetashner/tvcharts/internal/tv"
)

// ErrInvalidCriteria indicates criteria that can never match consistently.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Validate checks that all bounds are finite and non-negative and that the
// screen bounds are ordered.
func Validate(c tv.Criteria) error {
	var errs []string
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Sprintf("%s must be finite", name))
		} else if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be non-negative, got %g", name, v))
		}
	}
	check("min_screen", c.MinScreen)
	check("max_screen", c.MaxScreen)
	check("max_energy", c.MaxEnergy)

	if c.MinScreen > 0 && c.MaxScreen > 0 && c.MinScreen > c.MaxScreen {
		errs = append(errs, fmt.Sprintf("min_screen %g exceeds max_screen %g", c.MinScreen, c.MaxScreen))
	}
	for i, b := range c.Brands {
		if strings.TrimSpace(b) == "" {
			errs = append(errs, fmt.Sprintf("brands[%d] is empty", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCriteria, strings.Join(errs, "; "))
	}
	return nil
}

// Apply returns the records that satisfy c, preserving order. Brand matching
// is case-insensitive. A screen bound excludes records without a screen size;
// an energy bound excludes records without an energy value. Empty criteria
// return records unchanged.
func Apply(records []tv.Record, c tv.Criteria) []tv.Record {
	if c.IsEmpty() {
		return records
	}

	var brands map[string]bool
	if len(c.Brands) > 0 {
		brands = make(map[string]bool, len(c.Brands))
		for _, b := range c.Brands {
			brands[strings.ToLower(strings.TrimSpace(b))] = true
		}
	}

	out := make([]tv.Record, 0, len(records))
	for _, r := range records {
		if matches(r, c, brands) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r tv.Record, c tv.Criteria, brands map[string]bool) bool {
	if brands != nil && !brands[strings.ToLower(r.Brand)] {
		return false
	}
	if c.MinScreen > 0 || c.MaxScreen > 0 {
		if !r.ScreenSize.Valid {
			return false
		}
		if c.MinScreen > 0 && r.ScreenSize.Value < c.MinScreen {
			return false
		}
		if c.MaxScreen > 0 && r.ScreenSize.Value > c.MaxScreen {
			return false
		}
	}
	if c.MaxEnergy > 0 {
		if !r.EnergyConsumption.Valid || r.EnergyConsumption.Value > c.MaxEnergy {
			return false
		}
	}
	return true
}

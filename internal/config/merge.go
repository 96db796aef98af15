// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package config

import (
	"maps"

	"github.com/davetashner/tvcharts/internal/tv"
)

// Merge overlays config layers in order of increasing precedence: every
// field set in a later layer replaces the value from earlier layers. Nil
// layers are skipped. Columns merge per key.
//
// The usual call is Merge(global, file, env, cli).
func Merge(layers ...*Config) *Config {
	merged := &Config{}
	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.OutputFormat != "" {
			merged.OutputFormat = l.OutputFormat
		}
		if l.TopN != nil {
			n := *l.TopN
			merged.TopN = &n
		}
		if l.Order != "" {
			merged.Order = l.Order
		}
		if len(l.Aggregators) > 0 {
			merged.Aggregators = l.Aggregators
		}
		if len(l.Ranges) > 0 {
			merged.Ranges = l.Ranges
		}
		if len(l.Filter.Brands) > 0 {
			merged.Filter.Brands = l.Filter.Brands
		}
		if l.Filter.MinScreen != nil {
			v := *l.Filter.MinScreen
			merged.Filter.MinScreen = &v
		}
		if l.Filter.MaxScreen != nil {
			v := *l.Filter.MaxScreen
			merged.Filter.MaxScreen = &v
		}
		if l.Filter.MaxEnergy != nil {
			v := *l.Filter.MaxEnergy
			merged.Filter.MaxEnergy = &v
		}
		if len(l.Columns) > 0 {
			if merged.Columns == nil {
				merged.Columns = make(map[string]string, len(l.Columns))
			}
			maps.Copy(merged.Columns, l.Columns)
		}
	}
	return merged
}

// Resolve validates cfg and turns it into a BuildConfig, filling unset
// fields from tv.DefaultBuildConfig.
func Resolve(cfg *Config) (tv.BuildConfig, error) {
	if err := Validate(cfg); err != nil {
		return tv.BuildConfig{}, err
	}

	out := tv.DefaultBuildConfig()
	if cfg.OutputFormat != "" {
		out.OutputFormat = cfg.OutputFormat
	}
	if cfg.TopN != nil {
		out.TopN = *cfg.TopN
	}
	if cfg.Order != "" {
		out.Order = tv.Order(cfg.Order)
	}
	out.Aggregators = cfg.Aggregators
	if len(cfg.Ranges) > 0 {
		// Validate already built this table once.
		out.Ranges = tv.MustRangeTable(cfg.Ranges)
	}
	out.Filter = cfg.Filter.Criteria()
	out.Columns = cfg.Columns
	return out, nil
}

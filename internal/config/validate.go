// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davetashner/tvcharts/internal/aggregate"
	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/filter"
	"github.com/davetashner/tvcharts/internal/output"
	"github.com/davetashner/tvcharts/internal/tv"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	if cfg.TopN != nil && *cfg.TopN < 0 {
		errs = append(errs, fmt.Sprintf("top_n: must be non-negative, got %d", *cfg.TopN))
	}

	switch tv.Order(cfg.Order) {
	case "", tv.OrderBySize, tv.OrderByEnergy:
		// valid
	default:
		errs = append(errs, fmt.Sprintf("order: invalid value %q (must be size or energy)", cfg.Order))
	}

	for _, name := range cfg.Aggregators {
		if aggregate.Get(name) == nil {
			errs = append(errs, fmt.Sprintf("aggregators: unknown aggregator %q (available: %s)",
				name, strings.Join(aggregate.List(), ", ")))
		}
	}

	if len(cfg.Ranges) > 0 {
		if _, err := tv.NewRangeTable(cfg.Ranges); err != nil {
			errs = append(errs, fmt.Sprintf("ranges: %v", err))
		}
	}

	if err := filter.Validate(cfg.Filter.Criteria()); err != nil {
		errs = append(errs, fmt.Sprintf("filter: %v", err))
	}

	for _, field := range sortedMapKeys(cfg.Columns) {
		if !slices.Contains(dataset.Fields, field) {
			errs = append(errs, fmt.Sprintf("columns.%s: unknown field (valid fields: %s)",
				field, strings.Join(dataset.Fields, ", ")))
		} else if strings.TrimSpace(cfg.Columns[field]) == "" {
			errs = append(errs, fmt.Sprintf("columns.%s: header must not be empty", field))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

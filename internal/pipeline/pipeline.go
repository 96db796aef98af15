// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package pipeline parses dataset rows, applies the record filter and runs
// the configured aggregators over the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/tvcharts/internal/aggregate"
	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/filter"
	"github.com/davetashner/tvcharts/internal/tv"
)

// Pipeline orchestrates the execution of aggregators over one record set.
type Pipeline struct {
	config      tv.BuildConfig
	aggregators []aggregate.Aggregator
}

// New creates a Pipeline from the given BuildConfig. It resolves aggregators
// from the global registry. If config.Aggregators is empty, all registered
// aggregators are used, sorted by name. Returns an error if a requested
// aggregator is not registered or the filter criteria are invalid.
func New(config tv.BuildConfig) (*Pipeline, error) {
	aggregators, err := resolveAggregators(config.Aggregators)
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(config.Filter); err != nil {
		return nil, err
	}
	return &Pipeline{
		config:      config,
		aggregators: aggregators,
	}, nil
}

// NewWithAggregators creates a Pipeline with explicitly provided aggregators,
// bypassing the global registry. This is primarily useful for testing.
func NewWithAggregators(config tv.BuildConfig, aggregators []aggregate.Aggregator) *Pipeline {
	return &Pipeline{
		config:      config,
		aggregators: aggregators,
	}
}

// Aggregators returns the resolved aggregator names in run order.
func (p *Pipeline) Aggregators() []string {
	names := make([]string, len(p.aggregators))
	for i, a := range p.aggregators {
		names[i] = a.Name()
	}
	return names
}

// Run parses rows into records and aggregates them. See RunRecords.
func (p *Pipeline) Run(ctx context.Context, rows []dataset.Row) (*tv.BuildResult, error) {
	start := time.Now()

	parsed := dataset.Parse(rows, dataset.DefaultColumns().Override(p.config.Columns))
	if parsed.Summary.Dropped > 0 {
		slog.Info("dropped rows without a brand", "dropped", parsed.Summary.Dropped, "total", parsed.Summary.Total)
	}

	result, err := p.RunRecords(ctx, parsed.Records)
	if err != nil {
		return nil, err
	}
	result.Parse = parsed.Summary
	result.Duration = time.Since(start)
	return result, nil
}

// RunFile loads the dataset at path and runs it. The result's Source is
// config.Source when set, path otherwise.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*tv.BuildResult, error) {
	rows, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	result, err := p.Run(ctx, rows)
	if err != nil {
		return nil, err
	}
	if result.Source == "" {
		result.Source = path
	}
	return result, nil
}

// RunRecords filters records and runs every aggregator concurrently over the
// shared, read-only result. Aggregators that return errors are recorded in
// their AggregatorResult but do not abort the others. Results follow the
// resolved aggregator order. A canceled context returns ctx.Err().
func (p *Pipeline) RunRecords(ctx context.Context, records []tv.Record) (*tv.BuildResult, error) {
	start := time.Now()

	filtered := filter.Apply(records, p.config.Filter)
	if removed := len(records) - len(filtered); removed > 0 {
		slog.Debug("filter removed records", "removed", removed, "kept", len(filtered))
	}

	results := make([]tv.AggregatorResult, len(p.aggregators))
	var g errgroup.Group
	for i, a := range p.aggregators {
		g.Go(func() error {
			results[i] = p.runAggregator(ctx, a, filtered)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Err != nil {
			slog.Warn("aggregator returned error", "aggregator", r.Aggregator, "error", r.Err)
		}
	}

	return &tv.BuildResult{
		Source:   p.config.Source,
		Parse:    tv.ParseSummary{Total: len(records), Parsed: len(records)},
		Filtered: len(records) - len(filtered),
		Results:  results,
		Duration: time.Since(start),
	}, nil
}

// runAggregator executes a single aggregator and captures its result and timing.
func (p *Pipeline) runAggregator(ctx context.Context, a aggregate.Aggregator, records []tv.Record) tv.AggregatorResult {
	start := time.Now()

	ds, err := a.Aggregate(ctx, records, p.config)
	if err != nil {
		ds = tv.Dataset{Kind: a.Name()}
	}

	return tv.AggregatorResult{
		Aggregator: a.Name(),
		Dataset:    ds,
		Duration:   time.Since(start),
		Err:        err,
	}
}

// resolveAggregators looks up aggregators by name from the global registry.
// If names is empty, all registered aggregators are returned in sorted order.
func resolveAggregators(names []string) ([]aggregate.Aggregator, error) {
	if len(names) == 0 {
		allNames := aggregate.List()
		aggregators := make([]aggregate.Aggregator, len(allNames))
		for i, name := range allNames {
			aggregators[i] = aggregate.Get(name)
		}
		return aggregators, nil
	}

	aggregators := make([]aggregate.Aggregator, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		a := aggregate.Get(name)
		if a == nil {
			return nil, fmt.Errorf("unknown aggregator: %q", name)
		}
		aggregators = append(aggregators, a)
	}
	return aggregators, nil
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package aggregate defines the Aggregator interface, a registry of available
// aggregators, and the three built-in chart aggregations: brand selection,
// size-bucket averaging and range bucketing.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davetashner/tvcharts/internal/tv"
)

// ErrInvalidConfig indicates a structurally invalid aggregation parameter,
// such as a negative top-N.
var ErrInvalidConfig = errors.New("invalid aggregation config")

// Aggregator turns parsed records into one chart dataset. Implementations
// must be pure: the same records and config always yield the same dataset,
// and the input slice is never modified.
type Aggregator interface {
	// Name returns the unique name of this aggregator (e.g., "brands").
	Name() string

	// Description returns a one-line summary for help output.
	Description() string

	// Aggregate computes the dataset for records.
	Aggregate(ctx context.Context, records []tv.Record, cfg tv.BuildConfig) (tv.Dataset, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Aggregator)
)

// Register adds an aggregator to the global registry.
// It panics if an aggregator with the same name is already registered.
func Register(a Aggregator) {
	mu.Lock()
	defer mu.Unlock()
	name := a.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("aggregator already registered: %s", name))
	}
	registry[name] = a
}

// Get returns the aggregator with the given name, or nil if not found.
func Get(name string) Aggregator {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered aggregators in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Aggregator)
}

func init() {
	Register(brandsAggregator{})
	Register(sizesAggregator{})
	Register(rangesAggregator{})
}

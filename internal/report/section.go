// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package report provides a pluggable section registry for tvcharts report.
// Each section consumes one part of a build result and renders a focused
// terminal view of it.
package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/davetashner/tvcharts/internal/tv"
)

// ErrDatasetNotAvailable indicates a section's dataset is missing, typically
// because the corresponding aggregator was not run or failed.
var ErrDatasetNotAvailable = errors.New("dataset not available")

// Section is a pluggable report section that analyzes a build result and
// renders a focused report segment.
type Section interface {
	// Name returns the unique identifier for this section (e.g., "brands").
	Name() string

	// Description returns a human-readable description of what this section reports.
	Description() string

	// Analyze processes the build result and prepares internal state for rendering.
	// Returns ErrDatasetNotAvailable (wrapped) if the required dataset is missing.
	Analyze(result *tv.BuildResult) error

	// Render writes the section output to w.
	Render(w io.Writer) error
}

func init() {
	Register(&summarySection{})
	Register(&brandsSection{})
	Register(&sizesSection{})
	Register(&rangesSection{})
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Section)
	order    []string // insertion order for deterministic listing
)

// Register adds a section to the global registry.
// It panics if a section with the same name is already registered.
func Register(s Section) {
	mu.Lock()
	defer mu.Unlock()
	name := s.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("report section already registered: %s", name))
	}
	registry[name] = s
	order = append(order, name)
}

// Get returns the section with the given name, or nil if not found.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered sections in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Section)
	order = nil
}

// datasetFor returns the named dataset or a wrapped ErrDatasetNotAvailable.
func datasetFor(result *tv.BuildResult, kind string) (tv.Dataset, error) {
	ds, ok := result.Dataset(kind)
	if !ok {
		return tv.Dataset{}, fmt.Errorf("%s: %w", kind, ErrDatasetNotAvailable)
	}
	return ds, nil
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tvcharts/internal/tv"
)

// stubSection is a minimal Section implementation for registry tests.
type stubSection struct {
	name string
	desc string
}

func (s *stubSection) Name() string                     { return s.name }
func (s *stubSection) Description() string              { return s.desc }
func (s *stubSection) Analyze(_ *tv.BuildResult) error { return nil }
func (s *stubSection) Render(_ io.Writer) error         { return nil }

// restoreSections resets the registry and re-registers the built-in sections.
func restoreSections() {
	resetForTesting()
	Register(&summarySection{})
	Register(&brandsSection{})
	Register(&sizesSection{})
	Register(&rangesSection{})
}

func TestRegister_And_Get(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "test-section", desc: "A test section"})

	got := Get("test-section")
	require.NotNil(t, got)
	assert.Equal(t, "test-section", got.Name())
	assert.Equal(t, "A test section", got.Description())
}

func TestRegister_DuplicatePanics(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "dup"})
	assert.Panics(t, func() {
		Register(&stubSection{name: "dup"})
	})
}

func TestGet_NotFound(t *testing.T) {
	assert.Nil(t, Get("nonexistent"))
}

func TestList_RegistrationOrder(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "zeta"})
	Register(&stubSection{name: "alpha"})
	assert.Equal(t, []string{"zeta", "alpha"}, List())
}

func TestList_Builtins(t *testing.T) {
	assert.Equal(t, []string{"summary", "brands", "sizes", "ranges"}, List())
}

func TestList_ReturnsCopy(t *testing.T) {
	names := List()
	names[0] = "mutated"
	assert.Equal(t, "summary", List()[0])
}

func TestDatasetFor(t *testing.T) {
	result := &tv.BuildResult{Results: []tv.AggregatorResult{
		{Aggregator: tv.KindBrands, Dataset: tv.Dataset{Kind: tv.KindBrands}},
		{Aggregator: tv.KindSizes, Err: errors.New("boom")},
	}}

	ds, err := datasetFor(result, tv.KindBrands)
	require.NoError(t, err)
	assert.Equal(t, tv.KindBrands, ds.Kind)

	_, err = datasetFor(result, tv.KindSizes)
	assert.ErrorIs(t, err, ErrDatasetNotAvailable)

	_, err = datasetFor(result, tv.KindRanges)
	assert.ErrorIs(t, err, ErrDatasetNotAvailable)
	assert.Contains(t, err.Error(), "ranges")
}

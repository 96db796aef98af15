// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tvcharts/internal/tv"
)

var sample = []tv.Record{
	{Brand: "Samsung", ModelNumber: "s1", ScreenSize: tv.Some(55), EnergyConsumption: tv.Some(180)},
	{Brand: "LG", ModelNumber: "l1", ScreenSize: tv.Some(65), EnergyConsumption: tv.Some(250)},
	{Brand: "samsung", ModelNumber: "s2", ScreenSize: tv.Some(32)},
	{Brand: "TCL", ModelNumber: "t1", EnergyConsumption: tv.Some(90)},
}

func models(records []tv.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ModelNumber
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		c    tv.Criteria
		want []string
	}{
		{"empty criteria", tv.Criteria{}, []string{"s1", "l1", "s2", "t1"}},
		{"brand case-insensitive", tv.Criteria{Brands: []string{" SAMSUNG "}}, []string{"s1", "s2"}},
		{"multiple brands", tv.Criteria{Brands: []string{"lg", "tcl"}}, []string{"l1", "t1"}},
		{"min screen inclusive", tv.Criteria{MinScreen: 55}, []string{"s1", "l1"}},
		{"max screen inclusive", tv.Criteria{MaxScreen: 55}, []string{"s1", "s2"}},
		{"screen window", tv.Criteria{MinScreen: 40, MaxScreen: 60}, []string{"s1"}},
		{"max energy drops absent", tv.Criteria{MaxEnergy: 200}, []string{"s1", "t1"}},
		{"combined", tv.Criteria{Brands: []string{"samsung"}, MaxEnergy: 500}, []string{"s1"}},
		{"no match", tv.Criteria{Brands: []string{"Sony"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models(Apply(sample, tt.c)))
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := append([]tv.Record(nil), sample...)
	_ = Apply(in, tv.Criteria{MinScreen: 60})
	assert.Equal(t, sample, in)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(tv.Criteria{}))
	require.NoError(t, Validate(tv.Criteria{Brands: []string{"LG"}, MinScreen: 40, MaxScreen: 40, MaxEnergy: 100}))

	tests := []struct {
		name string
		c    tv.Criteria
		want string
	}{
		{"negative", tv.Criteria{MinScreen: -1}, "min_screen must be non-negative"},
		{"nan", tv.Criteria{MaxEnergy: math.NaN()}, "max_energy must be finite"},
		{"inverted", tv.Criteria{MinScreen: 60, MaxScreen: 40}, "exceeds max_screen"},
		{"blank brand", tv.Criteria{Brands: []string{"LG", " "}}, "brands[1] is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.c)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCriteria)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

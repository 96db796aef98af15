package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/tvcharts/internal/tv"
)

func TestExitError_WithMessage(t *testing.T) {
	err := exitError(ExitInvalidArgs, "tvcharts: bad %s", "thing")
	assert.Equal(t, ExitInvalidArgs, err.ExitCode())
	assert.Equal(t, "tvcharts: bad thing", err.Error())
}

func TestExitError_DefaultMessages(t *testing.T) {
	assert.Equal(t, "tvcharts: some aggregators failed", exitError(ExitPartialFailure, "").Error())
	assert.Equal(t, "tvcharts: all aggregators failed", exitError(ExitTotalFailure, "").Error())
	assert.Equal(t, "tvcharts: error", exitError(ExitInvalidArgs, "").Error())
}

func TestComputeExitCode(t *testing.T) {
	boom := errors.New("boom")
	ok := tv.AggregatorResult{Aggregator: "brands"}
	bad := tv.AggregatorResult{Aggregator: "sizes", Err: boom}

	tests := []struct {
		name    string
		results []tv.AggregatorResult
		want    int
	}{
		{"no aggregators", nil, ExitOK},
		{"all ok", []tv.AggregatorResult{ok, ok}, ExitOK},
		{"some failed", []tv.AggregatorResult{ok, bad}, ExitPartialFailure},
		{"all failed", []tv.AggregatorResult{bad, bad}, ExitTotalFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeExitCode(&tv.BuildResult{Results: tt.results}))
		})
	}
}

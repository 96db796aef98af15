// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tvcharts/internal/tv"
)

func sampleResult() *tv.BuildResult {
	return &tv.BuildResult{
		Source:   "tv.csv",
		Parse:    tv.ParseSummary{Total: 5, Parsed: 4, Dropped: 1, Issues: []tv.RowIssue{{Row: 3, Field: "brand", Reason: "missing value", Dropped: true}}},
		Filtered: 0,
		Results: []tv.AggregatorResult{
			{
				Aggregator: tv.KindBrands,
				Dataset: tv.Dataset{
					Kind: tv.KindBrands,
					Brands: []tv.BrandSelectionEntry{
						{Brand: "Sony", ModelNumber: "KD|85", ScreenSize: 85, EnergyConsumption: tv.Some(400)},
						{Brand: "LG", ModelNumber: "OLED55", ScreenSize: 54.6},
					},
					Stats: tv.DatasetStats{Input: 4, Considered: 4},
				},
			},
			{
				Aggregator: tv.KindRanges,
				Dataset: tv.Dataset{
					Kind: tv.KindRanges,
					Ranges: []tv.RangeBucketEntry{
						{Label: `Large (44-55")`, MinExclusive: 43, MaxInclusive: 55, Count: 1, Share: 50},
						{Label: `Super Size (> 65")`, MinExclusive: 65, MaxInclusive: 1000, Count: 1, Share: 50},
					},
				},
			},
			{
				Aggregator: tv.KindSizes,
				Dataset: tv.Dataset{
					Kind:  tv.KindSizes,
					Sizes: []tv.SizeBucketEntry{{BucketSize: 54, AverageEnergy: 180.26, Count: 2}},
				},
			},
		},
	}
}

func TestGetFormatter(t *testing.T) {
	for _, name := range []string{"json", "markdown", "csv"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}
	assert.Equal(t, []string{"csv", "json", "markdown"}, FormatNames())

	_, err := GetFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format: "xml"`)
	assert.Contains(t, err.Error(), "csv, json, markdown")
}

func TestRegistryReset(t *testing.T) {
	resetFmtForTesting()
	t.Cleanup(func() {
		resetFmtForTesting()
		RegisterFormatter(NewJSONFormatter())
		RegisterFormatter(NewMarkdownFormatter())
		RegisterFormatter(NewCSVFormatter())
	})

	_, err := GetFormatter("json")
	assert.Error(t, err)
	assert.Empty(t, FormatNames())
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{
		nowFunc: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		idFunc:  func() string { return "run-1" },
	}

	var buf bytes.Buffer
	require.NoError(t, f.Format(sampleResult(), &buf))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "\n  \"datasets\"", "non-file writers are pretty-printed")

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "run-1", env.Metadata.RunID)
	assert.Equal(t, "2026-03-01T12:00:00Z", env.Metadata.GeneratedAt)
	assert.Equal(t, "tv.csv", env.Metadata.Source)
	assert.Equal(t, []string{"brands", "ranges", "sizes"}, env.Metadata.Aggregators)
	assert.Equal(t, 5, env.Metadata.TotalRows)
	assert.Equal(t, 1, env.Metadata.DroppedRows)
	assert.Equal(t, 1, env.Metadata.RowIssues)
	require.Len(t, env.Datasets, 3)
	assert.Equal(t, tv.Some(400), env.Datasets[0].Brands[0].EnergyConsumption)
	assert.False(t, env.Datasets[0].Brands[1].EnergyConsumption.Valid)
	assert.Empty(t, env.Errors)
}

func TestJSONFormatter_AbsentEnergyIsNull(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{Compact: true}
	require.NoError(t, f.Format(sampleResult(), &buf))
	assert.Contains(t, buf.String(), `"model_number":"OLED55","screen_size":54.6,"energy_consumption":null`)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output is one line")
}

func TestJSONFormatter_RunIDIsUUID(t *testing.T) {
	env := NewJSONFormatter().Envelope(&tv.BuildResult{})
	assert.Len(t, env.Metadata.RunID, 36)
	assert.NotNil(t, env.Datasets)
	assert.NotNil(t, env.Metadata.Aggregators)
}

func TestJSONFormatter_Errors(t *testing.T) {
	res := &tv.BuildResult{Results: []tv.AggregatorResult{
		{Aggregator: "brands", Err: errors.New("invalid aggregation config: top_n must be non-negative, got -1")},
	}}

	env := NewJSONFormatter().Envelope(res)
	assert.Empty(t, env.Datasets)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "brands", env.Errors[0].Aggregator)
	assert.Contains(t, env.Errors[0].Error, "top_n")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(sampleResult(), &buf))
	out := buf.String()

	assert.Contains(t, out, "# TV Chart Datasets")
	assert.Contains(t, out, "Source: `tv.csv`")
	assert.Contains(t, out, "**5** rows read, **4** records parsed, **1** dropped")
	assert.Contains(t, out, `| 1 | Sony | KD\|85 | 85 | 400 |`)
	assert.Contains(t, out, "| 2 | LG | OLED55 | 54.6 | - |")
	assert.Contains(t, out, "| 54 | 180.3 | 2 |")
	assert.Contains(t, out, `| Large (44-55") | 1 | 50.0% |`)
	assert.NotContains(t, out, "## Errors")

	// Sections follow result order.
	assert.Less(t, strings.Index(out, "per brand"), strings.Index(out, "screen-size range"))
	assert.Less(t, strings.Index(out, "screen-size range"), strings.Index(out, "by screen size"))
}

func TestMarkdownFormatter_EmptyAndFailed(t *testing.T) {
	res := &tv.BuildResult{Results: []tv.AggregatorResult{
		{Aggregator: "brands", Dataset: tv.Dataset{Kind: tv.KindBrands}},
		{Aggregator: "sizes", Err: errors.New("boom")},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(res, &buf))
	assert.Contains(t, buf.String(), "_No records with a screen size._")
	assert.Contains(t, buf.String(), "## Errors")
	assert.Contains(t, buf.String(), "- **sizes**: boom")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(sampleResult(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"brands", "Sony", "KD|85", "85", "400", "", ""}, records[1])
	assert.Equal(t, []string{"brands", "LG", "OLED55", "54.6", "", "", ""}, records[2])
	assert.Equal(t, []string{"ranges", `Large (44-55")`, "", "", "", "1", "50"}, records[3])
	assert.Equal(t, []string{"sizes", "54", "", "54", "180.26", "2", ""}, records[5])
}

func TestCSVFormatter_SkipsFailed(t *testing.T) {
	res := &tv.BuildResult{Results: []tv.AggregatorResult{{Aggregator: "brands", Err: errors.New("boom")}}}

	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(res, &buf))
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", buf.String())
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davetashner/tvcharts/internal/aggregate"
	"github.com/davetashner/tvcharts/internal/dataset"
	"github.com/davetashner/tvcharts/internal/tv"
)

// stubAggregator implements aggregate.Aggregator for testing.
type stubAggregator struct {
	name  string
	err   error
	delay time.Duration
	seen  atomic.Int64
}

func (s *stubAggregator) Name() string        { return s.name }
func (s *stubAggregator) Description() string { return "stub" }

func (s *stubAggregator) Aggregate(_ context.Context, records []tv.Record, _ tv.BuildConfig) (tv.Dataset, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.seen.Store(int64(len(records)))
	if s.err != nil {
		return tv.Dataset{}, s.err
	}
	return tv.Dataset{Kind: s.name, Stats: tv.DatasetStats{Input: len(records)}}, nil
}

// Compile-time interface check.
var _ aggregate.Aggregator = (*stubAggregator)(nil)

func records(brands ...string) []tv.Record {
	out := make([]tv.Record, len(brands))
	for i, b := range brands {
		out[i] = tv.Record{Brand: b, ScreenSize: tv.Some(float64(40 + i))}
	}
	return out
}

func TestPipeline_SingleAggregator(t *testing.T) {
	stub := &stubAggregator{name: "test"}

	p := NewWithAggregators(tv.BuildConfig{Source: "tv.csv"}, []aggregate.Aggregator{stub})
	result, err := p.RunRecords(context.Background(), records("A", "B"))
	if err != nil {
		t.Fatalf("RunRecords() error = %v", err)
	}
	if result.Source != "tv.csv" {
		t.Errorf("Source = %q, want %q", result.Source, "tv.csv")
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 aggregator result, got %d", len(result.Results))
	}
	if result.Results[0].Aggregator != "test" {
		t.Errorf("aggregator name = %q, want %q", result.Results[0].Aggregator, "test")
	}
	if result.Results[0].Dataset.Stats.Input != 2 {
		t.Errorf("aggregator saw %d records, want 2", result.Results[0].Dataset.Stats.Input)
	}
}

func TestPipeline_AggregatorErrorDoesNotAbort(t *testing.T) {
	broken := &stubAggregator{name: "broken", err: errors.New("aggregation failed")}
	good := &stubAggregator{name: "good"}

	p := NewWithAggregators(tv.BuildConfig{}, []aggregate.Aggregator{broken, good})
	result, err := p.RunRecords(context.Background(), records("A"))
	if err != nil {
		t.Fatalf("RunRecords() should not return error when an aggregator fails, got %v", err)
	}

	if result.Results[0].Err == nil || result.Results[0].Err.Error() != "aggregation failed" {
		t.Errorf("broken result error = %v, want %q", result.Results[0].Err, "aggregation failed")
	}
	if result.Results[0].Dataset.Kind != "broken" {
		t.Errorf("failed dataset kind = %q, want %q", result.Results[0].Dataset.Kind, "broken")
	}
	if result.Results[1].Err != nil {
		t.Errorf("good result error = %v, want nil", result.Results[1].Err)
	}
	if result.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", result.Failed())
	}
	if _, ok := result.Dataset("broken"); ok {
		t.Error("Dataset(broken) should not be found")
	}
	if _, ok := result.Dataset("good"); !ok {
		t.Error("Dataset(good) should be found")
	}
}

func TestPipeline_ResultsKeepResolvedOrder(t *testing.T) {
	slow := &stubAggregator{name: "slow", delay: 20 * time.Millisecond}
	fast := &stubAggregator{name: "fast"}

	p := NewWithAggregators(tv.BuildConfig{}, []aggregate.Aggregator{slow, fast})
	result, err := p.RunRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunRecords() error = %v", err)
	}
	if result.Results[0].Aggregator != "slow" || result.Results[1].Aggregator != "fast" {
		t.Errorf("result order = [%s %s], want [slow fast]", result.Results[0].Aggregator, result.Results[1].Aggregator)
	}
	if result.Results[0].Duration < 20*time.Millisecond {
		t.Errorf("slow duration = %v, want >= 20ms", result.Results[0].Duration)
	}
}

func TestPipeline_FilterAppliedBeforeAggregation(t *testing.T) {
	stub := &stubAggregator{name: "test"}
	cfg := tv.BuildConfig{Filter: tv.Criteria{Brands: []string{"a"}}}

	p := NewWithAggregators(cfg, []aggregate.Aggregator{stub})
	result, err := p.RunRecords(context.Background(), records("A", "B", "A"))
	if err != nil {
		t.Fatalf("RunRecords() error = %v", err)
	}
	if got := stub.seen.Load(); got != 2 {
		t.Errorf("aggregator saw %d records, want 2", got)
	}
	if result.Filtered != 1 {
		t.Errorf("Filtered = %d, want 1", result.Filtered)
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewWithAggregators(tv.BuildConfig{}, []aggregate.Aggregator{&stubAggregator{name: "test"}})
	_, err := p.RunRecords(ctx, records("A"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunRecords() error = %v, want context.Canceled", err)
	}
}

func TestPipeline_RunParsesRows(t *testing.T) {
	stub := &stubAggregator{name: "test"}
	rows := []dataset.Row{
		{"Brand_Reg": "LG", "screensize": "55"},
		{"Brand_Reg": "", "screensize": "40"},
		{"Maker": "Sony", "screensize": "65"},
	}
	cfg := tv.BuildConfig{Columns: map[string]string{"brand": "Maker"}}

	p := NewWithAggregators(cfg, []aggregate.Aggregator{stub})
	result, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Column override means only the third row has a brand.
	if result.Parse.Total != 3 || result.Parse.Parsed != 1 || result.Parse.Dropped != 2 {
		t.Errorf("Parse = %+v, want total 3, parsed 1, dropped 2", result.Parse)
	}
	if got := stub.seen.Load(); got != 1 {
		t.Errorf("aggregator saw %d records, want 1", got)
	}
}

func TestPipeline_RunCountsMalformedCSVLines(t *testing.T) {
	stub := &stubAggregator{name: "test"}
	rows, err := dataset.ReadCSV(strings.NewReader("Brand_Reg,screensize\nA,30\nB,3\"2\nC,40\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	p := NewWithAggregators(tv.BuildConfig{}, []aggregate.Aggregator{stub})
	result, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Parse.Total != 3 || result.Parse.Parsed != 2 || result.Parse.Dropped != 1 {
		t.Errorf("Parse = %+v, want total 3, parsed 2, dropped 1", result.Parse)
	}
	found := false
	for _, issue := range result.Parse.Issues {
		if issue.Dropped {
			found = true
			if issue.Row != 2 {
				t.Errorf("dropped issue row = %d, want 2", issue.Row)
			}
		}
	}
	if !found {
		t.Error("malformed line missing from parse issues")
	}
}

func TestNew_AllAggregatorsSorted(t *testing.T) {
	p, err := New(tv.DefaultBuildConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got := p.Aggregators()
	want := []string{tv.KindBrands, tv.KindRanges, tv.KindSizes}
	if len(got) != len(want) {
		t.Fatalf("Aggregators() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Aggregators()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew_SelectedAggregatorsKeepOrder(t *testing.T) {
	cfg := tv.DefaultBuildConfig()
	cfg.Aggregators = []string{tv.KindSizes, tv.KindBrands, tv.KindSizes}

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got := p.Aggregators()
	if len(got) != 2 || got[0] != tv.KindSizes || got[1] != tv.KindBrands {
		t.Errorf("Aggregators() = %v, want [sizes brands]", got)
	}
}

func TestNew_UnknownAggregator(t *testing.T) {
	cfg := tv.DefaultBuildConfig()
	cfg.Aggregators = []string{"pies"}

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown aggregator")
	}
}

func TestNew_InvalidFilter(t *testing.T) {
	cfg := tv.DefaultBuildConfig()
	cfg.Filter = tv.Criteria{MinScreen: 70, MaxScreen: 30}

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for inverted screen bounds")
	}
}

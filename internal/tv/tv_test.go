package tv

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNumberZeroValueIsAbsent(t *testing.T) {
	var n Number
	if n.Valid {
		t.Error("zero-value Number should be absent")
	}
	if !Some(0).Valid {
		t.Error("Some(0) should be a valid zero")
	}
}

func TestNumberJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: Some(12.5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"a":12.5,"b":null}`; got != want {
		t.Errorf("marshal = %s, want %s", got, want)
	}

	var back struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.A != Some(12.5) {
		t.Errorf("A = %+v, want valid 12.5", back.A)
	}
	if back.B.Valid {
		t.Errorf("B = %+v, want absent", back.B)
	}
}

func TestDatasetLen(t *testing.T) {
	d := Dataset{Kind: KindSizes, Sizes: []SizeBucketEntry{{BucketSize: 30, Count: 1}}}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if (Dataset{Kind: "unknown"}).Len() != 0 {
		t.Error("unknown kind should have zero length")
	}
}

func TestDatasetJSONAlwaysCarriesEntries(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
		want string
	}{
		{
			name: "empty brands",
			ds:   Dataset{Kind: KindBrands},
			want: `{"kind":"brands","brands":[],"stats":{"input":0,"considered":0,"excluded":0}}`,
		},
		{
			name: "empty sizes",
			ds:   Dataset{Kind: KindSizes, Stats: DatasetStats{Input: 2, Excluded: 2}},
			want: `{"kind":"sizes","sizes":[],"stats":{"input":2,"considered":0,"excluded":2}}`,
		},
		{
			name: "ranges with nothing classified",
			ds:   Dataset{Kind: KindRanges, Ranges: []RangeBucketEntry{}, Stats: DatasetStats{Input: 1, Considered: 1}},
			want: `{"kind":"ranges","ranges":[],"stats":{"input":1,"considered":1,"excluded":0,"classified":0,"unclassified":0}}`,
		},
		{
			name: "brands",
			ds: Dataset{Kind: KindBrands, Brands: []BrandSelectionEntry{{Brand: "LG", ScreenSize: 65}},
				Stats: DatasetStats{Input: 1, Considered: 1}},
			want: `{"kind":"brands","brands":[{"brand":"LG","model_number":"","screen_size":65,"energy_consumption":null}],"stats":{"input":1,"considered":1,"excluded":0}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ds)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if got := string(data); got != tt.want {
				t.Errorf("marshal =\n%s\nwant\n%s", got, tt.want)
			}

			var back Dataset
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back.Kind != tt.ds.Kind || back.Len() != tt.ds.Len() || back.Stats != tt.ds.Stats {
				t.Errorf("round trip = %+v, want %+v", back, tt.ds)
			}
		})
	}
}

func TestCriteriaIsEmpty(t *testing.T) {
	if !(Criteria{}).IsEmpty() {
		t.Error("zero Criteria should be empty")
	}
	if (Criteria{MaxEnergy: 100}).IsEmpty() {
		t.Error("Criteria with MaxEnergy should not be empty")
	}
}

func TestBuildResultDatasetAndFailed(t *testing.T) {
	r := &BuildResult{Results: []AggregatorResult{
		{Aggregator: KindBrands, Dataset: Dataset{Kind: KindBrands}},
		{Aggregator: KindRanges, Err: errors.New("boom")},
	}}

	if _, ok := r.Dataset(KindBrands); !ok {
		t.Error("expected brands dataset")
	}
	if _, ok := r.Dataset(KindRanges); ok {
		t.Error("failed aggregator should not expose a dataset")
	}
	if _, ok := r.Dataset(KindSizes); ok {
		t.Error("missing aggregator should not expose a dataset")
	}
	if r.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", r.Failed())
	}
}

func TestDefaultBuildConfig(t *testing.T) {
	cfg := DefaultBuildConfig()
	if cfg.TopN != DefaultTopN {
		t.Errorf("TopN = %d, want %d", cfg.TopN, DefaultTopN)
	}
	if cfg.Order != OrderBySize {
		t.Errorf("Order = %q, want %q", cfg.Order, OrderBySize)
	}
	if cfg.Ranges.Len() != 5 {
		t.Errorf("Ranges.Len() = %d, want 5", cfg.Ranges.Len())
	}
}

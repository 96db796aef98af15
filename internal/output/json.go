package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/tvcharts/internal/tv"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps the chart datasets with metadata for the JSON output
// format.
type JSONEnvelope struct {
	Datasets []tv.Dataset `json:"datasets"`
	Errors   []JSONError  `json:"errors,omitempty"`
	Metadata JSONMetadata `json:"metadata"`
}

// JSONError reports an aggregator that failed.
type JSONError struct {
	Aggregator string `json:"aggregator"`
	Error      string `json:"error"`
}

// JSONMetadata contains information about the build that produced the
// datasets.
type JSONMetadata struct {
	RunID       string   `json:"run_id"`
	Source      string   `json:"source,omitempty"`
	Aggregators []string `json:"aggregators"`
	TotalRows   int      `json:"total_rows"`
	ParsedRows  int      `json:"parsed_rows"`
	DroppedRows int      `json:"dropped_rows"`
	RowIssues   int      `json:"row_issues"`
	Filtered    int      `json:"filtered"`
	GeneratedAt string   `json:"generated_at"`
}

// JSONFormatter writes datasets as a JSON object with metadata envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time

	// idFunc is used for testing to override the run id.
	idFunc func() string
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Envelope builds the JSON document for result without writing it.
func (f *JSONFormatter) Envelope(result *tv.BuildResult) JSONEnvelope {
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}
	runID := uuid.NewString()
	if f.idFunc != nil {
		runID = f.idFunc()
	}

	env := JSONEnvelope{
		Datasets: []tv.Dataset{},
		Metadata: JSONMetadata{
			RunID:       runID,
			Source:      result.Source,
			Aggregators: []string{},
			TotalRows:   result.Parse.Total,
			ParsedRows:  result.Parse.Parsed,
			DroppedRows: result.Parse.Dropped,
			RowIssues:   len(result.Parse.Issues),
			Filtered:    result.Filtered,
			GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}
	for _, r := range result.Results {
		env.Metadata.Aggregators = append(env.Metadata.Aggregators, r.Aggregator)
		if r.Err != nil {
			env.Errors = append(env.Errors, JSONError{Aggregator: r.Aggregator, Error: r.Err.Error()})
			continue
		}
		env.Datasets = append(env.Datasets, r.Dataset)
	}
	return env
}

// Format writes all datasets as a JSON document with a metadata envelope to
// w. If Compact is true, output is a single line. Otherwise output is
// pretty-printed for terminals and non-file writers and compact for pipes
// and regular files.
func (f *JSONFormatter) Format(result *tv.BuildResult, w io.Writer) error {
	envelope := f.Envelope(result)

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// shouldCompact determines whether to use compact mode.
// If Compact is explicitly set, use that value.
// Otherwise, auto-detect: pretty-print for TTYs, compact for pipes.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}

	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}

	// For non-file writers (e.g., bytes.Buffer in tests), default to pretty.
	return false
}

// Package validate checks a television dataset before it is charted. It
// reports missing columns, rows the parser drops, and unusable numeric cells,
// with fix suggestions where a likely cause is known.
package validate

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/davetashner/tvcharts/internal/config"
	"github.com/davetashner/tvcharts/internal/dataset"
)

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError makes the dataset unusable as configured.
	SeverityError Severity = "error"
	// SeverityWarning marks data the pipeline will drop or treat as absent.
	SeverityWarning Severity = "warning"
)

// requiredFields must be present for the charts to have any data.
var requiredFields = []string{dataset.FieldBrand, dataset.FieldScreenSize, dataset.FieldEnergy}

// ValidationError represents a single validation issue.
type ValidationError struct {
	Row        int      `json:"row,omitempty"` // 1-based data row; 0 for dataset-level issues
	Field      string   `json:"field,omitempty"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return "dataset: " + e.Message
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Result contains the outcome of validating a dataset.
type Result struct {
	TotalRows int               `json:"total_rows"`
	Records   int               `json:"records"`
	Errors    []ValidationError `json:"errors,omitempty"`
	Warnings  []ValidationError `json:"warnings,omitempty"`
}

// Valid returns true if no errors were found. Warnings do not count.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(e ValidationError) {
	if e.Severity == SeverityError {
		r.Errors = append(r.Errors, e)
		return
	}
	r.Warnings = append(r.Warnings, e)
}

// Validate checks rows against the header names in cols.
func Validate(rows []dataset.Row, cols dataset.Columns) *Result {
	result := &Result{TotalRows: len(rows)}
	if len(rows) == 0 {
		result.add(ValidationError{
			Severity:   SeverityError,
			Message:    "dataset has no data rows",
			Suggestion: "check that the file has a header row followed by at least one data row",
		})
		return result
	}

	missing := checkColumns(headerRow(rows), cols, result)

	parsed := dataset.Parse(rows, cols)
	result.Records = parsed.Summary.Parsed
	for _, issue := range parsed.Summary.Issues {
		if missing[issue.Field] {
			continue
		}
		e := ValidationError{
			Row:      issue.Row,
			Field:    issue.Field,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s: %s", issue.Field, issue.Reason),
		}
		switch {
		case issue.Dropped && issue.Field == "":
			e.Message = fmt.Sprintf("row dropped: %s", issue.Reason)
			e.Suggestion = "fix the quoting on this line or remove it"
		case issue.Dropped:
			e.Message = fmt.Sprintf("row dropped: %s", issue.Reason)
			e.Suggestion = fmt.Sprintf("fill in the %q column or remove the row", cols.Header(issue.Field))
		default:
			e.Suggestion = "the value is treated as absent and left out of charts that need it"
		}
		result.add(e)
	}

	if result.Records == 0 && !missing[dataset.FieldBrand] {
		result.add(ValidationError{
			Field:      dataset.FieldBrand,
			Severity:   SeverityError,
			Message:    "no row has a brand",
			Suggestion: fmt.Sprintf("fill in the %q column", cols.Header(dataset.FieldBrand)),
		})
	}
	return result
}

// headerRow returns the first row the reader could split into cells.
func headerRow(rows []dataset.Row) dataset.Row {
	for _, row := range rows {
		if _, bad := row.Malformed(); !bad {
			return row
		}
	}
	return dataset.Row{}
}

// checkColumns reports configured headers that the dataset lacks and returns
// the set of affected field keys.
func checkColumns(row dataset.Row, cols dataset.Columns, result *Result) map[string]bool {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	missing := make(map[string]bool)
	for _, field := range dataset.Fields {
		name := cols.Header(field)
		if row.Has(name) {
			continue
		}
		missing[field] = true

		sev := SeverityWarning
		if slices.Contains(requiredFields, field) {
			sev = SeverityError
		}
		result.add(ValidationError{
			Field:      field,
			Severity:   sev,
			Message:    fmt.Sprintf("missing column %q for %s", name, field),
			Suggestion: suggestColumn(field, name, headers),
		})
	}
	return missing
}

// suggestColumn proposes a header from the dataset that is close to the
// configured one.
func suggestColumn(field, name string, headers []string) string {
	normalized := make([]string, len(headers))
	byNorm := make(map[string]string, len(headers))
	for i, h := range headers {
		normalized[i] = dataset.NormalizeHeader(h)
		byNorm[normalized[i]] = h
	}

	want := dataset.NormalizeHeader(name)
	if match := closestMatch(want, normalized, max(3, len(want)/3)); match != "" {
		return fmt.Sprintf("did you mean %q? set columns.%s to %q in %s", byNorm[match], field, byNorm[match], config.FileName)
	}
	if len(headers) == 0 {
		return "the dataset has no named columns"
	}
	return fmt.Sprintf("set columns.%s in %s to one of: %s", field, config.FileName, strings.Join(headers, ", "))
}

// closestMatch finds the closest string in candidates to input using
// Levenshtein distance. Returns empty string if no match is within maxDist.
func closestMatch(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1

	for _, c := range candidates {
		d := levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist <= maxDist {
		return best
	}
	return ""
}

// levenshtein computes the Levenshtein edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader indicates an input without a header row.
var ErrNoHeader = errors.New("dataset has no header row")

// Load reads the dataset at path, choosing the reader by file extension.
func Load(path string) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path) //nolint:gosec // user-provided dataset path
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only file
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported dataset type %q (want .csv or .xlsx)", ext)
	}
}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

// ReadCSV reads comma-separated rows from r. The first record is the header.
// Short rows are padded with empty cells. A malformed line becomes a
// placeholder row that Parse counts as dropped, so later row numbers stay
// aligned with the input.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				slog.Warn("dropping malformed csv line", "line", pe.Line, "error", pe.Err)
				rows = append(rows, malformedRow(fmt.Sprintf("malformed line %d: %v", pe.Line, pe.Err)))
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, toRow(header, record))
	}
	return rows, nil
}

// ReadXLSX reads rows from the first sheet of the workbook at path.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only workbook
	return readWorkbook(f)
}

// ReadXLSXFrom reads rows from the first sheet of a workbook stream.
func ReadXLSXFrom(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only workbook
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]Row, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRow(header, record))
	}
	return rows, nil
}

// toRow pairs header names with cells. Headers that are equal under
// NormalizeHeader are duplicates and the leftmost one wins, so a row never
// holds two keys that lookup could confuse.
func toRow(header, record []string) Row {
	row := make(Row, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		norm := NormalizeHeader(h)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

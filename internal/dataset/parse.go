// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

// Package dataset reads television datasets and parses their rows into
// typed records.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/davetashner/tvcharts/internal/tv"
)

// Row is one data row keyed by header name.
type Row map[string]string

// malformedKey cannot collide with a header: toRow trims surrounding space
// and headers never carry a NUL.
const malformedKey = "\x00malformed"

func malformedRow(reason string) Row {
	return Row{malformedKey: reason}
}

// Malformed reports whether the reader could not split this row into cells,
// and why.
func (r Row) Malformed() (string, bool) {
	reason, ok := r[malformedKey]
	return reason, ok
}

// Field keys accepted by Columns.Override and the config file.
const (
	FieldSubmitID    = "submit_id"
	FieldBrand       = "brand"
	FieldModelNumber = "model_number"
	FieldFamilyName  = "family_name"
	FieldScreenSize  = "screen_size"
	FieldEnergy      = "energy_consumption"
)

// Fields lists the field keys in dataset column order.
var Fields = []string{FieldSubmitID, FieldBrand, FieldModelNumber, FieldFamilyName, FieldScreenSize, FieldEnergy}

// Columns maps record fields to dataset header names.
type Columns struct {
	SubmitID    string
	Brand       string
	ModelNumber string
	FamilyName  string
	ScreenSize  string
	Energy      string
}

// DefaultColumns returns the header names of the published dataset.
func DefaultColumns() Columns {
	return Columns{
		SubmitID:    "Submit_ID",
		Brand:       "Brand_Reg",
		ModelNumber: "Model_No",
		FamilyName:  "Family Name",
		ScreenSize:  "screensize",
		Energy:      "Labelled energy consumption (kWh/year)",
	}
}

// Override returns a copy of c with header names replaced for the given
// field keys. Unknown keys and empty names are ignored.
func (c Columns) Override(names map[string]string) Columns {
	for field, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		switch field {
		case FieldSubmitID:
			c.SubmitID = name
		case FieldBrand:
			c.Brand = name
		case FieldModelNumber:
			c.ModelNumber = name
		case FieldFamilyName:
			c.FamilyName = name
		case FieldScreenSize:
			c.ScreenSize = name
		case FieldEnergy:
			c.Energy = name
		}
	}
	return c
}

// Header returns the header name for a field key, or "".
func (c Columns) Header(field string) string {
	switch field {
	case FieldSubmitID:
		return c.SubmitID
	case FieldBrand:
		return c.Brand
	case FieldModelNumber:
		return c.ModelNumber
	case FieldFamilyName:
		return c.FamilyName
	case FieldScreenSize:
		return c.ScreenSize
	case FieldEnergy:
		return c.Energy
	default:
		return ""
	}
}

// ParseResult holds the parsed records and a summary of what was dropped.
type ParseResult struct {
	Records []tv.Record
	Summary tv.ParseSummary
}

// Parse converts raw rows into records.
//
// Malformed rows and rows without a brand are dropped and counted. Numeric cells that are empty,
// unparseable, non-finite or negative become absent values; the row is kept
// and the problem is reported as an issue. Parse never fails.
func Parse(rows []Row, cols Columns) ParseResult {
	res := ParseResult{
		Records: make([]tv.Record, 0, len(rows)),
		Summary: tv.ParseSummary{Total: len(rows)},
	}

	for i, row := range rows {
		rowNum := i + 1

		if reason, bad := row.Malformed(); bad {
			res.Summary.Dropped++
			res.Summary.Issues = append(res.Summary.Issues, tv.RowIssue{
				Row:     rowNum,
				Reason:  reason,
				Dropped: true,
			})
			continue
		}

		brand := lookup(row, cols.Brand)
		if brand == "" {
			res.Summary.Dropped++
			res.Summary.Issues = append(res.Summary.Issues, tv.RowIssue{
				Row:     rowNum,
				Field:   FieldBrand,
				Reason:  "missing brand",
				Dropped: true,
			})
			continue
		}

		rec := tv.Record{
			SubmitID:    lookup(row, cols.SubmitID),
			Brand:       brand,
			ModelNumber: lookup(row, cols.ModelNumber),
			FamilyName:  lookup(row, cols.FamilyName),
		}

		var reason string
		rec.ScreenSize, reason = ParseNumber(lookup(row, cols.ScreenSize))
		if reason != "" {
			res.Summary.Issues = append(res.Summary.Issues, tv.RowIssue{Row: rowNum, Field: FieldScreenSize, Reason: reason})
		}
		rec.EnergyConsumption, reason = ParseNumber(lookup(row, cols.Energy))
		if reason != "" {
			res.Summary.Issues = append(res.Summary.Issues, tv.RowIssue{Row: rowNum, Field: FieldEnergy, Reason: reason})
		}

		res.Records = append(res.Records, rec)
	}

	res.Summary.Parsed = len(res.Records)
	return res
}

// ParseNumber parses a numeric cell. It returns an absent Number and a
// human-readable reason when s is not a finite, non-negative number.
func ParseNumber(s string) (tv.Number, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tv.Number{}, "missing value"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return tv.Number{}, "not a number: " + strconv.Quote(s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return tv.Number{}, "not a finite number: " + strconv.Quote(s)
	}
	if v < 0 {
		return tv.Number{}, "negative value: " + strconv.Quote(s)
	}
	return tv.Some(v), ""
}

// lookup returns the trimmed value of column name in row. An exact key match
// wins; otherwise keys are compared ignoring case, surrounding space and the
// difference between spaces and underscores. Rows from the readers hold at
// most one key per normalized name; for other rows the smallest matching key
// wins.
func lookup(row Row, name string) string {
	if name == "" {
		return ""
	}
	if v, ok := row[name]; ok {
		return strings.TrimSpace(v)
	}
	want := NormalizeHeader(name)
	var key, val string
	found := false
	for k, v := range row {
		if NormalizeHeader(k) == want && (!found || k < key) {
			key, val, found = k, v, true
		}
	}
	return strings.TrimSpace(val)
}

// Has reports whether row carries column name, matched the way Parse
// matches headers.
func (r Row) Has(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := r[name]; ok {
		return true
	}
	want := NormalizeHeader(name)
	for k := range r {
		if NormalizeHeader(k) == want {
			return true
		}
	}
	return false
}

// NormalizeHeader folds case, underscores and runs of whitespace so that
// "Brand_Reg" and " brand reg " compare equal.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

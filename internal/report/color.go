// Copyright 2026 The tvcharts Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Shared color printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorCyan   = color.New(color.FgCyan)
	colorBold   = color.New(color.Bold)
)

// Energy thresholds in kWh/year for ColorEnergy.
const (
	energyLow  = 120
	energyHigh = 250
)

// ColorEnergy colors an energy cell: green for frugal sets, red for heavy
// ones. Non-numeric cells are returned unchanged.
func ColorEnergy(val string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return val
	}
	switch {
	case v > energyHigh:
		return colorRed.Sprint(val)
	case v > energyLow:
		return colorYellow.Sprint(val)
	default:
		return colorGreen.Sprint(val)
	}
}

// ColorStatus colors aggregator status labels.
func ColorStatus(val string) string {
	switch val {
	case "ok":
		return colorGreen.Sprint(val)
	case "failed":
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// ColorBar colors a bar drawn by bar.
func ColorBar(val string) string {
	return colorCyan.Sprint(val)
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// colorCount colors a problem count: green when zero, yellow otherwise.
func colorCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n == 0 {
		return colorGreen.Sprint(s)
	}
	return colorYellow.Sprint(s)
}

// Package logging renders processing reports for gainstage runs. This file
// contains the reusable table formatting for multi-column metric comparison
// tables (Input → Output).
package logging

import (
	"fmt"
	"strings"
)

// MetricRow represents a single row in a comparison table. Values are
// pre-formatted strings to allow for mixed formatting.
type MetricRow struct {
	Label  string   // Row label, e.g., "Sample Peak"
	Values []string // One value per column
	Unit   string   // Unit suffix, e.g., "dB", "" for unitless
}

// MetricTable formats aligned columns for metric comparison.
type MetricTable struct {
	Headers []string // Column headers, e.g., ["Input", "Output"]
	Rows    []MetricRow
}

// String renders the table with aligned columns: labels left-aligned,
// values right-aligned within their column, units appended last.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))
		for i := 0; i < len(t.Headers); i++ {
			val := "-"
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}
		if row.Unit != "" {
			sb.WriteString(row.Unit)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

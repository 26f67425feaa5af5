package logging

import (
	"strings"
	"testing"
)

func TestMetricTableAlignment(t *testing.T) {
	table := MetricTable{
		Headers: []string{"Input", "Output"},
		Rows: []MetricRow{
			{Label: "Sample Peak", Values: []string{"-6.0", "-3.0"}, Unit: "dBFS"},
			{Label: "Gain", Values: []string{"", "+3.00"}, Unit: "dB"},
		},
	}

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3 (header + 2 rows)", len(lines))
	}
	if !strings.Contains(lines[0], "Input") || !strings.Contains(lines[0], "Output") {
		t.Errorf("header missing columns: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Sample Peak") {
		t.Errorf("label not left-aligned: %q", lines[1])
	}
	// Missing values render as a placeholder.
	if !strings.Contains(lines[2], "-") {
		t.Errorf("missing value placeholder absent: %q", lines[2])
	}
	if !strings.HasSuffix(lines[1], "dBFS") {
		t.Errorf("unit not appended: %q", lines[1])
	}
}

func TestMetricTableEmpty(t *testing.T) {
	table := MetricTable{Headers: []string{"Input"}}
	if got := table.String(); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

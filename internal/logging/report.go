package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/howeecross/gainstage/internal/volume"
)

// FileReport summarises one processed file for display.
type FileReport struct {
	InputPath  string
	OutputPath string // empty when playing back instead of writing
	InFormat   string
	OutFormat  string
	Bypassed   bool // detach kicked in, stage removed from the chain

	ReplayGain    float64 // resolved replaygain multiplier (linear)
	EffectiveGain float64 // level × rgain × trim (linear)
	VolumeDB      float64 // static trim as configured

	InputPeak  float64 // linear sample peak before processing
	OutputPeak float64 // linear sample peak after processing

	Elapsed time.Duration
}

// Render formats the report as plain text, one block per file.
func Render(r FileReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", r.InputPath)
	if r.Bypassed {
		sb.WriteString("  gain is neutral, stage detached (audio passed through)\n")
	} else {
		fmt.Fprintf(&sb, "  format %s -> %s\n", r.InFormat, r.OutFormat)
	}
	if r.OutputPath != "" {
		fmt.Fprintf(&sb, "  wrote %s (%s)\n", r.OutputPath, r.Elapsed.Round(time.Millisecond))
	}

	table := MetricTable{
		Headers: []string{"Input", "Output"},
		Rows: []MetricRow{
			{
				Label:  "Sample Peak",
				Values: []string{formatPeak(r.InputPeak), formatPeak(r.OutputPeak)},
				Unit:   "dBFS",
			},
			{
				Label:  "Replaygain",
				Values: []string{"", fmt.Sprintf("%+.2f", volume.ToDB(r.ReplayGain))},
				Unit:   "dB",
			},
			{
				Label:  "Effective Gain",
				Values: []string{"", fmt.Sprintf("%+.2f", volume.ToDB(r.EffectiveGain))},
				Unit:   "dB",
			},
		},
	}
	for _, line := range strings.Split(strings.TrimRight(table.String(), "\n"), "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatPeak(peak float64) string {
	if peak <= 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", volume.ToDB(peak))
}

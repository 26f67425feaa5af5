// Package ui provides the Bubbletea terminal user interface for gainstage
// playback: a position readout and a live volume knob.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/howeecross/gainstage/internal/volume"
)

// volumeStep is the knob change per keypress.
const volumeStep = 0.05

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#006E8A"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A9C0"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Model is the Bubbletea model for the playback UI.
type Model struct {
	Title string

	ctl      Controls
	muted    bool
	restore  float64 // knob position to restore on unmute
	elapsed  time.Duration
	total    time.Duration
	done     bool
}

// NewModel creates a playback UI for the given track title and controls.
func NewModel(title string, ctl Controls) Model {
	return Model{Title: title, ctl: ctl}
}

// Init starts the position ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses and ticker messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "+", "=":
			m.setVolume(m.ctl.Volume() + volumeStep)
		case "down", "-":
			m.setVolume(m.ctl.Volume() - volumeStep)
		case "m":
			if m.muted {
				m.muted = false
				m.ctl.SetVolume(m.restore)
			} else {
				m.muted = true
				m.restore = m.ctl.Volume()
				m.ctl.SetVolume(0)
			}
		}
	case tickMsg:
		m.elapsed, m.total = m.ctl.Position()
		return m, tick()
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) setVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	m.muted = false
	m.ctl.SetVolume(v)
}

// View renders the title, position and volume bar.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Playing: " + m.Title))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %s / %s\n", formatDuration(m.elapsed), formatDuration(m.total)))

	vol := m.ctl.Volume()
	sb.WriteString("  Volume ")
	sb.WriteString(barStyle.Render(volumeBar(vol, 20)))
	if m.muted {
		sb.WriteString(mutedStyle.Render("  muted"))
	} else {
		// The knob is perceptual; show the cubic level it maps to.
		sb.WriteString(fmt.Sprintf("  %3.0f%% (%.1f dB)", vol*100, volume.ToDB(math.Pow(vol, 3))))
	}
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("  up/down volume · m mute · q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func volumeBar(vol float64, width int) string {
	filled := int(vol*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

package ui

import "time"

// Controls wires the model to the playback engine. The functions are called
// from the UI goroutine; the caller is responsible for whatever locking the
// engine needs (the speaker lock, for beep).
type Controls struct {
	Volume    func() float64
	SetVolume func(float64)
	Position  func() (elapsed, total time.Duration)
}

// DoneMsg indicates playback has finished.
type DoneMsg struct{}

// tickMsg drives the periodic position refresh.
type tickMsg time.Time

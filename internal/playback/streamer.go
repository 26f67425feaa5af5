// Package playback bridges pipeline frames to the beep speaker.
package playback

import (
	"fmt"

	"github.com/faiface/beep"

	"github.com/howeecross/gainstage/internal/audio"
)

// Processor runs a frame through the filter chain. Frames are handed over
// lazily, one at a time, just before playback reaches them, so that volume
// changes made mid-stream affect the remaining audio.
type Processor func(*audio.Frame) (*audio.Frame, error)

// Streamer plays a sequence of frames as a beep.StreamSeeker. Mono input is
// duplicated onto both output channels.
type Streamer struct {
	format  audio.Format
	frames  []*audio.Frame
	process Processor
	pending []bool // frames not yet run through the processor
	starts  []int  // cumulative sample offset of each frame
	total   int
	pos     int
	err     error
}

// NewStreamer wraps frames of the given format. process may be nil when the
// frames need no further filtering. Only mono and stereo streams can be
// played back.
func NewStreamer(format audio.Format, frames []*audio.Frame, process Processor) (*Streamer, error) {
	if format.Channels < 1 || format.Channels > 2 {
		return nil, fmt.Errorf("playback: unsupported channel count %d", format.Channels)
	}
	s := &Streamer{format: format, frames: frames, process: process}
	s.pending = make([]bool, len(frames))
	for i, fr := range frames {
		s.pending[i] = process != nil
		s.starts = append(s.starts, s.total)
		s.total += fr.Samples()
	}
	return s, nil
}

// SampleRate returns the stream's rate, for speaker initialisation.
func (s *Streamer) SampleRate() beep.SampleRate {
	return beep.SampleRate(s.format.SampleRate)
}

// Stream implements beep.Streamer.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	for n < len(samples) && s.pos < s.total {
		fr, off := s.locate(s.pos)
		if fr == nil {
			return n, n > 0
		}
		left := s.sampleAt(fr, 0, off)
		right := left
		if s.format.Channels == 2 {
			right = s.sampleAt(fr, 1, off)
		}
		samples[n][0], samples[n][1] = left, right
		n++
		s.pos++
	}
	return n, n > 0
}

// Err implements beep.Streamer.
func (s *Streamer) Err() error { return s.err }

// Len implements beep.StreamSeeker.
func (s *Streamer) Len() int { return s.total }

// Position implements beep.StreamSeeker.
func (s *Streamer) Position() int { return s.pos }

// Seek implements beep.StreamSeeker.
func (s *Streamer) Seek(p int) error {
	if p < 0 || p > s.total {
		return fmt.Errorf("playback: seek position %d out of range", p)
	}
	s.pos = p
	return nil
}

// locate maps a stream position to its frame and in-frame sample index,
// running the frame through the processor on first touch.
func (s *Streamer) locate(pos int) (*audio.Frame, int) {
	lo, hi := 0, len(s.frames)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if s.pending[lo] {
		fr, err := s.process(s.frames[lo])
		if err != nil {
			s.err = err
			return nil, 0
		}
		s.frames[lo] = fr
		s.pending[lo] = false
	}
	return s.frames[lo], pos - s.starts[lo]
}

// sampleAt reads channel ch of sample i as a float in [-1, 1], whatever the
// frame's representation.
func (s *Streamer) sampleAt(fr *audio.Frame, ch, i int) float64 {
	format := fr.Format()
	plane, idx := 0, i*format.Channels+ch
	if format.Sample.IsPlanar() {
		plane, idx = ch, i
	}
	if format.Sample.IsFloat() {
		return float64(fr.F32(plane)[idx])
	}
	return float64(fr.S16(plane)[idx]) / 32768.0
}

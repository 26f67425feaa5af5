// Package volume implements the gain-control stage of the audio pipeline:
// it folds the user volume knob, optional replaygain metadata and a static
// dB trim into one linear multiplier and applies it to every sample of each
// frame, with clip protection appropriate to the sample representation.
package volume

import (
	"math"

	"github.com/howeecross/gainstage/internal/replaygain"
)

// Option ranges for the numeric configuration fields. Out-of-range values
// are clamped, never rejected.
const (
	VolumeDBMin = -200.0
	VolumeDBMax = 60.0
	PreampMin   = -15.0
	PreampMax   = 15.0
)

// detachEpsilon is the tolerance for treating the volume×replaygain product
// as neutral during reconfiguration.
const detachEpsilon = 0.00001

// Config is the option surface of the stage. It is immutable once handed to
// New; the stage keeps its own clamped copy.
type Config struct {
	// VolumeDB is a static gain trim in dB, range [-200, 60]. -200 and
	// below means silence.
	VolumeDB float64

	// ReplayGainTrack and ReplayGainAlbum select which replaygain record
	// to apply. Track wins when both are set.
	ReplayGainTrack bool
	ReplayGainAlbum bool

	// Preamp is added to the selected replaygain value, in dB, range
	// [-15, 15].
	Preamp float64

	// AllowClipping disables clip prevention, letting replaygain amplify
	// past the recorded peak.
	AllowClipping bool

	// Fallback is applied (in dB) when replaygain metadata is wanted but
	// absent. Zero means no fallback.
	Fallback float64

	// SoftClip selects the saturating sine curve over hard clamping on the
	// floating-point path.
	SoftClip bool

	// Fixed prefers the 16-bit fixed-point processing path when the input
	// is not already floating point.
	Fixed bool

	// Detach lets reconfiguration report the stage as bypassable when the
	// net volume×replaygain product is neutral.
	Detach bool
}

// clamped returns a copy of c with numeric fields forced into their option
// ranges.
func (c Config) clamped() Config {
	c.VolumeDB = clamp(c.VolumeDB, VolumeDBMin, VolumeDBMax)
	c.Preamp = clamp(c.Preamp, PreampMin, PreampMax)
	c.Fallback = clamp(c.Fallback, VolumeDBMin, VolumeDBMax)
	return c
}

// State is the runtime gain state of one stage instance. vol is the
// user-facing knob; level is its cubic perceptual-to-linear mapping; rgain
// is the currently resolved replaygain multiplier.
type State struct {
	vol   float64
	level float64
	rgain float64
}

func newState() State {
	return State{vol: 1.0, level: 1.0, rgain: 1.0}
}

// Level returns the linear gain derived from the volume knob.
func (s State) Level() float64 { return s.level }

// ReplayGain returns the currently resolved replaygain multiplier.
func (s State) ReplayGain() float64 { return s.rgain }

// FromDB converts a dB value to linear gain. Input at or below -200 dB
// becomes 0 (effectively silent); otherwise the input is clamped to
// [lo, hi] and converted as 10^(x/k). Gain uses k=20 throughout.
func FromDB(in, k, lo, hi float64) float64 {
	if in <= -200 {
		return 0.0
	}
	return math.Pow(10.0, clamp(in, lo, hi)/k)
}

// ToDB is the inverse conversion, with a floor for silent input.
func ToDB(linear float64) float64 {
	if linear <= 0 {
		return VolumeDBMin
	}
	return 20.0 * math.Log10(linear)
}

// SoftClip is a continuous saturating transfer curve: linear-ish around
// zero, compressing towards ±1 as the sine argument approaches ±π/2, and
// pinned to ±1 beyond.
func SoftClip(x float64) float64 {
	switch {
	case x >= math.Pi/2:
		return 1.0
	case x <= -math.Pi/2:
		return -1.0
	}
	return math.Sin(x)
}

// Resolve computes the replaygain linear multiplier for the given config and
// metadata. With track or album mode enabled and metadata present, the
// selected gain plus preamp is converted to linear and, unless clip
// protection is off, limited to 1/peak so the recorded peak cannot exceed
// full scale. Without metadata a nonzero fallback applies; otherwise the
// multiplier is 1. Resolve never fails.
func Resolve(cfg Config, info *replaygain.Info) float64 {
	if (cfg.ReplayGainTrack || cfg.ReplayGainAlbum) && info != nil {
		gain, peak := info.AlbumGain, info.AlbumPeak
		if cfg.ReplayGainTrack {
			gain, peak = info.TrackGain, info.TrackPeak
		}
		gain += cfg.Preamp
		rgain := FromDB(gain, 20.0, VolumeDBMin, VolumeDBMax)
		if !cfg.AllowClipping && peak > 0 {
			rgain = math.Min(rgain, 1.0/peak)
		}
		return rgain
	}
	if cfg.Fallback != 0 {
		return FromDB(cfg.Fallback, 20.0, VolumeDBMin, VolumeDBMax)
	}
	return 1.0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

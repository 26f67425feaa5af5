package volume

import (
	"math"

	"github.com/howeecross/gainstage/internal/audio"
	"github.com/howeecross/gainstage/internal/replaygain"
)

// fixedPointUnity is the fixed-point representation of gain 1.0 on the
// 16-bit path (8 fractional bits).
const fixedPointUnity = 256

// Filter is one instance of the gain-control stage. All operations are
// called sequentially from the pipeline thread; the filter owns its State
// exclusively and holds no locks.
type Filter struct {
	cfg   Config
	state State
	meta  *replaygain.Info
	out   audio.Format

	// Logf, when set, receives verbose diagnostics (resolved gains,
	// detach decisions).
	Logf func(format string, args ...any)
}

// New creates a filter with the given configuration. Numeric options are
// clamped into range; the volume knob starts at 1.0 (neutral).
func New(cfg Config) *Filter {
	return &Filter{cfg: cfg.clamped(), state: newState()}
}

// SetMetadata supplies the replaygain record for the current stream, or nil
// when none is available. Takes effect on the next Reconfigure.
func (f *Filter) SetMetadata(info *replaygain.Info) { f.meta = info }

// SetVolume sets the user volume knob. The linear level is the cube of the
// knob, a perceptual mapping; values outside [0, 1] are accepted and simply
// flow through the mapping and the downstream clamps.
func (f *Filter) SetVolume(v float64) {
	f.state.vol = v
	f.state.level = math.Pow(v, 3)
	f.logf("volume gain: %f", f.state.level)
}

// Volume returns the current knob position.
func (f *Filter) Volume() float64 { return f.state.vol }

// State returns a copy of the runtime gain state.
func (f *Filter) State() State { return f.state }

// Reconfigure negotiates the working format for a new stream configuration
// and re-resolves the replaygain multiplier. It must run before any frame is
// processed under the new format.
//
// The output keeps the input's rate and channel count with the layout forced
// to the interleaved baseline; the 16-bit fixed-point representation is
// chosen when Fixed is set and the de-planarized input isn't float,
// otherwise float. Planar inputs keep the planar variant of the chosen
// representation.
//
// bypass is true when Detach is set and the volume×replaygain product is
// neutral: the stage can be dropped from the chain for this configuration.
// The static VolumeDB trim is not part of the detach test.
func (f *Filter) Reconfigure(in audio.Format) (out audio.Format, bypass bool, err error) {
	out = in.ForceInterleaved()
	if f.cfg.Fixed && !in.Sample.IsFloat() {
		out = out.WithSample(audio.S16)
	} else {
		out = out.WithSample(audio.Float)
	}
	if in.Sample.IsPlanar() {
		out = out.WithSample(out.Sample.Planar())
	}

	f.state.rgain = Resolve(f.cfg, f.meta)
	if f.state.rgain != 1.0 {
		f.logf("applying replay-gain: %f", f.state.rgain)
	}
	f.out = out

	if f.cfg.Detach && math.Abs(f.state.level*f.state.rgain-1.0) < detachEpsilon {
		f.logf("gain is neutral, detaching")
		return out, true, nil
	}
	return out, false, nil
}

// EffectiveGain returns the linear multiplier currently applied per sample:
// level × rgain × the static dB trim.
func (f *Filter) EffectiveGain() float64 {
	return f.state.level * f.state.rgain * FromDB(f.cfg.VolumeDB, 20.0, VolumeDBMin, VolumeDBMax)
}

// Process applies the effective gain to every plane of the frame, in place
// where possible. A nil frame (end-of-stream flush) passes through as nil.
// If exclusive access to a shared frame cannot be obtained the frame passes
// through unmodified; that is a soft per-frame condition, not an error.
func (f *Filter) Process(fr *audio.Frame) (*audio.Frame, error) {
	if fr == nil {
		return nil, nil
	}

	gain := f.EffectiveGain()

	switch f.out.Sample.Packed() {
	case audio.S16:
		vol := int(math.Round(fixedPointUnity * gain))
		if vol == fixedPointUnity {
			return fr, nil
		}
		if err := fr.MakeWritable(); err != nil {
			f.logf("frame buffer not writable, passing through: %v", err)
			return fr, nil
		}
		for p := 0; p < fr.Planes(); p++ {
			processS16(fr.S16(p), vol)
		}
	case audio.Float:
		if gain == 1.0 {
			return fr, nil
		}
		if err := fr.MakeWritable(); err != nil {
			f.logf("frame buffer not writable, passing through: %v", err)
			return fr, nil
		}
		for p := 0; p < fr.Planes(); p++ {
			processFloat(fr.F32(p), gain, f.cfg.SoftClip)
		}
	}
	return fr, nil
}

// processS16 scales one 16-bit plane by vol/256 with saturation.
func processS16(plane []int16, vol int) {
	for i, s := range plane {
		x := (int(s) * vol) >> 8
		if x > math.MaxInt16 {
			x = math.MaxInt16
		} else if x < math.MinInt16 {
			x = math.MinInt16
		}
		plane[i] = int16(x)
	}
}

// processFloat scales one float plane, bounding the result by the soft-clip
// curve or a hard clamp to [-1, 1].
func processFloat(plane []float32, gain float64, soft bool) {
	for i, s := range plane {
		x := float64(s) * gain
		if soft {
			x = SoftClip(x)
		} else {
			x = clamp(x, -1.0, 1.0)
		}
		plane[i] = float32(x)
	}
}

func (f *Filter) logf(format string, args ...any) {
	if f.Logf != nil {
		f.Logf(format, args...)
	}
}

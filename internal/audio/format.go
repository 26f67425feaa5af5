// Package audio defines the sample formats and frame buffers exchanged
// between pipeline stages.
package audio

import "fmt"

// SampleFormat identifies the numeric representation of samples in a plane.
type SampleFormat int

const (
	// S16 is packed (interleaved) signed 16-bit PCM.
	S16 SampleFormat = iota
	// Float is packed (interleaved) 32-bit floating point, nominal range [-1, 1].
	Float
	// S16Planar stores each channel's 16-bit samples in its own plane.
	S16Planar
	// FloatPlanar stores each channel's float samples in its own plane.
	FloatPlanar
)

// Packed returns the interleaved equivalent of f.
func (f SampleFormat) Packed() SampleFormat {
	switch f {
	case S16Planar:
		return S16
	case FloatPlanar:
		return Float
	}
	return f
}

// Planar returns the planar equivalent of f.
func (f SampleFormat) Planar() SampleFormat {
	switch f {
	case S16:
		return S16Planar
	case Float:
		return FloatPlanar
	}
	return f
}

// IsPlanar reports whether each channel occupies its own plane.
func (f SampleFormat) IsPlanar() bool {
	return f == S16Planar || f == FloatPlanar
}

// IsFloat reports whether the underlying representation is floating point,
// regardless of plane layout.
func (f SampleFormat) IsFloat() bool {
	return f.Packed() == Float
}

// BytesPerSample returns the storage size of a single sample.
func (f SampleFormat) BytesPerSample() int {
	if f.IsFloat() {
		return 4
	}
	return 2
}

func (f SampleFormat) String() string {
	switch f {
	case S16:
		return "s16"
	case Float:
		return "float"
	case S16Planar:
		return "s16p"
	case FloatPlanar:
		return "floatp"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// Format describes a stream configuration: rate, channel count and sample
// representation. It is a value type; stages derive their output Format from
// the input rather than mutating it.
type Format struct {
	SampleRate int
	Channels   int
	Sample     SampleFormat
}

// Planes returns the number of planes a frame of this format carries.
func (f Format) Planes() int {
	if f.Sample.IsPlanar() {
		return f.Channels
	}
	return 1
}

// PlaneLen returns the number of samples stored in one plane for a frame
// holding the given number of samples per channel.
func (f Format) PlaneLen(samples int) int {
	if f.Sample.IsPlanar() {
		return samples
	}
	return samples * f.Channels
}

// ForceInterleaved returns f with the sample representation collapsed to its
// packed (interleaved) baseline. Rate and channel count are preserved.
func (f Format) ForceInterleaved() Format {
	f.Sample = f.Sample.Packed()
	return f
}

// WithSample returns f with the sample representation replaced.
func (f Format) WithSample(s SampleFormat) Format {
	f.Sample = s
	return f
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", f.SampleRate, f.Channels, f.Sample)
}

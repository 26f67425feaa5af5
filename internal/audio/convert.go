package audio

// Convert returns a frame with the same audio content in the target
// representation and layout. Rate and channel count must match; only the
// sample format may differ. The input frame is returned untouched when no
// conversion is needed.
//
// Conversion sits outside the filter stages: the pipeline uses it to deliver
// frames in whatever working format a stage negotiated.
func Convert(fr *Frame, target Format) *Frame {
	src := fr.Format()
	if src.Sample == target.Sample {
		return fr
	}

	out := NewFrame(target, fr.Samples())
	channels := target.Channels
	for i := 0; i < fr.Samples()*channels; i++ {
		sample, ch := i/channels, i%channels
		out.store(sample, ch, fr.load(sample, ch))
	}
	return out
}

// load reads channel ch of sample i as a float in [-1, 1].
func (f *Frame) load(sample, ch int) float64 {
	plane, idx := 0, sample*f.format.Channels+ch
	if f.format.Sample.IsPlanar() {
		plane, idx = ch, sample
	}
	if f.format.Sample.IsFloat() {
		return float64(f.f32[plane][idx])
	}
	return float64(f.s16[plane][idx]) / 32768.0
}

// store writes channel ch of sample i from a float in [-1, 1].
func (f *Frame) store(sample, ch int, x float64) {
	plane, idx := 0, sample*f.format.Channels+ch
	if f.format.Sample.IsPlanar() {
		plane, idx = ch, sample
	}
	if f.format.Sample.IsFloat() {
		f.f32[plane][idx] = float32(x)
		return
	}
	v := x * 32768.0
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	f.s16[plane][idx] = int16(v)
}

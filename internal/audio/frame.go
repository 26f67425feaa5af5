package audio

import "errors"

// ErrPoolExhausted is returned when a frame allocation would exceed the
// pool's configured limit.
var ErrPoolExhausted = errors.New("audio: frame pool exhausted")

// Pool bounds the number of live frame buffers. A nil *Pool means unlimited.
// Pools exist so that a stage requesting copy-on-write materialization can
// observe allocation failure as a recoverable condition rather than a crash.
type Pool struct {
	limit int
	used  int
}

// NewPool returns a pool allowing at most limit live frame buffers.
func NewPool(limit int) *Pool {
	return &Pool{limit: limit}
}

func (p *Pool) acquire() error {
	if p == nil {
		return nil
	}
	if p.used >= p.limit {
		return ErrPoolExhausted
	}
	p.used++
	return nil
}

func (p *Pool) release() {
	if p != nil && p.used > 0 {
		p.used--
	}
}

// Frame is a fixed-size buffer of audio samples. Plane count, sample count
// and format are fixed for the frame's lifetime. Frames may share their
// underlying planes between pipeline stages; a stage must call MakeWritable
// before mutating samples.
type Frame struct {
	format  Format
	samples int

	// Exactly one of these is populated, matching format.Sample.
	s16 [][]int16
	f32 [][]float32

	refs *int
	pool *Pool
}

// NewFrame allocates an unshared frame with no pool limit.
func NewFrame(format Format, samples int) *Frame {
	f, _ := NewPooledFrame(nil, format, samples)
	return f
}

// NewPooledFrame allocates a frame whose buffers (and any copy-on-write
// clones made from it) count against the given pool.
func NewPooledFrame(pool *Pool, format Format, samples int) (*Frame, error) {
	if err := pool.acquire(); err != nil {
		return nil, err
	}
	refs := 1
	f := &Frame{format: format, samples: samples, refs: &refs, pool: pool}
	planes := format.Planes()
	n := format.PlaneLen(samples)
	if format.Sample.IsFloat() {
		f.f32 = make([][]float32, planes)
		for p := range f.f32 {
			f.f32[p] = make([]float32, n)
		}
	} else {
		f.s16 = make([][]int16, planes)
		for p := range f.s16 {
			f.s16[p] = make([]int16, n)
		}
	}
	return f, nil
}

// Format returns the frame's stream configuration.
func (f *Frame) Format() Format { return f.format }

// Samples returns the number of samples per channel.
func (f *Frame) Samples() int { return f.samples }

// Planes returns the number of sample planes.
func (f *Frame) Planes() int { return f.format.Planes() }

// S16 returns plane p of a 16-bit frame. Callers must hold a writable frame
// before mutating the returned slice.
func (f *Frame) S16(p int) []int16 { return f.s16[p] }

// F32 returns plane p of a floating-point frame.
func (f *Frame) F32(p int) []float32 { return f.f32[p] }

// Ref returns a new frame header sharing this frame's planes. Both headers
// must be released with Unref.
func (f *Frame) Ref() *Frame {
	*f.refs++
	clone := *f
	return &clone
}

// Unref releases this header's reference. When the last reference is
// dropped the buffers are returned to the pool.
func (f *Frame) Unref() {
	if *f.refs > 0 {
		*f.refs--
		if *f.refs == 0 {
			f.pool.release()
		}
	}
}

// Writable reports whether this header holds the only reference to the
// underlying planes.
func (f *Frame) Writable() bool { return *f.refs == 1 }

// MakeWritable ensures exclusive ownership of the frame's planes, cloning
// them if they are shared. Cloning draws from the frame's pool; on
// ErrPoolExhausted the frame is left untouched and still valid.
func (f *Frame) MakeWritable() error {
	if f.Writable() {
		return nil
	}
	if err := f.pool.acquire(); err != nil {
		return err
	}
	if f.f32 != nil {
		planes := make([][]float32, len(f.f32))
		for p, src := range f.f32 {
			planes[p] = append([]float32(nil), src...)
		}
		f.f32 = planes
	} else {
		planes := make([][]int16, len(f.s16))
		for p, src := range f.s16 {
			planes[p] = append([]int16(nil), src...)
		}
		f.s16 = planes
	}
	*f.refs--
	refs := 1
	f.refs = &refs
	return nil
}

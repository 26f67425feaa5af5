package audio

import (
	"fmt"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultFrameSize is the number of samples per channel carried by frames
// produced from file input.
const DefaultFrameSize = 4096

// ReadWAVFile decodes a WAV file into interleaved frames of at most
// frameSize samples per channel. 16-bit input becomes S16 frames; any other
// bit depth is converted to Float so no precision is lost on the way in.
func ReadWAVFile(path string, frameSize int) (Format, []*Frame, error) {
	if frameSize <= 0 {
		frameSize = DefaultFrameSize
	}

	fh, err := os.Open(path)
	if err != nil {
		return Format{}, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer fh.Close()

	dec := wav.NewDecoder(fh)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Format{}, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return Format{}, nil, fmt.Errorf("no audio stream found in file: %s", path)
	}

	depth := int(dec.BitDepth)
	format := Format{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Sample:     S16,
	}
	if depth != 16 {
		format.Sample = Float
	}

	chunk := frameSize * format.Channels
	var frames []*Frame
	for start := 0; start < len(buf.Data); start += chunk {
		end := start + chunk
		if end > len(buf.Data) {
			end = start + (len(buf.Data)-start)/format.Channels*format.Channels
			if end == start {
				break
			}
		}
		data := buf.Data[start:end]
		fr := NewFrame(format, len(data)/format.Channels)
		switch format.Sample {
		case S16:
			dst := fr.S16(0)
			for i, v := range data {
				dst[i] = int16(v)
			}
		case Float:
			scale := float32(int(1) << (depth - 1))
			dst := fr.F32(0)
			for i, v := range data {
				dst[i] = float32(v) / scale
			}
		}
		frames = append(frames, fr)
	}

	return format, frames, nil
}

// WriteWAVFile encodes frames as 16-bit PCM WAV. Float samples are clamped
// to [-1, 1] and scaled; planar frames are interleaved on the way out.
func WriteWAVFile(path string, format Format, frames []*Frame) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer fh.Close()

	enc := wav.NewEncoder(fh, format.SampleRate, 16, format.Channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		SourceBitDepth: 16,
	}
	for _, fr := range frames {
		buf.Data = interleaveInts(fr)
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalise output file: %w", err)
	}
	return nil
}

// interleaveInts flattens a frame into interleaved int samples at 16-bit
// scale, whatever its representation.
func interleaveInts(fr *Frame) []int {
	format := fr.Format()
	out := make([]int, fr.Samples()*format.Channels)
	for i := range out {
		sample, ch := i/format.Channels, i%format.Channels
		plane, idx := 0, i
		if format.Sample.IsPlanar() {
			plane, idx = ch, sample
		}
		if format.Sample.IsFloat() {
			x := float64(fr.F32(plane)[idx])
			out[i] = int(math.Round(math.Max(-1, math.Min(1, x)) * math.MaxInt16))
		} else {
			out[i] = int(fr.S16(plane)[idx])
		}
	}
	return out
}

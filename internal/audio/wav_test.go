package audio

import (
	"path/filepath"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	format := Format{SampleRate: 44100, Channels: 2, Sample: S16}
	fr := NewFrame(format, 4)
	src := []int16{0, 1000, -1000, 32767, -32768, 500, -500, 123}
	copy(fr.S16(0), src)

	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	if err := WriteWAVFile(path, format, []*Frame{fr}); err != nil {
		t.Fatalf("WriteWAVFile: %v", err)
	}

	gotFormat, frames, err := ReadWAVFile(path, DefaultFrameSize)
	if err != nil {
		t.Fatalf("ReadWAVFile: %v", err)
	}
	if gotFormat.Sample != S16 {
		t.Errorf("format = %s, want s16", gotFormat.Sample)
	}
	if gotFormat.SampleRate != 44100 || gotFormat.Channels != 2 {
		t.Errorf("format = %s", gotFormat)
	}
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	for i, s := range frames[0].S16(0) {
		if s != src[i] {
			t.Errorf("sample %d = %d, want %d", i, s, src[i])
		}
	}
}

func TestWAVFrameChunking(t *testing.T) {
	format := Format{SampleRate: 8000, Channels: 1, Sample: S16}
	// 10 samples with a frame size of 4 must come back as 4+4+2.
	fr := NewFrame(format, 10)
	for i := range fr.S16(0) {
		fr.S16(0)[i] = int16(i + 1)
	}

	path := filepath.Join(t.TempDir(), "chunks.wav")
	if err := WriteWAVFile(path, format, []*Frame{fr}); err != nil {
		t.Fatalf("WriteWAVFile: %v", err)
	}

	_, frames, err := ReadWAVFile(path, 4)
	if err != nil {
		t.Fatalf("ReadWAVFile: %v", err)
	}
	wantSamples := []int{4, 4, 2}
	if len(frames) != len(wantSamples) {
		t.Fatalf("frames = %d, want %d", len(frames), len(wantSamples))
	}
	next := int16(1)
	for i, f := range frames {
		if f.Samples() != wantSamples[i] {
			t.Errorf("frame %d samples = %d, want %d", i, f.Samples(), wantSamples[i])
		}
		for _, s := range f.S16(0) {
			if s != next {
				t.Fatalf("sample order broken: got %d, want %d", s, next)
			}
			next++
		}
	}
}

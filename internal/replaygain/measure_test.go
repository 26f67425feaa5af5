package replaygain

import (
	"math"
	"testing"

	"github.com/howeecross/gainstage/internal/audio"
)

// sineFrames builds float frames holding a full-cycle sine at the given
// linear amplitude.
func sineFrames(t *testing.T, amplitude float64, samples int) []*audio.Frame {
	t.Helper()
	format := audio.Format{SampleRate: 44100, Channels: 1, Sample: audio.Float}
	fr := audio.NewFrame(format, samples)
	plane := fr.F32(0)
	for i := range plane {
		plane[i] = float32(amplitude * math.Sin(2*math.Pi*float64(i)/float64(samples)))
	}
	return []*audio.Frame{fr}
}

func TestMeasurePeak(t *testing.T) {
	info := Measure(sineFrames(t, 0.5, 44100))
	if math.Abs(info.TrackPeak-0.5) > 1e-3 {
		t.Errorf("TrackPeak = %v, want ~0.5", info.TrackPeak)
	}
}

func TestMeasureGainTracksReference(t *testing.T) {
	// A sine at amplitude a has RMS a/sqrt(2); the suggested gain must be
	// the dB distance from that RMS to the reference level.
	info := Measure(sineFrames(t, 0.25, 44100))
	rmsDB := 20 * math.Log10(0.25/math.Sqrt2)
	want := ReferenceRMS - rmsDB
	if math.Abs(info.TrackGain-want) > 0.05 {
		t.Errorf("TrackGain = %v, want ~%v", info.TrackGain, want)
	}
	if info.AlbumGain != info.TrackGain {
		t.Error("album estimate mirrors the track estimate")
	}
}

func TestMeasureS16Input(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, Sample: audio.S16}
	fr := audio.NewFrame(format, 4)
	copy(fr.S16(0), []int16{16384, -16384, 8192, -8192, 0, 0, 0, 0})
	info := Measure([]*audio.Frame{fr})
	if math.Abs(info.TrackPeak-0.5) > 1e-3 {
		t.Errorf("TrackPeak = %v, want ~0.5", info.TrackPeak)
	}
}

func TestMeasureEmptyInput(t *testing.T) {
	info := Measure(nil)
	if info.TrackPeak != 1.0 || info.TrackGain != 0 {
		t.Errorf("empty input estimate = %+v, want neutral", info)
	}
}

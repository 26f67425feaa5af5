package volume

import (
	"math"
	"testing"

	"github.com/howeecross/gainstage/internal/replaygain"
)

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "at -200 dB becomes silence", in: -200, want: 0},
		{name: "below -200 dB stays silence", in: -300, want: 0},
		{name: "0 dB is unity", in: 0, want: 1.0},
		{name: "+20 dB is 10x", in: 20, want: 10.0},
		{name: "-20 dB is 0.1x", in: -20, want: 0.1},
		{name: "+6 dB is close to 2x", in: 6.0206, want: 2.0},
		{name: "clamped at +60 dB", in: 100, want: 1000.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB(tt.in, 20.0, VolumeDBMin, VolumeDBMax)
			if math.Abs(got-tt.want) > 1e-4*math.Max(1, tt.want) {
				t.Errorf("FromDB(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromDBMonotonic(t *testing.T) {
	prev := math.Inf(-1)
	for x := -250.0; x <= 80.0; x += 0.5 {
		got := FromDB(x, 20.0, VolumeDBMin, VolumeDBMax)
		if got < prev {
			t.Fatalf("FromDB not monotonic: f(%v) = %v < previous %v", x, got, prev)
		}
		prev = got
	}
}

func TestToDBInvertsFromDB(t *testing.T) {
	for _, db := range []float64{-60, -20, -6, 0, 6, 20, 60} {
		linear := FromDB(db, 20.0, VolumeDBMin, VolumeDBMax)
		if got := ToDB(linear); math.Abs(got-db) > 1e-9 {
			t.Errorf("ToDB(FromDB(%v)) = %v", db, got)
		}
	}
	if got := ToDB(0); got != VolumeDBMin {
		t.Errorf("ToDB(0) = %v, want floor %v", got, VolumeDBMin)
	}
}

func TestSoftClip(t *testing.T) {
	// Saturates exactly at the curve limits.
	if got := SoftClip(math.Pi / 2); got != 1.0 {
		t.Errorf("SoftClip(pi/2) = %v, want 1", got)
	}
	if got := SoftClip(10); got != 1.0 {
		t.Errorf("SoftClip(10) = %v, want 1", got)
	}
	if got := SoftClip(-10); got != -1.0 {
		t.Errorf("SoftClip(-10) = %v, want -1", got)
	}
	// Passes zero through and stays strictly inside (-1, 1) before the knee.
	if got := SoftClip(0); got != 0 {
		t.Errorf("SoftClip(0) = %v, want 0", got)
	}
	for x := -1.5; x < 1.5; x += 0.01 {
		got := SoftClip(x)
		if got <= -1 || got >= 1 {
			t.Fatalf("SoftClip(%v) = %v, want inside (-1, 1)", x, got)
		}
	}
	// Monotonic over the working range.
	prev := math.Inf(-1)
	for x := -3.0; x <= 3.0; x += 0.01 {
		got := SoftClip(x)
		if got < prev {
			t.Fatalf("SoftClip not monotonic at %v", x)
		}
		prev = got
	}
}

func TestResolve(t *testing.T) {
	meta := &replaygain.Info{
		TrackGain: 12.0,
		TrackPeak: 0.5,
		AlbumGain: -3.0,
		AlbumPeak: 0.8,
	}

	tests := []struct {
		name string
		cfg  Config
		meta *replaygain.Info
		want float64
	}{
		{
			name: "no replaygain wanted",
			cfg:  Config{},
			meta: meta,
			want: 1.0,
		},
		{
			name: "track gain with clip prevention",
			cfg:  Config{ReplayGainTrack: true},
			meta: meta,
			// +12 dB would be ~3.98; the 0.5 peak caps it at 2.0
			want: 2.0,
		},
		{
			name: "track gain clipping allowed",
			cfg:  Config{ReplayGainTrack: true, AllowClipping: true, Preamp: 6},
			meta: meta,
			// +18 dB, no peak cap
			want: math.Pow(10, 18.0/20.0),
		},
		{
			name: "track wins over album when both set",
			cfg:  Config{ReplayGainTrack: true, ReplayGainAlbum: true},
			meta: meta,
			want: 2.0,
		},
		{
			name: "album gain",
			cfg:  Config{ReplayGainAlbum: true},
			meta: meta,
			want: math.Pow(10, -3.0/20.0),
		},
		{
			name: "preamp added before conversion",
			cfg:  Config{ReplayGainAlbum: true, Preamp: 3},
			meta: meta,
			// -3 + 3 = 0 dB
			want: 1.0,
		},
		{
			name: "zero peak skips clip prevention",
			cfg:  Config{ReplayGainTrack: true},
			meta: &replaygain.Info{TrackGain: 6.0, TrackPeak: 0},
			want: math.Pow(10, 6.0/20.0),
		},
		{
			name: "fallback when metadata absent",
			cfg:  Config{ReplayGainTrack: true, Fallback: -6},
			meta: nil,
			want: math.Pow(10, -6.0/20.0),
		},
		{
			name: "fallback applies even without replaygain mode",
			cfg:  Config{Fallback: -6},
			meta: meta,
			want: math.Pow(10, -6.0/20.0),
		},
		{
			name: "no metadata, no fallback",
			cfg:  Config{ReplayGainTrack: true},
			meta: nil,
			want: 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cfg, tt.meta)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigClamped(t *testing.T) {
	cfg := Config{VolumeDB: 120, Preamp: -40, Fallback: -500}.clamped()
	if cfg.VolumeDB != VolumeDBMax {
		t.Errorf("VolumeDB = %v, want %v", cfg.VolumeDB, VolumeDBMax)
	}
	if cfg.Preamp != PreampMin {
		t.Errorf("Preamp = %v, want %v", cfg.Preamp, PreampMin)
	}
	if cfg.Fallback != VolumeDBMin {
		t.Errorf("Fallback = %v, want %v", cfg.Fallback, VolumeDBMin)
	}
}

package replaygain

import (
	"math"

	"github.com/howeecross/gainstage/internal/audio"
)

// ReferenceRMS is the RMS level (dBFS) treated as the target loudness when
// estimating gain for untagged files. The ReplayGain reference (89 dB SPL)
// sits close to -14 dBFS RMS for typical programme material; a proper
// implementation would apply equal-loudness filtering first, so values from
// Measure are an estimate, not a full ReplayGain analysis.
const ReferenceRMS = -14.0

// Measure scans frames and produces a track-only replaygain estimate:
// TrackPeak is the exact sample peak, TrackGain the dB adjustment that would
// bring the RMS level to ReferenceRMS.
func Measure(frames []*audio.Frame) Info {
	var (
		peak  float64
		sumSq float64
		count int
	)
	for _, fr := range frames {
		for p := 0; p < fr.Planes(); p++ {
			if fr.Format().Sample.IsFloat() {
				for _, s := range fr.F32(p) {
					accumulate(float64(s), &peak, &sumSq)
				}
				count += len(fr.F32(p))
			} else {
				for _, s := range fr.S16(p) {
					accumulate(float64(s)/32768.0, &peak, &sumSq)
				}
				count += len(fr.S16(p))
			}
		}
	}

	info := Info{TrackPeak: peak, AlbumPeak: peak}
	if count == 0 || sumSq == 0 {
		info.TrackPeak = 1.0
		info.AlbumPeak = 1.0
		return info
	}
	rmsDB := 20 * math.Log10(math.Sqrt(sumSq/float64(count)))
	info.TrackGain = ReferenceRMS - rmsDB
	info.AlbumGain = info.TrackGain
	return info
}

func accumulate(x float64, peak, sumSq *float64) {
	if a := math.Abs(x); a > *peak {
		*peak = a
	}
	*sumSq += x * x
}

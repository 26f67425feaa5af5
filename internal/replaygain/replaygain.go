// Package replaygain models the loudness-normalisation metadata attached to
// a stream by an external analysis step: per-track and per-album gain (dB)
// and peak amplitude (linear).
package replaygain

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Info is one replaygain record. Gains are in dB, peaks are linear sample
// amplitudes in (0, 1]. Absence of a record (a nil *Info) is a valid state.
type Info struct {
	TrackGain float64
	TrackPeak float64
	AlbumGain float64
	AlbumPeak float64
}

// Tag keys as written by common taggers. Matching is case-insensitive.
const (
	TagTrackGain = "REPLAYGAIN_TRACK_GAIN"
	TagTrackPeak = "REPLAYGAIN_TRACK_PEAK"
	TagAlbumGain = "REPLAYGAIN_ALBUM_GAIN"
	TagAlbumPeak = "REPLAYGAIN_ALBUM_PEAK"
)

// ParseTags extracts a replaygain record from a tag map. It returns nil and
// false when neither a track nor an album gain is present; peak values
// default to 1.0 (full scale) so clip prevention stays a no-op when a tagger
// omitted them.
func ParseTags(tags map[string]string) (*Info, bool) {
	norm := make(map[string]string, len(tags))
	for k, v := range tags {
		norm[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	info := &Info{TrackPeak: 1.0, AlbumPeak: 1.0}
	haveGain := false
	if v, ok := parseValue(norm[TagTrackGain]); ok {
		info.TrackGain = v
		haveGain = true
	}
	if v, ok := parseValue(norm[TagAlbumGain]); ok {
		info.AlbumGain = v
		haveGain = true
	}
	if !haveGain {
		return nil, false
	}
	if v, ok := parseValue(norm[TagTrackPeak]); ok {
		info.TrackPeak = v
	}
	if v, ok := parseValue(norm[TagAlbumPeak]); ok {
		info.AlbumPeak = v
	}
	return info, true
}

// parseValue parses a tag value such as "-6.54 dB" or "0.988547".
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "dB")
	s = strings.TrimSuffix(s, "db")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadSidecar loads replaygain tags from a KEY=VALUE sidecar file, the
// conventional workaround for containers (like WAV) that carry no replaygain
// tags of their own. A missing file is not an error; it simply means no
// metadata is available.
func ReadSidecar(path string) (*Info, error) {
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open sidecar %s: %w", path, err)
	}
	defer fh.Close()

	tags := make(map[string]string)
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		tags[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}

	info, ok := ParseTags(tags)
	if !ok {
		return nil, nil
	}
	return info, nil
}

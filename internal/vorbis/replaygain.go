package vorbis

import (
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// ReplayGain returns the REPLAYGAIN_* fields. The second result is false
// when none is present.
func (t *Tag) ReplayGain() (types.ReplayGainInfo, bool) {
	var (
		rg    types.ReplayGainInfo
		found bool
	)
	if v, ok := t.Text(types.ItemKeyReplayGainTrackGain); ok {
		rg.TrackGain, found = parseReplayGainValue(v), true
	}
	if v, ok := t.Text(types.ItemKeyReplayGainTrackPeak); ok {
		rg.TrackPeak, found = parseReplayGainPeak(v), true
	}
	if v, ok := t.Text(types.ItemKeyReplayGainAlbumGain); ok {
		rg.AlbumGain, found = parseReplayGainValue(v), true
	}
	if v, ok := t.Text(types.ItemKeyReplayGainAlbumPeak); ok {
		rg.AlbumPeak, found = parseReplayGainPeak(v), true
	}
	return rg, found
}

// SetReplayGain writes all four REPLAYGAIN_* fields in the conventional
// "%.2f dB" and "%.6f" forms.
func (t *Tag) SetReplayGain(rg types.ReplayGainInfo) {
	t.SetText(types.ItemKeyReplayGainTrackGain, formatReplayGainValue(rg.TrackGain))
	t.SetText(types.ItemKeyReplayGainTrackPeak, strconv.FormatFloat(rg.TrackPeak, 'f', 6, 64))
	t.SetText(types.ItemKeyReplayGainAlbumGain, formatReplayGainValue(rg.AlbumGain))
	t.SetText(types.ItemKeyReplayGainAlbumPeak, strconv.FormatFloat(rg.AlbumPeak, 'f', 6, 64))
}

func formatReplayGainValue(gain float64) string {
	return strconv.FormatFloat(gain, 'f', 2, 64) + " dB"
}

// parseReplayGainValue parses a ReplayGain gain value like "-6.50 dB" or "-6.50".
func parseReplayGainValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, " dB")
	s = strings.TrimSuffix(s, "dB")
	s = strings.TrimSpace(s)
	val, _ := strconv.ParseFloat(s, 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}

// parseReplayGainPeak parses a ReplayGain peak value like "0.988127".
func parseReplayGainPeak(s string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(s), 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}

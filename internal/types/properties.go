package types

import (
	"fmt"
	"math"
	"time"
)

// Properties are the stream properties derived from FLAC STREAMINFO.
type Properties struct {
	Duration time.Duration

	// Bitrates in kbps. OverallBitrate counts the whole file, AudioBitrate
	// only the audio frames.
	OverallBitrate uint32
	AudioBitrate   uint32

	SampleRate   uint32
	TotalSamples uint64
	BitDepth     uint8
	Channels     uint8

	// MD5 of the unencoded audio data, all zero when not computed.
	Signature [16]byte
}

// String returns a human-readable representation.
// Example output: "44.1kHz 16-bit stereo 1411kbps".
func (p Properties) String() string {
	parts := []string{fmt.Sprintf("%.1fkHz", float64(p.SampleRate)/1000)}
	if p.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", p.BitDepth))
	}
	parts = append(parts, channelDescription(int(p.Channels)))
	if p.AudioBitrate > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", p.AudioBitrate))
	}
	return join(parts, " ")
}

// IsHighRes returns true if the audio is high-resolution.
//
// High-resolution is defined as:
//   - Sample rate > 48kHz, OR
//   - Bit depth > 16
func (p Properties) IsHighRes() bool {
	return p.SampleRate > 48000 || p.BitDepth > 16
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	var result string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += part
	}
	return result
}

// ReplayGainInfo represents loudness normalization data.
//
// See https://wiki.hydrogenaud.io/index.php?title=ReplayGain
type ReplayGainInfo struct {
	TrackGain float64 // dB, can be negative
	TrackPeak float64 // amplitude, 0.0 to 1.0+
	AlbumGain float64
	AlbumPeak float64
}

// Apply applies the track or album adjustment to an amplitude.
//
// mode should be "track" or "album". Without a peak the amplitude is
// returned unchanged.
func (r ReplayGainInfo) Apply(amplitude float64, mode string) float64 {
	gain, peak := r.TrackGain, r.TrackPeak
	if mode == "album" {
		gain, peak = r.AlbumGain, r.AlbumPeak
	}
	if peak == 0 {
		return amplitude
	}

	adjusted := amplitude * math.Pow(10, gain/20.0)

	// Prevent clipping
	if adjusted > 1.0/peak {
		adjusted = 1.0 / peak
	}
	return adjusted
}

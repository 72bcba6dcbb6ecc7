package flac

import (
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// readProperties decodes STREAMINFO. streamLength is the size of the audio
// frames and fileLength the size of the whole file, both used for bitrates.
//
// Layout (big-endian): min/max block size (16 bits each), min/max frame
// size (24 bits each), then a packed 64-bit word holding the sample rate
// (20 bits), channels - 1 (3 bits), bits per sample - 1 (5 bits) and the
// total sample count (36 bits), then the 16-byte MD5 signature.
func readProperties(streamInfo []byte, streamLength, fileLength int64) types.Properties {
	packed := binary.Decode[uint64](streamInfo[10:18], binary.BigEndian)

	props := types.Properties{
		SampleRate:   uint32((packed >> 44) & 0xFFFFF),
		Channels:     uint8((packed>>41)&0x7) + 1,
		BitDepth:     uint8((packed>>36)&0x1F) + 1,
		TotalSamples: packed & 0xFFFFFFFFF,
	}
	if len(streamInfo) >= 34 {
		copy(props.Signature[:], streamInfo[18:34])
	}

	if props.SampleRate == 0 || props.TotalSamples == 0 {
		return props
	}

	seconds := float64(props.TotalSamples) / float64(props.SampleRate)
	props.Duration = time.Duration(seconds * float64(time.Second))

	// bits per millisecond is kbps
	millis := props.TotalSamples * 1000 / uint64(props.SampleRate)
	if millis > 0 {
		if fileLength > 0 {
			props.OverallBitrate = uint32(uint64(fileLength) * 8 / millis)
		}
		if streamLength > 0 {
			props.AudioBitrate = uint32(uint64(streamLength) * 8 / millis)
		}
	}
	return props
}

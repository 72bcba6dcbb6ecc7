package flac

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	cueHeaderSize = 396 // MCN, lead-in, flags + reserved, track count
	cueTrackSize  = 36
	cueIndexSize  = 12
	leadOutTrack  = 170
)

// CueSheet is a decoded CUESHEET block.
type CueSheet struct {
	MediaCatalogNumber string
	Tracks             []CueTrack
	LeadIn             uint64
	IsCD               bool
}

// CueTrack is one track of a cue sheet.
type CueTrack struct {
	ISRC        string
	Indices     []CueIndex
	Offset      uint64 // samples from start of audio
	Number      byte   // 1-99, 170 = lead-out
	IsAudio     bool
	PreEmphasis bool
}

// CueIndex is an index point within a track.
type CueIndex struct {
	Offset uint64 // samples from start of track
	Number byte
}

// ParseCueSheet decodes a CUESHEET block payload.
func ParseCueSheet(data []byte) (*CueSheet, error) {
	if len(data) < cueHeaderSize {
		return nil, types.ContainerErrorf(types.FormatFLAC, types.ErrSizeMismatch,
			"CUESHEET block too short: %d bytes (need at least %d)", len(data), cueHeaderSize)
	}

	cr := binary.NewChainReader(binary.NewStreamReader(bytes.NewReader(data)), binary.BigEndian)
	mcn := cr.Bytes(128, "media catalog number")
	leadIn := binary.ReadChained[uint64](cr, "lead-in samples")
	flags := cr.Bytes(259, "cuesheet flags")
	trackCount := binary.ReadChained[uint8](cr, "track count")
	if err := cr.Error(); err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}

	sheet := &CueSheet{
		MediaCatalogNumber: strings.TrimRight(string(mcn), "\x00"),
		LeadIn:             leadIn,
		IsCD:               flags[0]&0x80 != 0,
		Tracks:             make([]CueTrack, 0, trackCount),
	}

	rest := data[cueHeaderSize:]
	for i := range int(trackCount) {
		track, n, err := parseCueTrack(rest)
		if err != nil {
			return nil, fmt.Errorf("flac: parse track %d: %w", i, err)
		}
		sheet.Tracks = append(sheet.Tracks, track)
		rest = rest[n:]
	}

	return sheet, nil
}

// parseCueTrack decodes one track record and returns the bytes consumed.
func parseCueTrack(data []byte) (CueTrack, int, error) {
	if len(data) < cueTrackSize {
		return CueTrack{}, 0, types.ContainerErrorf(types.FormatFLAC, types.ErrSizeMismatch, "CUESHEET track data exceeds block bounds")
	}

	cr := binary.NewChainReader(binary.NewStreamReader(bytes.NewReader(data)), binary.BigEndian)
	offset := binary.ReadChained[uint64](cr, "track offset")
	number := binary.ReadChained[uint8](cr, "track number")
	isrc := cr.Bytes(12, "ISRC")
	flags := cr.Bytes(14, "track flags")
	indexCount := binary.ReadChained[uint8](cr, "index count")
	if err := cr.Error(); err != nil {
		return CueTrack{}, 0, err
	}

	track := CueTrack{
		Offset:      offset,
		Number:      number,
		ISRC:        strings.TrimRight(string(isrc), "\x00"),
		IsAudio:     flags[0]&0x80 == 0,
		PreEmphasis: flags[0]&0x40 != 0,
		Indices:     make([]CueIndex, 0, indexCount),
	}

	pos := cueTrackSize
	for range int(indexCount) {
		if len(data)-pos < cueIndexSize {
			return CueTrack{}, 0, types.ContainerErrorf(types.FormatFLAC, types.ErrSizeMismatch, "CUESHEET index data exceeds block bounds")
		}
		b := data[pos : pos+cueIndexSize]
		track.Indices = append(track.Indices, CueIndex{
			Offset: binary.Decode[uint64](b[:8], binary.BigEndian),
			Number: b[8],
		})
		pos += cueIndexSize
	}

	return track, pos, nil
}

// start returns the track's INDEX 01 position, or its offset when the
// track has no such index.
func (t CueTrack) start() uint64 {
	for _, idx := range t.Indices {
		if idx.Number == 1 {
			return t.Offset + idx.Offset
		}
	}
	return t.Offset
}

// Chapters converts the audio tracks of the cue sheet to chapters. The
// lead-out track ends the last chapter.
func (c *CueSheet) Chapters(sampleRate uint32) []types.Chapter {
	if c == nil || sampleRate == 0 {
		return nil
	}

	var audioTracks []CueTrack
	var leadOut uint64
	for _, track := range c.Tracks {
		switch {
		case track.Number == leadOutTrack:
			leadOut = track.Offset
		case track.IsAudio:
			audioTracks = append(audioTracks, track)
		}
	}
	if len(audioTracks) == 0 {
		return nil
	}

	toDuration := func(samples uint64) time.Duration {
		return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
	}

	chapters := make([]types.Chapter, len(audioTracks))
	for i, track := range audioTracks {
		var end time.Duration
		if i < len(audioTracks)-1 {
			end = toDuration(audioTracks[i+1].start())
		} else if leadOut > 0 {
			end = toDuration(leadOut)
		}

		title := fmt.Sprintf("Track %02d", track.Number)
		if track.ISRC != "" {
			title = fmt.Sprintf("Track %02d (%s)", track.Number, track.ISRC)
		}

		chapters[i] = types.Chapter{
			Index:     i + 1,
			Title:     title,
			StartTime: toDuration(track.start()),
			EndTime:   end,
		}
	}
	return chapters
}

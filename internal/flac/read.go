package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// File is the metadata of a FLAC stream.
type File struct {
	// ID3v2 is a tag found before the stream marker. It is kept for
	// reading only; Write copies its bytes unchanged.
	ID3v2 *id3v2.Tag

	// Vorbis is the Vorbis Comment block, nil when the stream has none.
	Vorbis *vorbis.Tag

	// CueSheet is the decoded CUESHEET block, if any.
	CueSheet *CueSheet

	// Pictures from PICTURE blocks, in stream order.
	Pictures []types.Picture

	// StreamInfo is the mandatory first block.
	StreamInfo Block

	// Blocks are the other blocks preserved on write: APPLICATION,
	// SEEKTABLE, CUESHEET and unknown types. Tag blocks and padding are
	// not kept.
	Blocks []Block

	Properties types.Properties

	// WriteOptions are used when the stream is written through the
	// format registry.
	WriteOptions WriteOptions

	// MarkerOffset is the offset of "fLaC", non-zero when an ID3v2 tag
	// comes first. AudioStart is the offset of the first audio frame and
	// AudioEnd the end of the stream, zero when unknown.
	MarkerOffset int64
	AudioStart   int64
	AudioEnd     int64
}

// Read parses the FLAC metadata of the stream at the current position of
// r, which must be the start of the file.
//
// A missing marker or STREAMINFO and truncated blocks are fatal in every
// mode. Invalid Vorbis fields, pictures and a second Vorbis Comment block
// are fatal only in strict mode.
func Read(r io.ReadSeeker, opts types.ParseOptions) (*File, error) {
	log := opts.Log()
	f := &File{WriteOptions: DefaultWriteOptions()}

	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}

	s := binary.NewStreamReader(r)
	marker, err := s.Bytes(len(Marker), "stream marker")
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}

	if id3v2.HasTag(marker) {
		if _, err := r.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("flac: %w", err)
		}
		tag, err := id3v2.Read(r, opts)
		if err != nil {
			return nil, err
		}
		log.Warn("flac: found an ID3v2 tag, it will not be rewritten", "frames", tag.Len())
		f.ID3v2 = tag

		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("flac: %w", err)
		}
		f.MarkerOffset = pos - start

		s = binary.NewStreamReader(r)
		if marker, err = s.Bytes(len(Marker), "stream marker"); err != nil {
			return nil, fmt.Errorf("flac: %w", err)
		}
	}

	if string(marker) != Marker {
		return nil, types.ContainerErrorf(types.FormatFLAC, nil, `missing "fLaC" stream marker`)
	}

	info, err := readBlock(s)
	if err != nil {
		return nil, err
	}
	if info.Type != BlockStreamInfo {
		return nil, types.ContainerErrorf(types.FormatFLAC, nil, "missing mandatory STREAMINFO block")
	}
	if len(info.Content) < minStreamInfoSize {
		return nil, types.ContainerErrorf(types.FormatFLAC, types.ErrSizeMismatch,
			"invalid STREAMINFO block size %d (< %d)", len(info.Content), minStreamInfoSize)
	}
	f.StreamInfo = info

	for last := info.Last; !last; {
		block, err := readBlock(s)
		if err != nil {
			return nil, err
		}
		last = block.Last

		if len(block.Content) == 0 && block.Type != BlockPadding && block.Type != BlockSeekTable {
			return nil, types.ContainerErrorf(types.FormatFLAC, nil, "zero-sized metadata block of type %d", block.Type)
		}

		if err := f.addBlock(block, opts); err != nil {
			return nil, err
		}
	}

	f.AudioStart = f.MarkerOffset + s.Consumed()

	if !opts.ReadProperties {
		return f, nil
	}

	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	fileLength := end - start
	f.AudioEnd = fileLength
	f.Properties = readProperties(info.Content, fileLength-f.AudioStart, fileLength)

	return f, nil
}

// addBlock files a block under the field it belongs to.
func (f *File) addBlock(block Block, opts types.ParseOptions) error {
	log := opts.Log()

	switch block.Type {
	case BlockVorbisComment:
		log.Debug("flac: parsing Vorbis Comment block", "size", len(block.Content))
		if f.Vorbis != nil {
			if opts.IsStrict() {
				return types.ContainerErrorf(types.FormatFLAC, nil, "streams are only allowed one Vorbis Comment block")
			}
			log.Warn("flac: found a second Vorbis Comment block, keeping the latest")
		}
		tag, err := vorbis.Parse(block.Content, opts)
		if err != nil {
			return err
		}
		f.Vorbis = tag

	case BlockPicture:
		log.Debug("flac: parsing picture block", "size", len(block.Content))
		pic, err := vorbis.DecodePicture(block.Content)
		if err != nil {
			if opts.IsStrict() {
				return err
			}
			log.Warn("flac: discarding unreadable picture block", "error", err)
			return nil
		}
		f.Pictures = append(f.Pictures, pic)

	case BlockPadding:
		// dropped, Write adds fresh padding

	case BlockCueSheet:
		sheet, err := ParseCueSheet(block.Content)
		if err != nil {
			log.Warn("flac: ignoring unreadable CUESHEET block", "error", err)
		} else {
			f.CueSheet = sheet
		}
		f.Blocks = append(f.Blocks, block)

	default:
		f.Blocks = append(f.Blocks, block)
	}
	return nil
}

// Chapters returns chapters from the cue sheet, falling back to
// CHAPTERxxx Vorbis comments.
func (f *File) Chapters() []types.Chapter {
	props := f.Properties
	if props.SampleRate == 0 && len(f.StreamInfo.Content) >= minStreamInfoSize {
		props = readProperties(f.StreamInfo.Content, 0, 0)
	}
	if chapters := f.CueSheet.Chapters(props.SampleRate); len(chapters) > 0 {
		return chapters
	}
	if f.Vorbis != nil {
		return f.Vorbis.Chapters(props.Duration)
	}
	return nil
}

package types

import (
	"io"

	"github.com/simonhull/audiotag/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatFLAC represents FLAC files, with or without a leading ID3v2 tag.
	FormatFLAC
	// FormatMP3 represents MPEG audio with ID3v2 and/or APE tags.
	FormatMP3
	// FormatAPE represents Monkey's Audio files and bare APE tag streams.
	FormatAPE
)

func (f Format) String() string {
	switch f {
	case FormatFLAC:
		return "FLAC"
	case FormatMP3:
		return "MP3"
	case FormatAPE:
		return "APE"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatMP3:
		return []string{".mp3"}
	case FormatAPE:
		return []string{".ape", ".apl"}
	default:
		return nil
	}
}

// DetectFormat determines the container format by examining magic bytes.
//
// Supported formats: FLAC, MP3, APE
//
// A leading ID3v2 tag is skipped before deciding, so ID3-prefixed FLAC is
// reported as FLAC. Detection does not validate the rest of the file.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	// File must be at least 4 bytes for any meaningful detection
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if string(magic[:3]) == "ID3" {
		// Look past the tag: FLAC files are sometimes prefixed with one.
		if end, ok := id3v2End(sr); ok && end+4 <= size {
			next := make([]byte, 4)
			if err := sr.ReadAt(next, end, "post-ID3v2 magic"); err == nil && string(next) == "fLaC" {
				return FormatFLAC, nil
			}
		}
		return FormatMP3, nil
	}

	switch string(magic) {
	case "fLaC":
		return FormatFLAC, nil
	case "MAC ":
		return FormatAPE, nil
	case "APET":
		preamble := make([]byte, 8)
		if err := sr.ReadAt(preamble, 0, "APE preamble"); err == nil && string(preamble) == "APETAGEX" {
			return FormatAPE, nil
		}
	}

	// MP3 frame sync (11 set bits) catches files without an ID3 tag
	if sync, err := binary.ReadBE[uint16](sr, 0, "frame sync"); err == nil && sync&0xFFE0 == 0xFFE0 {
		return FormatMP3, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}

// id3v2End returns the offset just past an ID3v2 tag at the start of sr.
func id3v2End(sr *binary.SafeReader) (int64, bool) {
	flags, err := binary.ReadBE[uint8](sr, 5, "ID3v2 flags")
	if err != nil {
		return 0, false
	}
	raw, err := binary.ReadBE[uint32](sr, 6, "ID3v2 size")
	if err != nil || raw&0x80808080 != 0 {
		return 0, false
	}
	size := int64(raw&0x7F | raw>>8&0x7F<<7 | raw>>16&0x7F<<14 | raw>>24&0x7F<<21)
	end := 10 + size
	if flags&0x10 != 0 {
		end += 10 // footer
	}
	return end, true
}

// Package id3v2 reads and writes ID3v2.2, ID3v2.3 and ID3v2.4 tags.
//
// Frames are decoded into a closed set of frame kinds. ID3v2.2 frame IDs
// are upgraded to their ID3v2.4 equivalents on read; tags are written as
// ID3v2.4 or ID3v2.3.
package id3v2

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// HeaderSize is the size of the tag header and of the optional footer.
const HeaderSize = 10

// Version is the major version of a tag.
type Version uint8

const (
	V22 Version = 2
	V23 Version = 3
	V24 Version = 4
)

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d", uint8(v))
}

// HeaderFlags are the tag-level flags.
type HeaderFlags struct {
	Unsynchronisation bool
	ExtendedHeader    bool
	Experimental      bool
	Footer            bool
}

// Header is a decoded tag header.
type Header struct {
	Flags HeaderFlags

	// Size of the tag after the header, footer excluded.
	Size uint32

	// ExtendedSize is the number of bytes of Size taken by the extended
	// header, which is skipped.
	ExtendedSize uint32

	Version  Version
	Revision uint8
}

// TagSize returns the full on-disk size of the tag.
func (h Header) TagSize() int64 {
	size := int64(HeaderSize) + int64(h.Size)
	if h.Flags.Footer {
		size += HeaderSize
	}
	return size
}

// HasTag reports whether b starts with an ID3v2 identifier.
func HasTag(b []byte) bool {
	return len(b) >= 3 && string(b[:3]) == "ID3"
}

// ReadHeader reads the 10-byte header and, when flagged, the extended
// header that follows it.
func ReadHeader(r io.Reader) (Header, error) {
	s := binary.NewStreamReader(r)
	buf, err := s.Bytes(HeaderSize, "ID3v2 header")
	if err != nil {
		return Header{}, fmt.Errorf("id3v2: %w", err)
	}
	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, err
	}
	if !h.Flags.ExtendedHeader {
		return h, nil
	}

	extSize, err := readExtendedHeader(s, h.Version)
	if err != nil {
		return Header{}, err
	}
	if extSize > h.Size {
		return Header{}, &types.DecodeError{
			Format: types.TagTypeID3v2,
			Reason: fmt.Sprintf("extended header size %d exceeds tag size %d", extSize, h.Size),
			Err:    types.ErrSizeMismatch,
		}
	}
	h.ExtendedSize = extSize
	return h, nil
}

// ParseHeader decodes the fixed 10-byte header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize || !HasTag(b) {
		return Header{}, types.Decodef(types.TagTypeID3v2, "missing \"ID3\" identifier")
	}

	version := Version(b[3])
	switch version {
	case V22, V23, V24:
	default:
		return Header{}, types.Decodef(types.TagTypeID3v2, "unsupported major version 2.%d", b[3])
	}

	flags := b[5]
	if version == V22 && flags&0x40 != 0 {
		return Header{}, types.Decodef(types.TagTypeID3v2, "compressed ID3v2.2 tags are not supported")
	}

	size, err := DecodeSynchsafe(b[6:10])
	if err != nil {
		return Header{}, err
	}

	return Header{
		Version:  version,
		Revision: b[4],
		Flags: HeaderFlags{
			Unsynchronisation: flags&0x80 != 0,
			ExtendedHeader:    version != V22 && flags&0x40 != 0,
			Experimental:      flags&0x20 != 0,
			Footer:            version == V24 && flags&0x10 != 0,
		},
		Size: size,
	}, nil
}

// readExtendedHeader skips the extended header and returns its full size.
//
// ID3v2.3 stores a plain size that excludes the 4 size bytes; ID3v2.4
// stores a synchsafe size that includes them.
func readExtendedHeader(s *binary.StreamReader, version Version) (uint32, error) {
	raw, err := s.Bytes(4, "extended header size")
	if err != nil {
		return 0, fmt.Errorf("id3v2: %w", err)
	}

	var size uint32
	if version == V24 {
		if size, err = DecodeSynchsafe(raw); err != nil {
			return 0, err
		}
		if size < 6 {
			return 0, types.Decodef(types.TagTypeID3v2, "extended header size %d too small", size)
		}
	} else {
		size = binary.Decode[uint32](raw, binary.BigEndian) + 4
	}

	if n, err := s.Discard(int64(size - 4)); err != nil || n != int64(size-4) {
		return 0, fmt.Errorf("id3v2: skip extended header: %w", types.ErrBadFrameLength)
	}
	return size, nil
}

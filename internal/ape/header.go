// Package ape reads and writes APEv2 tags.
//
// An APE tag is a case-insensitively keyed list of items wrapped in a
// 32-byte header and a 32-byte footer, both starting with the preamble
// "APETAGEX". All integers are little-endian.
package ape

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Preamble opens both the header and the footer.
const Preamble = "APETAGEX"

const (
	// HeaderSize is the size of the header and of the footer.
	HeaderSize = 32

	// Version2 is written by this package. Version 1000 tags have no
	// header and no binary items but are otherwise read the same way.
	Version2 = 2000

	// minItemSize is value size + flags + 2-byte key + NUL + 1 byte value.
	minItemSize = 11
)

// Header and footer flags.
const (
	FlagReadOnly  = 1 << 0
	FlagIsHeader  = 1 << 29
	FlagNoFooter  = 1 << 30
	FlagHasHeader = 1 << 31
)

// Header is the decoded header or footer of an APE tag.
type Header struct {
	Version uint32

	// Size counts the items and the footer, not the header.
	Size uint32

	ItemCount uint32
	Flags     uint32
}

// ItemsSize returns the number of bytes taken by the item records.
func (h Header) ItemsSize() uint32 {
	return h.Size - HeaderSize
}

// HasHeader reports whether the tag carries a leading header.
func (h Header) HasHeader() bool { return h.Flags&FlagHasHeader != 0 }

// IsHeader reports whether this block is the header rather than the footer.
func (h Header) IsHeader() bool { return h.Flags&FlagIsHeader != 0 }

// ReadOnly reports the tag-level read-only flag.
func (h Header) ReadOnly() bool { return h.Flags&FlagReadOnly != 0 }

// TagSize returns the full on-disk size, header included when present.
func (h Header) TagSize() int64 {
	size := int64(h.Size)
	if h.HasHeader() {
		size += HeaderSize
	}
	return size
}

// readHeader parses the 24 bytes that follow the preamble.
func readHeader(s *binary.StreamReader) (Header, error) {
	cr := binary.NewChainReader(s, binary.LittleEndian)
	h := Header{
		Version:   binary.ReadChained[uint32](cr, "APE version"),
		Size:      binary.ReadChained[uint32](cr, "APE tag size"),
		ItemCount: binary.ReadChained[uint32](cr, "APE item count"),
		Flags:     binary.ReadChained[uint32](cr, "APE flags"),
	}
	cr.Bytes(8, "APE reserved bytes")
	if err := cr.Error(); err != nil {
		return Header{}, fmt.Errorf("ape: %w", err)
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) validate() error {
	if h.Size < HeaderSize {
		return types.Decodef(types.TagTypeAPE, "invalid tag size %d (< %d)", h.Size, HeaderSize)
	}
	return nil
}

// appendHeader encodes a header (isHeader) or footer for a tag whose items
// take itemsSize bytes.
func appendHeader(buf []byte, itemsSize, count uint32, readOnly, isHeader bool) []byte {
	flags := uint32(FlagHasHeader)
	if isHeader {
		flags |= FlagIsHeader
	}
	if readOnly {
		flags |= FlagReadOnly
	}

	buf = append(buf, Preamble...)
	buf = binary.Encode(buf, uint32(Version2), binary.LittleEndian)
	buf = binary.Encode(buf, itemsSize+HeaderSize, binary.LittleEndian)
	buf = binary.Encode(buf, count, binary.LittleEndian)
	buf = binary.Encode(buf, flags, binary.LittleEndian)
	return append(buf, make([]byte, 8)...)
}

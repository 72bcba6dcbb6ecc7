// Package flac reads and writes the FLAC metadata block chain.
//
// Vorbis Comment payloads are handled by the vorbis package and PICTURE
// payloads by vorbis.DecodePicture; this package only walks the chain,
// extracts stream properties and re-emits the blocks on write.
package flac

import (
	"fmt"

	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Marker is the stream marker that starts every FLAC stream.
const Marker = "fLaC"

const (
	blockHeaderSize = 4

	// maxBlockSize is the largest length a 24-bit block header can carry.
	maxBlockSize = 1<<24 - 1

	// minStreamInfoSize covers the fields up to and including the total
	// sample count.
	minStreamInfoSize = 18
)

// BlockType is the 7-bit metadata block type.
type BlockType = goflac.BlockType

// Block types, re-exported from go-flac.
const (
	BlockStreamInfo    = goflac.StreamInfo
	BlockPadding       = goflac.Padding
	BlockApplication   = goflac.Application
	BlockSeekTable     = goflac.SeekTable
	BlockVorbisComment = goflac.VorbisComment
	BlockCueSheet      = goflac.CueSheet
	BlockPicture       = goflac.Picture
)

// BlockName returns the name the FLAC format gives a block type.
func BlockName(t BlockType) string {
	switch t {
	case BlockStreamInfo:
		return "STREAMINFO"
	case BlockPadding:
		return "PADDING"
	case BlockApplication:
		return "APPLICATION"
	case BlockSeekTable:
		return "SEEKTABLE"
	case BlockVorbisComment:
		return "VORBIS_COMMENT"
	case BlockCueSheet:
		return "CUESHEET"
	case BlockPicture:
		return "PICTURE"
	default:
		return fmt.Sprintf("RESERVED(%d)", int(t))
	}
}

// Block is one metadata block with its content read in full.
type Block struct {
	Content []byte
	Type    BlockType
	Last    bool
}

// Size returns the encoded size including the 4-byte header.
func (b Block) Size() int64 {
	return blockHeaderSize + int64(len(b.Content))
}

// readBlock reads a block header and its content.
func readBlock(s *binary.StreamReader) (Block, error) {
	var header [blockHeaderSize]byte
	if err := s.ReadFull(header[:], "block header"); err != nil {
		return Block{}, fmt.Errorf("flac: %w", err)
	}

	block := Block{
		Last: header[0]&0x80 != 0,
		Type: BlockType(header[0] & 0x7F),
	}
	if block.Type == goflac.Invalid {
		return Block{}, types.ContainerErrorf(types.FormatFLAC, nil, "invalid block type 127")
	}

	content, err := s.Bytes(int(binary.Uint24(header[1:])), "block content")
	if err != nil {
		return Block{}, fmt.Errorf("flac: %w", err)
	}
	block.Content = content
	return block, nil
}

// writeBlock writes b through go-flac's block envelope.
func writeBlock(sw *binary.SafeWriter, b Block) error {
	if len(b.Content) > maxBlockSize {
		return types.ContainerErrorf(types.FormatFLAC, types.ErrSizeMismatch,
			"block type %d is %d bytes, over the 24-bit limit", b.Type, len(b.Content))
	}
	mb := goflac.MetaDataBlock{Type: b.Type, Data: b.Content}
	return sw.WriteBytes(mb.Marshal(b.Last))
}

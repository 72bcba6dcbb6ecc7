package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// DefaultPadding is the size of the PADDING block added on write.
const DefaultPadding = 1024

// WriteOptions control the block layout produced by Write.
type WriteOptions struct {
	// Padding is the size of the trailing PADDING block. Zero writes an
	// empty one so the stream can still grow in place.
	Padding uint32
}

// DefaultWriteOptions returns the options Write uses.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Padding: DefaultPadding}
}

// Write writes f to w, taking the ID3v2 prefix and the audio frames from
// src, the file f was read from.
//
// Every prior Vorbis Comment, PICTURE and PADDING block is replaced: one
// Vorbis Comment block is written when f.Vorbis is set, then one PICTURE
// block for each of f.Pictures and of the Vorbis tag's pictures, then
// padding.
func Write(w io.Writer, src io.ReadSeeker, f *File) error {
	return WriteWithOptions(w, src, f, DefaultWriteOptions())
}

// WriteWithOptions is Write with explicit options.
func WriteWithOptions(w io.Writer, src io.ReadSeeker, f *File, opts WriteOptions) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("flac: %w", err)
	}
	if f.MarkerOffset > 0 {
		if _, err := io.CopyN(w, src, f.MarkerOffset); err != nil {
			return fmt.Errorf("flac: copy ID3v2 tag: %w", err)
		}
	}

	sw := binary.NewSafeWriter(w)
	_ = sw.WriteString(Marker)
	for _, b := range f.blocksForWrite(opts) {
		if err := writeBlock(sw, b); err != nil {
			return err
		}
	}
	if err := sw.Err(); err != nil {
		return fmt.Errorf("flac: write metadata: %w", err)
	}

	if _, err := src.Seek(f.AudioStart, io.SeekStart); err != nil {
		return fmt.Errorf("flac: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("flac: copy audio frames: %w", err)
	}
	return nil
}

// blocksForWrite lays out the metadata chain, the last block flagged.
func (f *File) blocksForWrite(opts WriteOptions) []Block {
	info := f.StreamInfo
	info.Type = BlockStreamInfo
	blocks := []Block{info}
	blocks = append(blocks, f.Blocks...)

	pictures := f.Pictures
	if f.Vorbis != nil {
		blocks = append(blocks, Block{Type: BlockVorbisComment, Content: f.Vorbis.Bytes()})
		pictures = append(pictures[:len(pictures):len(pictures)], f.Vorbis.Pictures()...)
	}
	for _, p := range pictures {
		block := vorbis.EncodePicture(p)
		blocks = append(blocks, Block{Type: BlockPicture, Content: block.Data})
	}
	blocks = append(blocks, Block{Type: BlockPadding, Content: make([]byte, opts.Padding)})

	for i := range blocks {
		blocks[i].Last = i == len(blocks)-1
	}
	return blocks
}

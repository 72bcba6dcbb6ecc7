package ape

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// id3v1Size is the size of a trailing ID3v1 tag ("TAG" + 125 bytes).
const id3v1Size = 128

// Location is the byte span of an APE tag found at the end of a file.
type Location struct {
	Header Header

	// Start is the offset of the header, or of the first item when the
	// tag has no header. End is just past the footer.
	Start int64
	End   int64

	// ItemsStart is the offset of the first item record.
	ItemsStart int64
}

// Find looks for an APE tag whose footer ends the file, or ends just
// before a trailing ID3v1 tag. ok is false when there is none.
func Find(r io.ReaderAt, size int64) (loc Location, ok bool, err error) {
	sr := binary.NewSafeReader(r, size, "")

	end := sr.Size()
	if end >= id3v1Size {
		marker := make([]byte, 3)
		if err := sr.ReadAt(marker, end-id3v1Size, "ID3v1 marker"); err != nil {
			return Location{}, false, err
		}
		if string(marker) == "TAG" {
			end -= id3v1Size
		}
	}
	if end < HeaderSize {
		return Location{}, false, nil
	}

	preamble := make([]byte, len(Preamble))
	if err := sr.ReadAt(preamble, end-HeaderSize, "APE footer"); err != nil {
		return Location{}, false, err
	}
	if string(preamble) != Preamble {
		return Location{}, false, nil
	}

	header, err := readFooter(sr, end-HeaderSize)
	if err != nil {
		return Location{}, false, err
	}

	itemsStart := end - int64(header.Size)
	start := itemsStart
	if header.HasHeader() {
		start -= HeaderSize
	}
	if start < 0 {
		return Location{}, false, &types.DecodeError{
			Format: types.TagTypeAPE,
			Reason: "footer declares a tag larger than the file",
			Err:    types.ErrSizeMismatch,
		}
	}

	return Location{
		Header:     header,
		Start:      start,
		End:        end,
		ItemsStart: itemsStart,
	}, true, nil
}

// readFooter decodes the footer fields that follow the preamble at off.
func readFooter(sr *binary.SafeReader, off int64) (Header, error) {
	var h Header
	fields := []struct {
		dst  *uint32
		what string
	}{
		{&h.Version, "APE version"},
		{&h.Size, "APE tag size"},
		{&h.ItemCount, "APE item count"},
		{&h.Flags, "APE flags"},
	}
	for i, f := range fields {
		v, err := binary.ReadLE[uint32](sr, off+int64(len(Preamble)+4*i), f.what)
		if err != nil {
			return Header{}, fmt.Errorf("ape: %w", err)
		}
		*f.dst = v
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// ReadAt parses the tag described by loc.
func ReadAt(r io.ReaderAt, loc Location, opts types.ParseOptions) (*Tag, error) {
	section := io.NewSectionReader(r, loc.ItemsStart, loc.End-loc.ItemsStart)
	return ReadWithHeader(section, loc.Header, opts)
}

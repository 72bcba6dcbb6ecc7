package id3v2

import (
	"bytes"
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// DecodeSynchsafe decodes a 4-byte synchsafe integer (7 bits per byte).
// A byte with its high bit set is a decode error.
func DecodeSynchsafe(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, types.Decodef(types.TagTypeID3v2, "synchsafe integer needs 4 bytes, got %d", len(b))
	}
	var v uint32
	for _, c := range b {
		if c&0x80 != 0 {
			return 0, types.Decodef(types.TagTypeID3v2, "invalid synchsafe integer % x", b)
		}
		v = v<<7 | uint32(c)
	}
	return v, nil
}

// EncodeSynchsafe encodes v, which must fit in 28 bits.
func EncodeSynchsafe(v uint32) ([4]byte, error) {
	if v >= 1<<28 {
		return [4]byte{}, types.Decodef(types.TagTypeID3v2, "size %d too large for a synchsafe integer", v)
	}
	return [4]byte{
		byte(v>>21) & 0x7F,
		byte(v>>14) & 0x7F,
		byte(v>>7) & 0x7F,
		byte(v) & 0x7F,
	}, nil
}

// decodeFrameSize decodes an ID3v2.4 frame size. Some writers store plain
// big-endian sizes in ID3v2.4 frames; those are accepted as-is.
func decodeFrameSize(b []byte) uint32 {
	if v, err := DecodeSynchsafe(b); err == nil {
		return v
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// UnsynchronizedReader undoes unsynchronisation on the fly, collapsing
// every FF 00 into FF. A pair split across two Read calls is handled.
type UnsynchronizedReader struct {
	r      io.Reader
	lastFF bool
}

// NewUnsynchronizedReader wraps r.
func NewUnsynchronizedReader(r io.Reader) *UnsynchronizedReader {
	return &UnsynchronizedReader{r: r}
}

// Read implements io.Reader.
func (u *UnsynchronizedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := u.r.Read(p)
		out := 0
		for _, c := range p[:n] {
			if u.lastFF && c == 0x00 {
				u.lastFF = false
				continue
			}
			p[out] = c
			out++
			u.lastFF = c == 0xFF
		}
		// A read consisting only of a dropped 00 must not look like EOF.
		if out > 0 || err != nil || n == 0 {
			return out, err
		}
	}
}

// Inner returns the wrapped reader.
func (u *UnsynchronizedReader) Inner() io.Reader {
	return u.r
}

// Unsynchronize inserts a 00 after every FF.
func Unsynchronize(b []byte) []byte {
	count := bytes.Count(b, []byte{0xFF})
	if count == 0 {
		return b
	}
	out := make([]byte, 0, len(b)+count)
	for _, c := range b {
		out = append(out, c)
		if c == 0xFF {
			out = append(out, 0x00)
		}
	}
	return out
}

// Resynchronize collapses every FF 00 into FF.
func Resynchronize(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	lastFF := false
	for _, c := range b {
		if lastFF && c == 0x00 {
			lastFF = false
			continue
		}
		out = append(out, c)
		lastFF = c == 0xFF
	}
	return out
}

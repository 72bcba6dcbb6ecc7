package id3v2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// WriteOptions control tag serialization.
type WriteOptions struct {
	// Version is V24 or V23.
	Version Version

	// Padding is the number of zero bytes appended after the frames.
	Padding uint32

	// Unsynchronize applies tag-level unsynchronisation to the frames.
	// Frame sizes are those of the frames before unsynchronisation.
	Unsynchronize bool
}

// DefaultWriteOptions writes ID3v2.4 with 1 KiB of padding.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Version: V24, Padding: 1024}
}

// Bytes serializes the tag. An empty tag serializes to nil.
func (t *Tag) Bytes(opts WriteOptions) ([]byte, error) {
	if opts.Version != V23 && opts.Version != V24 {
		return nil, fmt.Errorf("id3v2: cannot write %s", opts.Version)
	}
	if t.IsEmpty() {
		return nil, nil
	}

	var body bytes.Buffer
	for _, f := range t.frames {
		f = frameForVersion(f, opts.Version)
		id := f.ID()
		if !validFrameID(id, opts.Version) {
			t.log().Debug("id3v2: frame not representable, dropped", "id", id, "version", opts.Version)
			continue
		}

		content, err := f.content(opts.Version)
		if err != nil {
			return nil, fmt.Errorf("id3v2: encode frame %q: %w", id, err)
		}
		if err := appendFrameHeader(&body, id, len(content), opts.Version); err != nil {
			return nil, err
		}
		body.Write(content)
	}

	frames := body.Bytes()
	if opts.Unsynchronize {
		frames = Unsynchronize(frames)
	}

	size, err := EncodeSynchsafe(uint32(len(frames)) + opts.Padding)
	if err != nil {
		return nil, err
	}

	var flags byte
	if opts.Unsynchronize {
		flags |= 0x80
	}

	out := make([]byte, 0, HeaderSize+len(frames)+int(opts.Padding))
	out = append(out, 'I', 'D', '3', byte(opts.Version), 0, flags)
	out = append(out, size[:]...)
	out = append(out, frames...)
	return append(out, make([]byte, opts.Padding)...), nil
}

// Write serializes the tag to w.
func (t *Tag) Write(w io.Writer, opts WriteOptions) (int64, error) {
	b, err := t.Bytes(opts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), fmt.Errorf("id3v2: write tag: %w", err)
	}
	return int64(n), nil
}

// frameForVersion adapts ID3v2.4 frames that ID3v2.3 names differently.
func frameForVersion(f Frame, v Version) Frame {
	if v != V23 {
		return f
	}
	tf, ok := f.(*TextFrame)
	if !ok {
		return f
	}
	id, ok := v23Downgrades[tf.FrameID]
	if !ok {
		return f
	}
	value := tf.Values()[0]
	if id == "TYER" || id == "TORY" {
		if year, ok := types.ParseYear(value); ok {
			value = fmt.Sprintf("%04d", year)
		}
	}
	return &TextFrame{FrameID: id, Encoding: tf.Encoding, Value: value}
}

func appendFrameHeader(buf *bytes.Buffer, id string, size int, v Version) error {
	buf.WriteString(id)
	if v == V24 {
		b, err := EncodeSynchsafe(uint32(size))
		if err != nil {
			return fmt.Errorf("id3v2: frame %q: %w", id, err)
		}
		buf.Write(b[:])
	} else {
		buf.Write(binary.Encode(nil, uint32(size), binary.BigEndian))
	}
	buf.Write([]byte{0, 0})
	return nil
}

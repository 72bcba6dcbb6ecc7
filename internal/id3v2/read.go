package id3v2

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// maxFrameSize bounds decompressed frame content.
const maxFrameSize = 1 << 28

type frameResultKind int

const (
	frameNext frameResultKind = iota
	frameSkip
	frameEOF
)

// frameResult is what readFrame produced. For frameNext, a nil frame
// means the content was consumed but dropped.
type frameResult struct {
	frame Frame
	id    string
	skip  int64
	kind  frameResultKind
}

type frameFlags struct {
	compressed bool
	encrypted  bool
	grouped    bool
	unsync     bool
	dataLength bool
}

func parseFrameFlags(b []byte, v Version) frameFlags {
	switch v {
	case V23:
		return frameFlags{
			compressed: b[1]&0x80 != 0,
			encrypted:  b[1]&0x40 != 0,
			grouped:    b[1]&0x20 != 0,
		}
	case V24:
		return frameFlags{
			grouped:    b[1]&0x40 != 0,
			compressed: b[1]&0x08 != 0,
			encrypted:  b[1]&0x04 != 0,
			unsync:     b[1]&0x02 != 0,
			dataLength: b[1]&0x01 != 0,
		}
	default:
		return frameFlags{}
	}
}

// Read reads a complete tag (header, frames, padding and footer) from r.
func Read(r io.Reader, opts types.ParseOptions) (*Tag, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return Parse(r, h, opts)
}

// Parse reads the frames of a tag whose header (and extended header) has
// already been consumed from r. On success exactly the rest of the tag,
// padding and footer included, has been read.
func Parse(r io.Reader, h Header, opts types.ParseOptions) (*Tag, error) {
	log := opts.Log()

	body := io.LimitReader(r, int64(h.Size)-int64(h.ExtendedSize))
	src := body
	var unsync *UnsynchronizedReader
	if h.Flags.Unsynchronisation {
		unsync = NewUnsynchronizedReader(body)
		src = unsync
	}

	tag := NewTag()
	tag.OriginalVersion = h.Version
	tag.Flags = h.Flags
	tag.SetLogger(opts.Logger)

loop:
	for {
		res, err := readFrame(src, h, opts)
		if err != nil {
			return nil, err
		}

		switch res.kind {
		case frameEOF:
			break loop
		case frameSkip:
			if n, _ := io.CopyN(io.Discard, src, res.skip); n != res.skip {
				return nil, fmt.Errorf("id3v2: skip frame %q (%d of %d bytes): %w",
					res.id, n, res.skip, types.ErrBadFrameLength)
			}
		case frameNext:
			if res.frame != nil {
				tag.Insert(res.frame)
			}
		}
	}

	rest := src
	if unsync != nil {
		rest = unsync.Inner()
	}
	if _, err := io.Copy(io.Discard, rest); err != nil {
		return nil, fmt.Errorf("id3v2: drain padding: %w", err)
	}

	if h.Flags.Footer {
		s := binary.NewStreamReader(r)
		if _, err := s.Bytes(HeaderSize, "ID3v2 footer"); err != nil {
			return nil, fmt.Errorf("id3v2: %w", err)
		}
	}

	log.Debug("id3v2: tag read", "version", h.Version, "frames", tag.Len())
	return tag, nil
}

// readFrame reads one frame header and its content.
func readFrame(r io.Reader, h Header, opts types.ParseOptions) (frameResult, error) {
	log := opts.Log()
	v := h.Version

	headerSize := 10
	if v == V22 {
		headerSize = 6
	}
	var hdr [10]byte
	if _, err := io.ReadFull(r, hdr[:headerSize]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return frameResult{kind: frameEOF}, nil
		}
		return frameResult{}, fmt.Errorf("id3v2: read frame header: %w", err)
	}
	if hdr[0] == 0 {
		return frameResult{kind: frameEOF}, nil
	}

	var (
		id    string
		size  uint32
		flags frameFlags
	)
	switch v {
	case V22:
		id = string(hdr[:3])
		size = binary.Uint24(hdr[3:6])
	case V23:
		id = string(hdr[:4])
		size = binary.Decode[uint32](hdr[4:8], binary.BigEndian)
		flags = parseFrameFlags(hdr[8:10], v)
	default:
		id = string(hdr[:4])
		size = decodeFrameSize(hdr[4:8])
		flags = parseFrameFlags(hdr[8:10], v)
	}

	if !validFrameID(id, v) {
		if opts.IsStrict() {
			return frameResult{}, types.Decodef(types.TagTypeID3v2, "invalid frame ID %q", id)
		}
		log.Warn("id3v2: skipping frame with invalid ID", "id", fmt.Sprintf("%q", id), "size", size)
		return frameResult{kind: frameSkip, id: id, skip: int64(size)}, nil
	}
	if size == 0 {
		if opts.IsStrict() {
			return frameResult{}, types.Decodef(types.TagTypeID3v2, "empty frame %q", id)
		}
		log.Warn("id3v2: skipping empty frame", "id", id)
		return frameResult{kind: frameSkip, id: id}, nil
	}

	content, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return frameResult{}, fmt.Errorf("id3v2: read frame %q: %w", id, err)
	}
	if len(content) != int(size) {
		return frameResult{}, fmt.Errorf("id3v2: frame %q declares %d bytes, %d available: %w",
			id, size, len(content), types.ErrBadFrameLength)
	}

	id = upgradeID(id, v)
	log.Debug("id3v2: frame", "id", id, "size", size)

	frame, err := decodeFrameContent(id, content, flags, h)
	if err != nil {
		if opts.IsStrict() {
			return frameResult{}, err
		}
		log.Warn("id3v2: dropping frame", "id", id, "error", err)
		return frameResult{kind: frameNext, id: id}, nil
	}
	return frameResult{kind: frameNext, id: id, frame: frame}, nil
}

// decodeFrameContent strips the flag-dependent prefix bytes, undoes
// per-frame unsynchronisation and compression, then decodes the frame.
func decodeFrameContent(id string, content []byte, flags frameFlags, h Header) (Frame, error) {
	short := func(what string) error {
		return &types.DecodeError{
			Format: types.TagTypeID3v2,
			Reason: fmt.Sprintf("frame %q too short for %s", id, what),
			Err:    types.ErrSizeMismatch,
		}
	}
	strip := func(n int, what string) error {
		if len(content) < n {
			return short(what)
		}
		content = content[n:]
		return nil
	}

	var err error
	if h.Version == V23 {
		if flags.compressed {
			err = strip(4, "decompressed size")
		}
		if err == nil && flags.encrypted {
			err = strip(1, "encryption method")
		}
		if err == nil && flags.grouped {
			err = strip(1, "group identifier")
		}
	} else {
		if flags.grouped {
			err = strip(1, "group identifier")
		}
		if err == nil && flags.encrypted {
			err = strip(1, "encryption method")
		}
		if err == nil && flags.dataLength {
			err = strip(4, "data length indicator")
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.encrypted {
		return nil, types.Decodef(types.TagTypeID3v2, "frame %q is encrypted", id)
	}
	if flags.unsync && !h.Flags.Unsynchronisation {
		content = Resynchronize(content)
	}
	if flags.compressed {
		if content, err = inflate(content); err != nil {
			return nil, &types.DecodeError{
				Format: types.TagTypeID3v2,
				Reason: fmt.Sprintf("decompress frame %q", id),
				Err:    err,
			}
		}
	}
	if len(content) == 0 {
		return nil, types.Decodef(types.TagTypeID3v2, "frame %q has no content", id)
	}

	return decodeFrame(id, content, h.Version)
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxFrameSize))
}

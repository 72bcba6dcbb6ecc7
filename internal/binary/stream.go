package binary

import (
	"fmt"
	"io"
)

// StreamReader reads sequentially from an io.Reader and counts consumed
// bytes. It is used where the codecs only have a forward stream.
type StreamReader struct {
	r        io.Reader
	consumed int64
}

// NewStreamReader wraps r.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// Read implements io.Reader.
func (s *StreamReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.consumed += int64(n)
	return n, err
}

// Consumed returns the number of bytes read so far.
func (s *StreamReader) Consumed() int64 {
	return s.consumed
}

// ReadFull fills b. A short read is reported as io.ErrUnexpectedEOF, or
// io.EOF when nothing was read.
func (s *StreamReader) ReadFull(b []byte, what string) error {
	if _, err := io.ReadFull(s, b); err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

// Bytes reads exactly n bytes.
func (s *StreamReader) Bytes(n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.ReadFull(buf, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Discard reads and drops n bytes, returning how many were dropped.
func (s *StreamReader) Discard(n int64) (int64, error) {
	return io.CopyN(io.Discard, s, n)
}

// ReadStream reads a value of type T in the given byte order.
func ReadStream[T Unsigned](s *StreamReader, endian Endianness, what string) (T, error) {
	var buf [8]byte
	b := buf[:sizeOf[T]()]
	if err := s.ReadFull(b, what); err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](b, endian), nil
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks in fixed-layout headers.
type ChainReader struct {
	s      *StreamReader
	err    error
	endian Endianness
}

// NewChainReader creates a ChainReader reading values in the given order.
func NewChainReader(s *StreamReader, endian Endianness) *ChainReader {
	return &ChainReader{s: s, endian: endian}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T Unsigned](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadStream[T](cr.s, cr.endian, what)
	if err != nil {
		cr.err = err
	}
	return val
}

// Bytes reads n bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.s.Bytes(n, what)
	if err != nil {
		cr.err = err
	}
	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}

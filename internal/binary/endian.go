package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian is used by ID3v2 frame headers and FLAC block headers.
	BigEndian Endianness = iota

	// LittleEndian is used by APE tags and Vorbis comments.
	LittleEndian
)

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (e Endianness) order() byteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// Example:
//
//	size, err := binary.ReadLE[uint32](sr, footerOffset+12, "APE tag size")
func ReadLE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
func ReadBE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
func ReadEndian[T Unsigned](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](buf, endian), nil
}

// Decode converts the leading bytes of buf to T. buf must hold at least
// sizeof(T) bytes.
func Decode[T Unsigned](buf []byte, endian Endianness) T {
	var zero T
	order := endian.order()
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(order.Uint16(buf))
	case uint32:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}

// Encode appends v to buf in the given byte order.
func Encode[T Unsigned](buf []byte, v T, endian Endianness) []byte {
	order := endian.order()
	var zero T
	switch any(zero).(type) {
	case uint8:
		return append(buf, byte(v))
	case uint16:
		return order.AppendUint16(buf, uint16(v))
	case uint32:
		return order.AppendUint32(buf, uint32(v))
	default:
		return order.AppendUint64(buf, uint64(v))
	}
}

// Uint24 decodes a 3-byte big-endian value, as used by FLAC block lengths
// and ID3v2.2 frame sizes.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutUint24 encodes v as 3 big-endian bytes. Bits above 24 are dropped.
func PutUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

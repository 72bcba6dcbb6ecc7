package id3v2

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/audiotag/internal/types"
)

// TextEncoding is the encoding byte that prefixes text-bearing frames.
type TextEncoding byte

const (
	EncodingLatin1  TextEncoding = 0 // ISO-8859-1
	EncodingUTF16   TextEncoding = 1 // UTF-16 with BOM
	EncodingUTF16BE TextEncoding = 2 // UTF-16BE, ID3v2.4 only
	EncodingUTF8    TextEncoding = 3 // UTF-8, ID3v2.4 only
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("encoding(%d)", byte(e))
	}
}

// validFor reports whether e may be written in a tag of the given version.
func (e TextEncoding) validFor(v Version) bool {
	switch e {
	case EncodingLatin1, EncodingUTF16:
		return true
	case EncodingUTF16BE, EncodingUTF8:
		return v == V24
	default:
		return false
	}
}

// verifyEncoding checks an encoding byte read from a frame. ID3v2.2 only
// knows Latin-1 and UTF-16.
func verifyEncoding(b byte, v Version) (TextEncoding, error) {
	e := TextEncoding(b)
	if e > EncodingUTF8 {
		return 0, types.Decodef(types.TagTypeID3v2, "invalid text encoding %d", b)
	}
	if v == V22 && e > EncodingUTF16 {
		return 0, types.Decodef(types.TagTypeID3v2, "text encoding %s not allowed in %s", e, v)
	}
	return e, nil
}

var (
	latin1  encoding.Encoding = charmap.ISO8859_1
	utf16   encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16LE encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	utf16BE encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// decodeText decodes data in the given encoding. UTF-16 without a BOM is
// read as big-endian.
func decodeText(data []byte, enc TextEncoding) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	switch enc {
	case EncodingLatin1:
		b, err := latin1.NewDecoder().Bytes(data)
		if err != nil {
			return "", &types.DecodeError{Format: types.TagTypeID3v2, Reason: "decode ISO-8859-1 text", Err: err}
		}
		return string(b), nil

	case EncodingUTF16, EncodingUTF16BE:
		if len(data)%2 != 0 {
			return "", types.Decodef(types.TagTypeID3v2, "odd-length %s text", enc)
		}
		dec := utf16BE
		if enc == EncodingUTF16 {
			dec = utf16
		}
		b, err := dec.NewDecoder().Bytes(data)
		if err != nil {
			return "", &types.DecodeError{Format: types.TagTypeID3v2, Reason: "decode " + enc.String() + " text", Err: err}
		}
		return string(b), nil

	case EncodingUTF8:
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
		if !utf8.Valid(data) {
			return "", types.Decodef(types.TagTypeID3v2, "invalid UTF-8 text")
		}
		return string(data), nil

	default:
		return "", types.Decodef(types.TagTypeID3v2, "invalid text encoding %d", byte(enc))
	}
}

// encodeText encodes s, appending a terminator when terminated is set.
func encodeText(s string, enc TextEncoding, terminated bool) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch enc {
	case EncodingLatin1:
		b, err = latin1.NewEncoder().Bytes([]byte(s))
	case EncodingUTF16:
		b, err = utf16LE.NewEncoder().Bytes([]byte(s))
		if err == nil && len(b) == 0 {
			b = []byte{0xFF, 0xFE}
		}
	case EncodingUTF16BE:
		b, err = utf16BE.NewEncoder().Bytes([]byte(s))
	case EncodingUTF8:
		b = []byte(s)
	default:
		err = fmt.Errorf("invalid text encoding %d", byte(enc))
	}
	if err != nil {
		return nil, fmt.Errorf("id3v2: encode %q as %s: %w", s, enc, err)
	}

	if terminated {
		b = append(b, make([]byte, terminatorSize(enc))...)
	}
	return b, nil
}

// pickEncoding returns the encoding to write s with: preferred when it is
// valid for v and can represent s, otherwise the widest one v supports.
func pickEncoding(preferred TextEncoding, v Version, s ...string) TextEncoding {
	if preferred.validFor(v) {
		if preferred != EncodingLatin1 || isLatin1(s...) {
			return preferred
		}
	}
	if isLatin1(s...) {
		return EncodingLatin1
	}
	if v == V24 {
		return EncodingUTF8
	}
	return EncodingUTF16
}

func isLatin1(s ...string) bool {
	for _, str := range s {
		for _, r := range str {
			if r > 0xFF {
				return false
			}
		}
	}
	return true
}

// findNullTerminator returns the index of the first terminator in data,
// or -1. UTF-16 terminators are two zero bytes at an even offset.
func findNullTerminator(data []byte, enc TextEncoding) int {
	switch enc {
	case EncodingUTF16, EncodingUTF16BE:
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i
			}
		}
		return -1
	default:
		return bytes.IndexByte(data, 0)
	}
}

func terminatorSize(enc TextEncoding) int {
	switch enc {
	case EncodingUTF16, EncodingUTF16BE:
		return 2
	default:
		return 1
	}
}

// readTerminated decodes a terminated string from the start of data and
// returns it with the bytes that follow the terminator. A missing
// terminator consumes all of data.
func readTerminated(data []byte, enc TextEncoding) (string, []byte, error) {
	end := findNullTerminator(data, enc)
	rest := []byte(nil)
	if end < 0 {
		end = len(data)
	} else {
		rest = data[end+terminatorSize(enc):]
	}
	s, err := decodeText(data[:end], enc)
	return s, rest, err
}

// trimText drops the trailing terminators some writers include in text
// frame content.
func trimText(s string) string {
	return strings.TrimRight(s, "\x00")
}

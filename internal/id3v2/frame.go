package id3v2

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Frame is one decoded frame. The set of implementations is closed:
// *TextFrame, *UserTextFrame, *CommentFrame, *URLFrame, *ExtendedURLFrame,
// *PictureFrame and *BinaryFrame.
type Frame interface {
	// ID returns the ID3v2.4 (or, for unmapped ID3v2.2 frames, the
	// original) frame ID.
	ID() string

	// Key identifies the frame within a tag. Inserting a frame replaces
	// the frame with the same key.
	Key() string

	// content serializes the frame body for the given version.
	content(v Version) ([]byte, error)
}

// TextFrame is a T*** frame other than TXXX. ID3v2.4 separates multiple
// values with a NUL; Values splits them.
type TextFrame struct {
	FrameID  string
	Value    string
	Encoding TextEncoding
}

func (f *TextFrame) ID() string { return f.FrameID }
func (f *TextFrame) Key() string { return f.FrameID }

// Values returns the NUL-separated values of the frame.
func (f *TextFrame) Values() []string {
	return strings.Split(f.Value, "\x00")
}

func (f *TextFrame) content(v Version) ([]byte, error) {
	value := f.Value
	if v != V24 {
		value = strings.ReplaceAll(value, "\x00", "/")
	}
	enc := pickEncoding(f.Encoding, v, value)
	text, err := encodeText(value, enc, false)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(enc)}, text...), nil
}

// UserTextFrame is a TXXX frame, identified by its description.
type UserTextFrame struct {
	Description string
	Value       string
	Encoding    TextEncoding
}

func (f *UserTextFrame) ID() string { return "TXXX" }
func (f *UserTextFrame) Key() string { return "TXXX:" + f.Description }

func (f *UserTextFrame) content(v Version) ([]byte, error) {
	enc := pickEncoding(f.Encoding, v, f.Description, f.Value)
	return joinEncoded(enc, nil, terminated(f.Description), plain(f.Value))
}

// CommentFrame is a COMM or USLT frame, identified by its language and
// description.
type CommentFrame struct {
	FrameID     string
	Language    string
	Description string
	Text        string
	Encoding    TextEncoding
}

func (f *CommentFrame) ID() string { return f.FrameID }
func (f *CommentFrame) Key() string {
	return f.FrameID + ":" + f.Language + ":" + f.Description
}

func (f *CommentFrame) content(v Version) ([]byte, error) {
	enc := pickEncoding(f.Encoding, v, f.Description, f.Text)
	return joinEncoded(enc, []byte(normalizeLanguage(f.Language)), terminated(f.Description), plain(f.Text))
}

// URLFrame is a W*** frame other than WXXX. The URL is Latin-1.
type URLFrame struct {
	FrameID string
	URL     string
}

func (f *URLFrame) ID() string { return f.FrameID }
func (f *URLFrame) Key() string { return f.FrameID }

func (f *URLFrame) content(Version) ([]byte, error) {
	return encodeText(f.URL, EncodingLatin1, false)
}

// ExtendedURLFrame is a WXXX frame. Two extended URL frames are the same
// frame when their descriptions match, whatever their content.
type ExtendedURLFrame struct {
	Description string
	Content     string
	Encoding    TextEncoding
}

func (f *ExtendedURLFrame) ID() string { return "WXXX" }
func (f *ExtendedURLFrame) Key() string { return "WXXX:" + f.Description }

// Equal reports whether f and o have the same description.
func (f *ExtendedURLFrame) Equal(o *ExtendedURLFrame) bool {
	return f.Description == o.Description
}

func (f *ExtendedURLFrame) content(v Version) ([]byte, error) {
	enc := pickEncoding(f.Encoding, v, f.Description)
	desc, err := encodeText(f.Description, enc, true)
	if err != nil {
		return nil, err
	}
	url, err := encodeText(f.Content, EncodingLatin1, false)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(desc)+len(url))
	out = append(out, byte(enc))
	out = append(out, desc...)
	return append(out, url...), nil
}

// PictureFrame is an APIC frame (PIC in ID3v2.2), identified by picture
// type and description.
type PictureFrame struct {
	Picture  types.Picture
	Encoding TextEncoding
}

func (f *PictureFrame) ID() string { return "APIC" }
func (f *PictureFrame) Key() string {
	return fmt.Sprintf("APIC:%d:%s", f.Picture.Type.Byte(), f.Picture.Description)
}

func (f *PictureFrame) content(v Version) ([]byte, error) {
	p := f.Picture
	mime := p.MIMEType
	if mime == "" {
		mime = types.SniffMIME(p.Data)
	}
	mimeBytes, err := encodeText(mime, EncodingLatin1, true)
	if err != nil {
		return nil, err
	}
	enc := pickEncoding(f.Encoding, v, p.Description)
	desc, err := encodeText(p.Description, enc, true)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 2+len(mimeBytes)+len(desc)+len(p.Data))
	out = append(out, byte(enc))
	out = append(out, mimeBytes...)
	out = append(out, p.Type.Byte())
	out = append(out, desc...)
	return append(out, p.Data...), nil
}

// BinaryFrame is any other frame, kept verbatim.
type BinaryFrame struct {
	FrameID string
	Data    []byte
}

func (f *BinaryFrame) ID() string { return f.FrameID }
func (f *BinaryFrame) Key() string { return f.FrameID + ":" + string(f.Data) }

func (f *BinaryFrame) content(Version) ([]byte, error) {
	return f.Data, nil
}

type textPart struct {
	s          string
	terminated bool
}

func terminated(s string) textPart { return textPart{s: s, terminated: true} }
func plain(s string) textPart { return textPart{s: s} }

// joinEncoded writes the encoding byte, any fixed prefix, then each part
// in enc.
func joinEncoded(enc TextEncoding, prefix []byte, parts ...textPart) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	buf.Write(prefix)
	for _, p := range parts {
		b, err := encodeText(p.s, enc, p.terminated)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// normalizeLanguage returns a 3-byte ISO-639-2 code, "XXX" when unknown.
func normalizeLanguage(lang string) string {
	if len(lang) != 3 {
		return "XXX"
	}
	return lang
}

// validFrameID reports whether id is a well-formed frame ID for v:
// upper-case letters and digits, 3 characters in ID3v2.2 and 4 otherwise.
func validFrameID(id string, v Version) bool {
	want := 4
	if v == V22 {
		want = 3
	}
	if len(id) != want {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

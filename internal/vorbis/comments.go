// Package vorbis reads and writes Vorbis Comment payloads as stored in a
// FLAC VORBIS_COMMENT block.
//
// A comment is a vendor string followed by "KEY=value" fields. Keys are
// ASCII and compared case-insensitively; values are UTF-8 and a key may
// repeat. The payload envelope is handled by go-flac/flacvorbis.
package vorbis

import (
	"encoding/base64"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	flac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacvorbis"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// DefaultVendor is written when a tag has no vendor string.
const DefaultVendor = "audiotag"

// PictureKey holds a base64 FLAC PICTURE structure.
const PictureKey = "METADATA_BLOCK_PICTURE"

// Field is one KEY=value comment.
type Field struct {
	Key   string
	Value string
}

// Tag is a Vorbis Comment.
type Tag struct {
	logger   *slog.Logger
	fields   []Field
	pictures []types.Picture

	Vendor string
}

// NewTag returns an empty tag with the default vendor.
func NewTag() *Tag {
	return &Tag{Vendor: DefaultVendor}
}

// SetLogger sets the logger used for accessor warnings.
func (t *Tag) SetLogger(l *slog.Logger) {
	t.logger = l
}

func (t *Tag) log() *slog.Logger {
	return types.OrDiscard(t.logger)
}

// ValidateKey checks a field name: at least one byte of printable ASCII
// (0x20-0x7D) other than '='.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("vorbis: empty field name")
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < 0x20 || c > 0x7D || c == '=' {
			return fmt.Errorf("vorbis: invalid byte %#x in field name %q", c, key)
		}
	}
	return nil
}

// Parse decodes a VORBIS_COMMENT block payload.
//
// A field without '=', with an invalid name or with a non UTF-8 value is
// a decode error in Strict mode and is skipped with a warning otherwise.
// METADATA_BLOCK_PICTURE fields become pictures under the same policy.
func Parse(data []byte, opts types.ParseOptions) (*Tag, error) {
	if err := checkLengths(data); err != nil {
		return nil, err
	}

	block, err := flacvorbis.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.VorbisComment, Data: data})
	if err != nil {
		return nil, &types.DecodeError{Format: types.TagTypeVorbisComments, Reason: "parse comment block", Err: err}
	}

	log := opts.Log()
	tag := &Tag{Vendor: block.Vendor, logger: opts.Logger}

	for i, comment := range block.Comments {
		field, err := parseField(comment)
		if err == nil && strings.EqualFold(field.Key, PictureKey) {
			var pic types.Picture
			if pic, err = decodePictureField(field.Value); err == nil {
				tag.pictures = append(tag.pictures, pic)
				continue
			}
		}
		if err != nil {
			if opts.IsStrict() {
				return nil, err
			}
			log.Warn("vorbis: skipping field", "index", i, "error", err)
			continue
		}
		tag.fields = append(tag.fields, field)
	}

	log.Debug("vorbis: comment read", "vendor", tag.Vendor, "fields", len(tag.fields), "pictures", len(tag.pictures))
	return tag, nil
}

func parseField(comment string) (Field, error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return Field{}, types.Decodef(types.TagTypeVorbisComments, "field %q has no '='", truncate(comment))
	}
	if err := ValidateKey(key); err != nil {
		return Field{}, &types.DecodeError{Format: types.TagTypeVorbisComments, Reason: "invalid field name", Err: err}
	}
	if !utf8.ValidString(value) {
		return Field{}, types.Decodef(types.TagTypeVorbisComments, "field %q is not valid UTF-8", key)
	}
	return Field{Key: key, Value: value}, nil
}

// checkLengths walks the declared lengths of a comment block so that
// no length is trusted for allocation before it is known to fit.
func checkLengths(data []byte) error {
	mismatch := func(what string) error {
		return &types.DecodeError{
			Format: types.TagTypeVorbisComments,
			Reason: what + " exceeds block",
			Err:    types.ErrSizeMismatch,
		}
	}

	rest := data
	take := func(what string) error {
		if len(rest) < 4 {
			return mismatch(what + " length")
		}
		n := binary.Decode[uint32](rest, binary.LittleEndian)
		rest = rest[4:]
		if uint64(n) > uint64(len(rest)) {
			return mismatch(what)
		}
		rest = rest[n:]
		return nil
	}

	if err := take("vendor string"); err != nil {
		return err
	}
	if len(rest) < 4 {
		return mismatch("field count")
	}
	count := binary.Decode[uint32](rest, binary.LittleEndian)
	rest = rest[4:]
	if uint64(count)*4 > uint64(len(rest)) {
		return mismatch("field count")
	}
	for range count {
		if err := take("field"); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// Bytes serializes the tag as a VORBIS_COMMENT block payload. Pictures
// are not included; FLAC stores them in PICTURE blocks.
func (t *Tag) Bytes() []byte {
	block := t.Block(false)
	return block.Data
}

// Block returns the tag as a FLAC metadata block. With embedPictures set,
// pictures are written as METADATA_BLOCK_PICTURE fields.
func (t *Tag) Block(embedPictures bool) flac.MetaDataBlock {
	vendor := t.Vendor
	if vendor == "" {
		vendor = DefaultVendor
	}
	c := &flacvorbis.MetaDataBlockVorbisComment{Vendor: vendor}
	for _, f := range t.fields {
		c.Comments = append(c.Comments, f.Key+"="+f.Value)
	}
	if embedPictures {
		for _, p := range t.pictures {
			c.Comments = append(c.Comments, PictureKey+"="+base64.StdEncoding.EncodeToString(encodePicture(p).Data))
		}
	}
	return c.Marshal()
}

// Len returns the number of fields.
func (t *Tag) Len() int {
	return len(t.fields)
}

// IsEmpty reports whether the tag has neither fields nor pictures.
func (t *Tag) IsEmpty() bool {
	return len(t.fields) == 0 && len(t.pictures) == 0
}

// Fields iterates over the fields in order.
func (t *Tag) Fields() iter.Seq[Field] {
	return slices.Values(t.fields)
}

// Get returns the first value of key.
func (t *Tag) Get(key string) (string, bool) {
	for _, f := range t.fields {
		if strings.EqualFold(f.Key, key) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every value of key.
func (t *Tag) GetAll(key string) []string {
	var out []string
	for _, f := range t.fields {
		if strings.EqualFold(f.Key, key) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Push appends a field, keeping existing values of the same key.
func (t *Tag) Push(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	t.fields = append(t.fields, Field{Key: strings.ToUpper(key), Value: value})
	return nil
}

// Insert replaces every value of key with value.
func (t *Tag) Insert(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	t.Remove(key)
	t.fields = append(t.fields, Field{Key: strings.ToUpper(key), Value: value})
	return nil
}

// Remove deletes every value of key and returns how many were removed.
func (t *Tag) Remove(key string) int {
	n := len(t.fields)
	t.fields = slices.DeleteFunc(t.fields, func(f Field) bool { return strings.EqualFold(f.Key, key) })
	return n - len(t.fields)
}

// Pictures returns the pictures carried by METADATA_BLOCK_PICTURE fields
// or added with PushPicture.
func (t *Tag) Pictures() []types.Picture {
	return t.pictures
}

// PushPicture appends a picture.
func (t *Tag) PushPicture(p types.Picture) {
	t.pictures = append(t.pictures, p)
}

// TakePictures removes and returns every picture.
func (t *Tag) TakePictures() []types.Picture {
	pics := t.pictures
	t.pictures = nil
	return pics
}

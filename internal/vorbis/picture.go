package vorbis

import (
	"encoding/base64"

	flac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacpicture"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// DecodePicture decodes a FLAC PICTURE structure, as found in a PICTURE
// block or, base64 encoded, in a METADATA_BLOCK_PICTURE field.
func DecodePicture(data []byte) (types.Picture, error) {
	if err := checkPictureLengths(data); err != nil {
		return types.Picture{}, err
	}
	pic, err := flacpicture.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.Picture, Data: data})
	if err != nil {
		return types.Picture{}, &types.DecodeError{Format: types.TagTypeVorbisComments, Reason: "parse picture", Err: err}
	}
	if len(pic.ImageData) == 0 {
		return types.Picture{}, types.Decodef(types.TagTypeVorbisComments, "picture has no image data")
	}

	mime := pic.MIME
	if mime == "" {
		mime = types.SniffMIME(pic.ImageData)
	}
	return types.Picture{
		Type:        types.PictureTypeFromByte(uint32(pic.PictureType)),
		MIMEType:    mime,
		Description: pic.Description,
		Data:        pic.ImageData,
		Width:       pic.Width,
		Height:      pic.Height,
		ColorDepth:  pic.ColorDepth,
		NumColors:   pic.IndexedColorCount,
	}, nil
}

// EncodePicture encodes p as a FLAC PICTURE block.
func EncodePicture(p types.Picture) flac.MetaDataBlock {
	return encodePicture(p)
}

func encodePicture(p types.Picture) flac.MetaDataBlock {
	mime := p.MIMEType
	if mime == "" {
		mime = types.SniffMIME(p.Data)
	}
	pic := &flacpicture.MetadataBlockPicture{
		PictureType:       flacpicture.PictureType(p.Type.Byte()),
		MIME:              mime,
		Description:       p.Description,
		Width:             p.Width,
		Height:            p.Height,
		ColorDepth:        p.ColorDepth,
		IndexedColorCount: p.NumColors,
		ImageData:         p.Data,
	}
	return pic.Marshal()
}

func decodePictureField(value string) (types.Picture, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return types.Picture{}, &types.DecodeError{Format: types.TagTypeVorbisComments, Reason: "decode " + PictureKey, Err: err}
	}
	return DecodePicture(data)
}

// checkPictureLengths verifies that the MIME, description and image
// lengths of a PICTURE structure fit inside it.
func checkPictureLengths(data []byte) error {
	mismatch := func(what string) error {
		return &types.DecodeError{
			Format: types.TagTypeVorbisComments,
			Reason: "picture " + what + " exceeds block",
			Err:    types.ErrSizeMismatch,
		}
	}

	rest := data
	skip := func(n int, what string) error {
		if len(rest) < n {
			return mismatch(what)
		}
		rest = rest[n:]
		return nil
	}
	sized := func(what string) error {
		if len(rest) < 4 {
			return mismatch(what + " length")
		}
		n := binary.Decode[uint32](rest, binary.BigEndian)
		rest = rest[4:]
		if uint64(n) > uint64(len(rest)) {
			return mismatch(what)
		}
		rest = rest[n:]
		return nil
	}

	if err := skip(4, "type"); err != nil {
		return err
	}
	if err := sized("MIME type"); err != nil {
		return err
	}
	if err := sized("description"); err != nil {
		return err
	}
	if err := skip(16, "dimensions"); err != nil {
		return err
	}
	return sized("image data")
}

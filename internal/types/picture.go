package types

import (
	"bytes"
	"fmt"
)

// Picture is an embedded image.
//
// Only the envelope is interpreted: Data is carried as-is and never decoded.
type Picture struct {
	// MIMEType of Data ("image/jpeg", "image/png", ...). May be empty.
	MIMEType string

	Description string

	Data []byte

	Type PictureType

	// Dimensions as declared by the container, 0 when unknown.
	Width      uint32
	Height     uint32
	ColorDepth uint32
	NumColors  uint32
}

// PictureType is the purpose of a picture.
//
// Values 0-20 match the ID3v2 APIC and FLAC PICTURE type byte.
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
type PictureType int

const (
	PictureOther              PictureType = iota // Other
	PictureIcon                                  // File icon (32x32 PNG)
	PictureOtherIcon                             // Other file icon
	PictureFrontCover                            // Front cover
	PictureBackCover                             // Back cover
	PictureLeaflet                               // Leaflet page
	PictureMedia                                 // Media (CD/vinyl label)
	PictureLeadArtist                            // Lead artist/performer/soloist
	PictureArtist                                // Artist/performer
	PictureConductor                             // Conductor
	PictureBand                                  // Band/orchestra
	PictureComposer                              // Composer
	PictureLyricist                              // Lyricist/text writer
	PictureRecordingLocation                     // Recording location
	PictureDuringRecording                       // During recording
	PictureDuringPerformance                     // During performance
	PictureScreenCapture                         // Movie/video screen capture
	PictureBrightFish                            // A bright colored fish
	PictureIllustration                          // Illustration
	PictureBandLogo                              // Band/artist logotype
	PicturePublisherLogo                         // Publisher/studio logotype

	// PictureUndefined carries a type byte outside 0-20.
	PictureUndefined PictureType = 255
)

var pictureTypeNames = [...]string{
	"Other",
	"File icon",
	"Other file icon",
	"Front cover",
	"Back cover",
	"Leaflet page",
	"Media",
	"Lead artist",
	"Artist",
	"Conductor",
	"Band",
	"Composer",
	"Lyricist",
	"Recording location",
	"During recording",
	"During performance",
	"Screen capture",
	"Bright colored fish",
	"Illustration",
	"Band logotype",
	"Publisher logotype",
}

func (t PictureType) String() string {
	if t >= 0 && int(t) < len(pictureTypeNames) {
		return pictureTypeNames[t]
	}
	return "Undefined"
}

// PictureTypeFromByte maps a type byte to a PictureType, PictureUndefined
// when out of range.
func PictureTypeFromByte(b uint32) PictureType {
	if int(b) < len(pictureTypeNames) {
		return PictureType(b)
	}
	return PictureUndefined
}

// Byte returns the on-disk type byte. PictureUndefined maps to Other.
func (t PictureType) Byte() byte {
	if t >= 0 && int(t) < len(pictureTypeNames) {
		return byte(t)
	}
	return byte(PictureOther)
}

// String returns a human-readable description of the picture.
//
// Example output: "Front cover (1200x1200 JPEG, 245KB)"
func (p Picture) String() string {
	dims := ""
	if p.Width > 0 && p.Height > 0 {
		dims = fmt.Sprintf("%dx%d ", p.Width, p.Height)
	}
	return fmt.Sprintf("%s (%s%s, %s)", p.Type, dims, mimeToFormat(p.MIMEType), formatSize(len(p.Data)))
}

// Equal reports whether two pictures carry the same type, description, MIME
// type and bytes.
func (p Picture) Equal(o Picture) bool {
	return p.Type == o.Type &&
		p.Description == o.Description &&
		p.MIMEType == o.MIMEType &&
		bytes.Equal(p.Data, o.Data)
}

// SniffMIME guesses an image MIME type from its magic bytes.
//
// Returns "" for unrecognized data.
func SniffMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return "image/tiff"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return ""
	}
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/tiff":
		return "TIFF"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}

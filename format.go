package audiotag

import (
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// Format is a container format.
type Format = types.Format

const (
	FormatUnknown = types.FormatUnknown
	FormatFLAC    = types.FormatFLAC
	FormatMP3     = types.FormatMP3
	FormatAPE     = types.FormatAPE
)

// DetectFormat determines the format of r from its magic bytes, skipping a
// leading ID3v2 tag.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

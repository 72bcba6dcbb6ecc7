package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// DecodeError reports a malformed tag or container.
type DecodeError = types.DecodeError

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is returned for files no codec recognizes.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnsupportedWriteError is returned by Save for formats without a writer.
type UnsupportedWriteError = types.UnsupportedWriteError

var (
	// ErrSizeMismatch is wrapped by a DecodeError when a declared size
	// disagrees with the data.
	ErrSizeMismatch = types.ErrSizeMismatch

	// ErrBadFrameLength is returned when an ID3v2 frame runs past its tag.
	ErrBadFrameLength = types.ErrBadFrameLength
)

package types

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is wrapped by a DecodeError when a declared length does
// not fit inside the structure that contains it.
var ErrSizeMismatch = errors.New("size mismatch")

// ErrBadFrameLength is returned when skipping a frame or record consumes
// fewer bytes than its header declared.
var ErrBadFrameLength = errors.New("bad frame length")

// DecodeError is returned when tag bytes are structurally invalid.
//
// Examples include a bad preamble or marker, non UTF-8 text where UTF-8
// is required, an invalid enumerated type, a missing mandatory block or
// an illegal key. Container violations leave Format as TagTypeUnknown and
// name the file format in Container instead.
type DecodeError struct {
	Err       error
	Format    TagType
	Container Format
	Reason    string
}

func (e *DecodeError) Error() string {
	prefix := e.Reason
	switch {
	case e.Format != TagTypeUnknown:
		prefix = fmt.Sprintf("%s: %s", e.Format, e.Reason)
	case e.Container != FormatUnknown:
		prefix = fmt.Sprintf("%s: %s", e.Container, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decodef builds a DecodeError with a formatted reason.
func Decodef(format TagType, reason string, args ...any) *DecodeError {
	return &DecodeError{Format: format, Reason: fmt.Sprintf(reason, args...)}
}

// ContainerErrorf builds a DecodeError for a violation in the file
// container rather than in a tag. A non-nil cause is wrapped.
func ContainerErrorf(container Format, cause error, reason string, args ...any) *DecodeError {
	return &DecodeError{Container: container, Err: cause, Reason: fmt.Sprintf(reason, args...)}
}

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when no codec handles the file.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

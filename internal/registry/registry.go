// Package registry maps container formats to the codecs that read and
// write their tags.
//
// Format packages register themselves from init functions; the audiotag
// package imports them for that side effect.
package registry

import (
	"io"
	"sync"

	"github.com/simonhull/audiotag/internal/types"
)

// Source is a seekable input. *os.File and *bytes.Reader satisfy it.
type Source interface {
	io.ReadSeeker
	io.ReaderAt
}

// Container is the parsed metadata of one file, as returned by a Parser.
type Container interface {
	// AudioSpan returns the byte range of the audio payload, tags excluded.
	AudioSpan() (start, end int64)
}

// Parser reads the native tags of a container format.
type Parser interface {
	// Parse reads from the start of r, a stream of size bytes.
	Parse(r Source, size int64, opts types.ParseOptions) (Container, error)
}

// Writer writes a container back out.
type Writer interface {
	// Write writes c to w. src is the file c was parsed from and supplies
	// the audio payload.
	Write(w io.Writer, src Source, c Container) error
}

var (
	mu      sync.RWMutex
	parsers = make(map[types.Format]Parser)
	writers = make(map[types.Format]Writer)
)

// Register registers a parser for a format, replacing any earlier one.
func Register(format types.Format, parser Parser) {
	mu.Lock()
	defer mu.Unlock()
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) Parser {
	mu.RLock()
	defer mu.RUnlock()
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
func RegisterWriter(format types.Format, writer Writer) {
	mu.Lock()
	defer mu.Unlock()
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writers[format]
}

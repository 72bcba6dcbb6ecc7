package audiotag

import (
	"log/slog"

	"github.com/simonhull/audiotag/internal/types"
)

// ParsingMode controls how damaged tag entries are handled.
type ParsingMode = types.ParsingMode

const (
	Relaxed = types.Relaxed
	Strict  = types.Strict
)

// Option configures behavior when opening audio files.
//
// Example:
//
//	file, err := audiotag.Open("song.flac",
//	    audiotag.WithStrictParsing(),
//	    audiotag.WithoutProperties(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	mode           ParsingMode
	readProperties bool
	logger         *slog.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		mode:           Relaxed,
		readProperties: true,
	}
}

func (o *openOptions) parseOptions() types.ParseOptions {
	return types.ParseOptions{
		Logger:         o.logger,
		ParsingMode:    o.mode,
		ReadProperties: o.readProperties,
	}
}

// WithParsingMode sets how damaged items, frames and pictures are handled.
func WithParsingMode(mode ParsingMode) Option {
	return func(o *openOptions) {
		o.mode = mode
	}
}

// WithStrictParsing makes any tag violation a fatal error.
//
// By default a bad item, frame or picture is dropped with a warning and
// parsing continues. Container damage is fatal in both modes.
//
// Example:
//
//	file, err := audiotag.Open("song.flac", audiotag.WithStrictParsing())
//	// err != nil if any tag entry is malformed
func WithStrictParsing() Option {
	return WithParsingMode(Strict)
}

// WithoutProperties skips audio property extraction.
//
// File.Properties stays zero. Chapters are still available.
func WithoutProperties() Option {
	return func(o *openOptions) {
		o.readProperties = false
	}
}

// WithLogger sends parse warnings and debug records to logger.
//
// Without it, records are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}

package types

import "log/slog"

// ParsingMode controls how format violations below the container level are
// handled.
type ParsingMode int

const (
	// Relaxed discards an offending item, frame or picture with a logged
	// warning and keeps parsing.
	Relaxed ParsingMode = iota
	// Strict stops at the first violation.
	Strict
)

func (m ParsingMode) String() string {
	if m == Strict {
		return "strict"
	}
	return "relaxed"
}

// ParseOptions are read-only inputs to every codec.
type ParseOptions struct {
	// Logger receives warnings for discarded entries. Nil discards.
	Logger *slog.Logger

	ParsingMode ParsingMode

	// ReadProperties requests audio properties where a codec can derive
	// them (FLAC STREAMINFO).
	ReadProperties bool
}

// DefaultParseOptions returns relaxed parsing with properties enabled.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ParsingMode:    Relaxed,
		ReadProperties: true,
	}
}

// Log returns the configured logger or a discarding one.
func (o ParseOptions) Log() *slog.Logger {
	return OrDiscard(o.Logger)
}

// OrDiscard returns l, or a logger that drops every record when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// IsStrict reports whether item-level violations are fatal.
func (o ParseOptions) IsStrict() bool {
	return o.ParsingMode == Strict
}

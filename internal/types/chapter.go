package types

import "time"

// Chapter is a chapter marker, taken from a FLAC CUESHEET block or from
// CHAPTERxxx Vorbis comments.
//
//	for _, ch := range file.Chapters() {
//	    fmt.Printf("[%d] %s: %s - %s\n", ch.Index, ch.Title, ch.StartTime, ch.EndTime)
//	}
type Chapter struct {
	Index     int           `json:"index" yaml:"index"`
	Title     string        `json:"title" yaml:"title"`
	StartTime time.Duration `json:"start_time" yaml:"start_time"`
	EndTime   time.Duration `json:"end_time" yaml:"end_time"`
}

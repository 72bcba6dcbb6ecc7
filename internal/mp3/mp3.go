// Package mp3 handles containers whose tags wrap a raw audio payload: an
// ID3v2 tag at the front and an APE tag (optionally followed by ID3v1)
// at the end. MPEG audio and Monkey's Audio files both use this layout.
package mp3

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const id3v1Size = 128

// File holds the tags found around the audio payload.
type File struct {
	ID3v2 *id3v2.Tag
	APE   *ape.Tag

	// ID3v1 is a trailing ID3v1 tag, kept verbatim and rewritten as is.
	ID3v1 []byte

	// ID3v2Options are used when the ID3v2 tag is written back.
	ID3v2Options id3v2.WriteOptions

	AudioStart int64
	AudioEnd   int64
}

// AudioSpan implements registry.Container.
func (f *File) AudioSpan() (start, end int64) {
	return f.AudioStart, f.AudioEnd
}

// Read locates and parses the tags of a stream of size bytes.
func Read(r registry.Source, size int64, opts types.ParseOptions) (*File, error) {
	f := &File{AudioEnd: size, ID3v2Options: id3v2.DefaultWriteOptions()}
	sr := binary.NewSafeReader(r, size, "")

	if size >= id3v2.HeaderSize {
		head := make([]byte, id3v2.HeaderSize)
		if err := sr.ReadAt(head, 0, "ID3v2 header"); err != nil {
			return nil, err
		}
		if id3v2.HasTag(head) {
			if _, err := r.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("mp3: %w", err)
			}
			tag, err := id3v2.Read(r, opts)
			if err != nil {
				return nil, err
			}
			pos, err := r.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, fmt.Errorf("mp3: %w", err)
			}
			f.ID3v2 = tag
			f.AudioStart = pos
			if tag.OriginalVersion == id3v2.V23 {
				f.ID3v2Options.Version = id3v2.V23
			}
			f.ID3v2Options.Unsynchronize = tag.Flags.Unsynchronisation
		}
	}

	if size-f.AudioStart >= id3v1Size {
		trailer := make([]byte, id3v1Size)
		if err := sr.ReadAt(trailer, size-id3v1Size, "ID3v1 tag"); err != nil {
			return nil, err
		}
		if string(trailer[:3]) == "TAG" {
			f.ID3v1 = trailer
			f.AudioEnd = size - id3v1Size
		}
	}

	loc, ok, err := ape.Find(r, size)
	if err != nil {
		return nil, err
	}
	if ok && loc.Start >= f.AudioStart {
		tag, err := ape.ReadAt(r, loc, opts)
		if err != nil {
			return nil, err
		}
		f.APE = tag
		f.AudioEnd = loc.Start
		return f, nil
	}

	// A bare APE tag stream may carry only a header.
	if f.AudioStart == 0 {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}
		tag, _, err := ape.Read(r, opts)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			pos, err := r.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, fmt.Errorf("mp3: %w", err)
			}
			f.APE = tag
			f.AudioStart = pos
		}
	}

	return f, nil
}

// Write writes f to w, taking the audio payload from src. Empty tags are
// left out.
func Write(w io.Writer, src io.ReaderAt, f *File) error {
	if f.ID3v2 != nil && !f.ID3v2.IsEmpty() {
		if _, err := f.ID3v2.Write(w, f.ID3v2Options); err != nil {
			return err
		}
	}

	audio := io.NewSectionReader(src, f.AudioStart, f.AudioEnd-f.AudioStart)
	if _, err := io.Copy(w, audio); err != nil {
		return fmt.Errorf("mp3: copy audio: %w", err)
	}

	if f.APE != nil && !f.APE.IsEmpty() {
		if _, err := f.APE.WriteTo(w); err != nil {
			return err
		}
	}

	if len(f.ID3v1) > 0 {
		if _, err := w.Write(f.ID3v1); err != nil {
			return fmt.Errorf("mp3: write ID3v1 tag: %w", err)
		}
	}
	return nil
}

// codec implements registry.Parser and registry.Writer.
type codec struct{}

func (codec) Parse(r registry.Source, size int64, opts types.ParseOptions) (registry.Container, error) {
	f, err := Read(r, size, opts)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (codec) Write(w io.Writer, src registry.Source, c registry.Container) error {
	f, ok := c.(*File)
	if !ok {
		return fmt.Errorf("mp3: cannot write %T", c)
	}
	return Write(w, src, f)
}

func init() {
	for _, format := range []types.Format{types.FormatMP3, types.FormatAPE} {
		registry.Register(format, codec{})
		registry.RegisterWriter(format, codec{})
	}
}

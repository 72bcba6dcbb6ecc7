package flac

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// AudioSpan implements registry.Container.
func (f *File) AudioSpan() (start, end int64) {
	return f.AudioStart, f.AudioEnd
}

// codec implements registry.Parser and registry.Writer for FLAC.
type codec struct{}

func (codec) Parse(r registry.Source, size int64, opts types.ParseOptions) (registry.Container, error) {
	f, err := Read(r, opts)
	if err != nil {
		return nil, err
	}
	f.AudioEnd = size
	return f, nil
}

func (codec) Write(w io.Writer, src registry.Source, c registry.Container) error {
	f, ok := c.(*File)
	if !ok {
		return fmt.Errorf("flac: cannot write %T", c)
	}
	return WriteWithOptions(w, src, f, f.WriteOptions)
}

func init() {
	registry.Register(types.FormatFLAC, codec{})
	registry.RegisterWriter(types.FormatFLAC, codec{})
}

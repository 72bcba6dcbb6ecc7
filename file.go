package audiotag

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/flac"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/mp3"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// File is an opened audio file with its parsed tags.
//
// Opening reads the metadata only; the audio payload is copied from the
// open handle when the file is saved. Always call Close when done:
//
//	file, err := audiotag.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	Path   string
	Format Format
	Size   int64

	// Tag is the unified view of the primary tag. Edit it, then Save.
	Tag *Tag

	// Native tags, nil when absent. The one behind Tag is replaced on Save;
	// the others are written back as they are.
	ID3v2 *ID3v2Tag
	APE   *APETag
	FLAC  *FLACStream

	// Properties of the audio stream, zero unless the format provides
	// them and properties were requested.
	Properties Properties

	// AudioStart and AudioEnd delimit the audio payload.
	AudioStart int64
	AudioEnd   int64

	container registry.Container
	merge     func() // writes Tag back into its native tag
	reader    registry.Source
	options   *openOptions
}

// Open opens an audio file and reads its tags.
//
// Supported formats: FLAC, MP3, APE
//
// Options can be provided to customize parsing behavior:
//
//	file, err := audiotag.Open("song.flac",
//	    audiotag.WithStrictParsing(),
//	    audiotag.WithLogger(logger),
//	)
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return open(path, options)
}

func open(path string, options *openOptions) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

// openReader parses an already open source. The File keeps r.
func openReader(r registry.Source, size int64, path string, options *openOptions) (*File, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	container, err := parser.Parse(r, size, options.parseOptions())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	file := &File{
		Path:      path,
		Format:    format,
		Size:      size,
		container: container,
		reader:    r,
		options:   options,
	}
	file.AudioStart, file.AudioEnd = container.AudioSpan()
	file.split()
	return file, nil
}

// split exposes the container's native tags and lifts the primary one
// into f.Tag.
func (f *File) split() {
	log := f.options.logger

	switch c := f.container.(type) {
	case *flac.File:
		f.FLAC = c
		f.ID3v2 = c.ID3v2
		f.Properties = c.Properties

		hadVorbis := c.Vorbis != nil
		native := c.Vorbis
		if native == nil {
			native = vorbis.NewTag()
		}
		rem, tag := vorbis.Split(native)
		for _, p := range c.Pictures {
			tag.PushPicture(p)
		}
		f.Tag = tag
		f.merge = func() {
			merged := vorbis.Merge(rem, f.Tag, log)
			c.Pictures = merged.TakePictures()
			c.Vorbis = merged
			if !hadVorbis && merged.IsEmpty() {
				c.Vorbis = nil
			}
		}

	case *mp3.File:
		f.ID3v2 = c.ID3v2
		f.APE = c.APE

		if c.ID3v2 == nil && (c.APE != nil || f.Format == FormatAPE) {
			native := c.APE
			if native == nil {
				native = ape.NewTag()
			}
			rem, tag := ape.Split(native)
			f.Tag = tag
			f.merge = func() {
				c.APE = ape.Merge(rem, f.Tag, log)
				f.APE = c.APE
			}
			return
		}

		native := c.ID3v2
		if native == nil {
			native = id3v2.NewTag()
		}
		rem, tag := id3v2.Split(native)
		f.Tag = tag
		f.merge = func() {
			c.ID3v2 = id3v2.Merge(rem, f.Tag, log)
			f.ID3v2 = c.ID3v2
		}
	}
}

// Chapters returns the chapter markers of the file: FLAC CUESHEET tracks,
// or CHAPTERxxx Vorbis comments. Other formats have none.
//
//	for _, ch := range file.Chapters() {
//		fmt.Printf("%d %s %s\n", ch.Index, ch.StartTime, ch.Title)
//	}
func (f *File) Chapters() []Chapter {
	if f.FLAC == nil {
		return nil
	}
	return f.FLAC.Chapters()
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before the file is opened; parsing itself reads
// only the metadata and is not interrupted.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple audio files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := audiotag.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	return OpenManyWithOptions(ctx, paths)
}

// OpenManyWithOptions is OpenMany with options applied to every file.
func OpenManyWithOptions(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

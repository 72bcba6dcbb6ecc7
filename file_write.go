package audiotag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/simonhull/audiotag/internal/flac"
	"github.com/simonhull/audiotag/internal/mp3"
	"github.com/simonhull/audiotag/internal/registry"
)

// Save writes the tags back to the original file.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the original path. If any step fails, the original file remains unchanged.
// On success the File is re-read from the new file, so it can be edited
// and saved again.
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) Save(opts ...SaveOption) error {
	if err := f.SaveAs(f.Path, opts...); err != nil {
		return err
	}
	return f.reload()
}

// SaveAs writes the file to a new location.
//
// f.Tag is merged into the primary native tag first; the audio payload is
// copied from the open source file. The File keeps reading from its
// original path.
//
//	err := file.SaveAs("/new/path/song.flac",
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	writer := registry.GetWriter(f.Format)
	if writer == nil {
		return &UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	if f.reader == nil {
		return errors.New("file not open: reader is nil")
	}

	if f.merge != nil {
		f.merge()
	}
	if options.padding != nil {
		f.applyPadding(*options.padding)
	}

	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	// Same directory as output so the rename stays atomic
	tempFile, err := os.CreateTemp(filepath.Dir(outputPath), ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := writer.Write(tempFile, f.reader, f.container); err != nil {
		return fmt.Errorf("write %s: %w", f.Format, err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, outputPath+options.backupSuffix); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if origInfo != nil {
		_ = os.Chtimes(outputPath, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := f.validateWrittenFile(outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

func (f *File) applyPadding(n uint32) {
	switch c := f.container.(type) {
	case *flac.File:
		c.WriteOptions.Padding = n
	case *mp3.File:
		c.ID3v2Options.Padding = n
	}
}

// reload re-reads f from its path after the file was replaced.
func (f *File) reload() error {
	fresh, err := open(f.Path, f.options)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	_ = f.Close() //nolint:errcheck // The old handle points at the replaced file
	*f = *fresh
	return nil
}

// validatedKeys are compared after a validated save. Every format maps
// them, so a mismatch means the write lost data.
var validatedKeys = []ItemKey{
	ItemKeyTrackTitle,
	ItemKeyTrackArtist,
	ItemKeyAlbumTitle,
	ItemKeyTrackNumber,
	ItemKeyDiscNumber,
}

// validateWrittenFile re-opens the file and compares key metadata fields.
func (f *File) validateWrittenFile(path string) error {
	written, err := open(path, f.options)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	for _, key := range validatedKeys {
		want, _ := f.Tag.GetString(key)
		got, _ := written.Tag.GetString(key)
		if got != want {
			return fmt.Errorf("%s mismatch: got %q, want %q", key, got, want)
		}
	}

	if !slices.EqualFunc(written.Tag.Pictures(), f.Tag.Pictures(), Picture.Equal) {
		return fmt.Errorf("picture mismatch: got %d, want %d", len(written.Tag.Pictures()), len(f.Tag.Pictures()))
	}
	return nil
}

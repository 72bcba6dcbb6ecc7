package audiotag

// SaveOption configures behavior when saving audio files.
//
// Example:
//
//	err := file.Save(
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string  // Suffix for backup file (e.g., ".bak")
	validate        bool    // Re-read after write to verify
	preserveModTime bool    // Keep original modification time
	padding         *uint32 // Overrides the format's default padding
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup keeps the previous file next to the new one.
//
// WithBackup(".bak") renames "song.mp3" to "song.mp3.bak" right before the
// new file takes its place. An existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-opens the file after writing and checks that the
// unified tag reads back the same.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// Useful when a library sorts by "date modified" and a tag fix should not
// move the file.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithPadding sets the free space reserved after the tag: the FLAC PADDING
// block or the ID3v2 padding. APE tags carry no padding.
//
// Example:
//
//	err := file.Save(audiotag.WithPadding(0)) // smallest possible file
func WithPadding(n uint32) SaveOption {
	return func(o *saveOptions) {
		o.padding = &n
	}
}

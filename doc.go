// Package audiotag reads and writes audio metadata tags.
//
// It understands APE tags, ID3v2 (2.2, 2.3 and 2.4) and FLAC metadata
// (Vorbis Comments, PICTURE and CUESHEET blocks), and lifts each of them
// into one unified Tag so callers can edit metadata without caring which
// format stores it.
//
// # Quick Start
//
//	file, err := audiotag.Open("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	title, _ := file.Tag.GetString(audiotag.ItemKeyTrackTitle)
//	fmt.Println(title, file.Properties.Duration)
//
// # Supported Formats
//
//   - FLAC: Vorbis Comments, PICTURE blocks, CUESHEET chapters, STREAMINFO
//   - MP3: a leading ID3v2 tag, a trailing APE tag and ID3v1
//   - APE: Monkey's Audio files and bare APE tag streams
//
// # Editing
//
// File.Tag holds the primary tag of the file: Vorbis Comments for FLAC,
// ID3v2 for MP3, APE otherwise. Save merges it back into the native tag
// and rewrites the file atomically:
//
//	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "New Title")
//	if err := file.Save(audiotag.WithBackup(".bak")); err != nil {
//		log.Fatal(err)
//	}
//
// Secondary tags (the APE tag of an MP3 that also has ID3v2, or the ID3v2
// prefix of a FLAC stream) are exposed as native tags on File and are
// written back unchanged unless edited directly.
//
// # Error Handling
//
// Container-level damage is always fatal. Damage inside a tag (a bad
// item, frame or picture) is fatal with WithStrictParsing and is otherwise
// dropped with a warning sent to the logger given by WithLogger:
//
//	file, err := audiotag.Open("song.mp3",
//		audiotag.WithLogger(slog.Default()),
//	)
//
// Parse multiple files concurrently:
//
//	files, err := audiotag.OpenMany(ctx, paths...)
package audiotag

package audiotag_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	dtag "github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/id3v2"
)

func TestSave_FLAC(t *testing.T) {
	path := writeFile(t, "song.flac", createFLAC(t))
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "Edited Title")
	file.Tag.SetText(audiotag.ItemKeyGenre, "Ambient")
	file.Tag.PushPicture(cover)

	if err := file.Save(audiotag.WithValidation()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The File is re-read and stays usable
	wantText(t, file.Tag, audiotag.ItemKeyTrackTitle, "Edited Title")
	if len(file.Tag.Pictures()) != 1 {
		t.Errorf("Pictures() after save = %d, want 1", len(file.Tag.Pictures()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, flacFrames) {
		t.Error("audio frames not preserved")
	}

	meta, err := goflac.ParseMetadata(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("go-flac ParseMetadata() error = %v", err)
	}
	var blocks []goflac.BlockType
	for _, b := range meta.Meta {
		blocks = append(blocks, b.Type)
	}
	want := []goflac.BlockType{goflac.StreamInfo, goflac.VorbisComment, goflac.Picture, goflac.Padding}
	if !slices.Equal(blocks, want) {
		t.Errorf("block types = %v, want %v", blocks, want)
	}

	m, err := dtag.ReadFLACTags(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("dhowden/tag ReadFLACTags() error = %v", err)
	}
	if m.Title() != "Edited Title" || m.Genre() != "Ambient" || m.Album() != "FLAC Album" {
		t.Errorf("dhowden tags = %q / %q / %q", m.Title(), m.Genre(), m.Album())
	}
	if track, total := m.Track(); track != 3 || total != 12 {
		t.Errorf("dhowden Track() = %d/%d, want 3/12", track, total)
	}
	if p := m.Picture(); p == nil || !bytes.Equal(p.Data, cover.Data) {
		t.Error("dhowden Picture() does not hold the cover")
	}
}

func TestSave_MP3(t *testing.T) {
	path := writeFile(t, "song.mp3", createMP3(t))
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "Edited Title")
	file.Tag.SetText(audiotag.ItemKeyTrackNumber, "4")
	file.Tag.SetText(audiotag.ItemKeyTrackTotal, "9")

	if err := file.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	m, err := dtag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("dhowden/tag ReadFrom() error = %v", err)
	}
	if m.Title() != "Edited Title" || m.Artist() != "ID3 Artist" {
		t.Errorf("dhowden tags = %q / %q", m.Title(), m.Artist())
	}
	if track, total := m.Track(); track != 4 || total != 9 {
		t.Errorf("dhowden Track() = %d/%d, want 4/9", track, total)
	}

	// The secondary APE tag is written back unchanged
	if file.APE == nil {
		t.Fatal("APE tag lost on save")
	}
	if title, _ := file.APE.Title(); title != "APE Title" {
		t.Errorf("APE title = %q", title)
	}
	if !bytes.Contains(data, mpegFrames) {
		t.Error("audio payload not preserved")
	}
}

func TestSave_KeepsUnsynchronisation(t *testing.T) {
	tag := id3v2.NewTag()
	tag.SetTitle("Sync")
	tag.SetArtist("Unsync Artist")
	head, err := tag.Bytes(id3v2.WriteOptions{Version: id3v2.V24, Unsynchronize: true})
	if err != nil {
		t.Fatalf("id3v2 Bytes() error = %v", err)
	}
	path := writeFile(t, "unsync.mp3", append(head, mpegFrames...))

	file := open(t, path)
	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "Edited")
	if err := file.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[5]&0x80 == 0 {
		t.Errorf("header flags = %#02x, want the unsynchronisation bit", data[5])
	}
	wantText(t, file.Tag, audiotag.ItemKeyTrackTitle, "Edited")
	wantText(t, file.Tag, audiotag.ItemKeyTrackArtist, "Unsync Artist")
}

func TestSave_APE(t *testing.T) {
	data := append(append([]byte{}, mpegFrames...), createAPE(t, "Old")...)
	path := writeFile(t, "song.mp3", data)
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "New")

	if err := file.Save(audiotag.WithValidation()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if file.ID3v2 != nil {
		t.Error("saving an APE-only file added an ID3v2 tag")
	}
	if title, _ := file.APE.Title(); title != "New" {
		t.Errorf("APE title = %q, want %q", title, "New")
	}
	wantText(t, file.Tag, audiotag.ItemKeyTrackNumber, "5")
}

func TestSaveAs_LeavesOriginal(t *testing.T) {
	original := createFLAC(t)
	path := writeFile(t, "song.flac", original)
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "Copy")

	out := filepath.Join(t.TempDir(), "copy.flac")
	if err := file.SaveAs(out); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, original) {
		t.Error("SaveAs modified the source file")
	}

	copied := open(t, out)
	wantText(t, copied.Tag, audiotag.ItemKeyTrackTitle, "Copy")
	wantText(t, copied.Tag, audiotag.ItemKeyAlbumTitle, "FLAC Album")
}

func TestSave_Backup(t *testing.T) {
	original := createMP3(t)
	path := writeFile(t, "song.mp3", original)
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyTrackTitle, "Edited")

	if err := file.Save(audiotag.WithBackup(".bak")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, original) {
		t.Error("backup does not hold the original bytes")
	}
}

func TestSave_PreserveModTime(t *testing.T) {
	path := writeFile(t, "song.flac", createFLAC(t))
	past := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}
	file := open(t, path)

	file.Tag.SetText(audiotag.ItemKeyComment, "touched")

	if err := file.Save(audiotag.WithPreserveModTime()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), past)
	}
}

func TestSave_Padding(t *testing.T) {
	sizeWith := func(opts ...audiotag.SaveOption) int64 {
		t.Helper()
		file := open(t, writeFile(t, "song.flac", createFLAC(t)))
		if err := file.Save(opts...); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		return file.Size
	}

	defaultSize := sizeWith()
	compact := sizeWith(audiotag.WithPadding(0))

	if defaultSize-compact != 1024 {
		t.Errorf("default padding adds %d bytes, want 1024", defaultSize-compact)
	}
}

func TestSave_NoLeftoverTempFiles(t *testing.T) {
	path := writeFile(t, "song.flac", createFLAC(t))
	file := open(t, path)

	if err := file.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".audiotag-*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestSaveAs_MissingDirectory(t *testing.T) {
	file := open(t, writeFile(t, "song.flac", createFLAC(t)))

	err := file.SaveAs(filepath.Join(t.TempDir(), "missing", "out.flac"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("SaveAs() error = %v, want os.ErrNotExist", err)
	}
}

package flac

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	dtag "github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"

	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// audioFrames stands in for the encoded audio after the metadata.
var audioFrames = []byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x01, 0x02, 0x03}

var pngData = []byte("\x89PNG\r\n\x1a\ncover bytes")

// streamInfo builds a 34-byte STREAMINFO payload.
func streamInfo(sampleRate, channels, bitsPerSample, totalSamples uint64) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(4096)) // min block size
	binary.Write(buf, binary.BigEndian, uint16(4096)) // max block size
	buf.Write(make([]byte, 6))                        // min/max frame size

	packed := sampleRate<<44 | (channels-1)<<41 | (bitsPerSample-1)<<36 | totalSamples
	binary.Write(buf, binary.BigEndian, packed)

	buf.Write(bytes.Repeat([]byte{0xAB}, 16)) // MD5
	return buf.Bytes()
}

// block builds a metadata block with its 4-byte header.
func block(typ BlockType, last bool, content []byte) []byte {
	header := byte(typ)
	if last {
		header |= 0x80
	}
	n := len(content)
	return append([]byte{header, byte(n >> 16), byte(n >> 8), byte(n)}, content...)
}

// comments builds a VORBIS_COMMENT payload.
func comments(vendor string, fields ...string) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(fields)))
	for _, f := range fields {
		binary.Write(buf, binary.LittleEndian, uint32(len(f)))
		buf.WriteString(f)
	}
	return buf.Bytes()
}

func picture(pt types.PictureType, desc string) []byte {
	b := vorbis.EncodePicture(types.Picture{Type: pt, MIMEType: "image/png", Description: desc, Data: pngData})
	return b.Data
}

// stream joins the marker, the given blocks and the audio frames.
func stream(blocks ...[]byte) []byte {
	out := []byte(Marker)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return append(out, audioFrames...)
}

// minimalFLAC is one second of 44.1kHz 16-bit stereo with a few tags,
// a cover and padding.
func minimalFLAC() []byte {
	return stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100)),
		block(BlockVorbisComment, false, comments("reference libFLAC 1.4.3", "TITLE=Test Song", "ARTIST=Test Artist", "ALBUM=Test Album")),
		block(BlockPicture, false, picture(types.PictureFrontCover, "front")),
		block(BlockPadding, true, make([]byte, 16)),
	)
}

func strict() types.ParseOptions {
	return types.ParseOptions{ParsingMode: types.Strict, ReadProperties: true}
}

func relaxed(buf *bytes.Buffer) types.ParseOptions {
	return types.ParseOptions{
		ParsingMode:    types.Relaxed,
		ReadProperties: true,
		Logger:         slog.New(slog.NewTextHandler(buf, nil)),
	}
}

func TestRead_Success(t *testing.T) {
	data := minimalFLAC()

	f, err := Read(bytes.NewReader(data), strict())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if f.Vorbis == nil {
		t.Fatal("expected a Vorbis Comment tag")
	}
	if f.Vorbis.Vendor != "reference libFLAC 1.4.3" {
		t.Errorf("Vendor = %q", f.Vorbis.Vendor)
	}
	for _, tc := range []struct {
		got  func() (string, bool)
		want string
	}{
		{f.Vorbis.Title, "Test Song"},
		{f.Vorbis.Artist, "Test Artist"},
		{f.Vorbis.Album, "Test Album"},
	} {
		if got, _ := tc.got(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}

	if len(f.Pictures) != 1 {
		t.Fatalf("got %d pictures, want 1", len(f.Pictures))
	}
	if pic := f.Pictures[0]; pic.Type != types.PictureFrontCover || pic.Description != "front" || !bytes.Equal(pic.Data, pngData) {
		t.Errorf("picture = %v", pic)
	}

	if len(f.Blocks) != 0 {
		t.Errorf("got %d preserved blocks, want 0 (padding is dropped)", len(f.Blocks))
	}
	if want := int64(len(data) - len(audioFrames)); f.AudioStart != want {
		t.Errorf("AudioStart = %d, want %d", f.AudioStart, want)
	}
	if f.AudioEnd != int64(len(data)) {
		t.Errorf("AudioEnd = %d, want %d", f.AudioEnd, len(data))
	}

	props := f.Properties
	if props.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", props.SampleRate)
	}
	if props.Channels != 2 {
		t.Errorf("Channels = %d, want 2", props.Channels)
	}
	if props.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", props.BitDepth)
	}
	if props.TotalSamples != 44100 {
		t.Errorf("TotalSamples = %d, want 44100", props.TotalSamples)
	}
	if props.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", props.Duration)
	}
	// 8 audio bytes over 1000ms
	if props.AudioBitrate != 0 {
		t.Errorf("AudioBitrate = %d, want 0", props.AudioBitrate)
	}
	if props.Signature[0] != 0xAB {
		t.Errorf("Signature not read")
	}
}

func TestRead_WithoutProperties(t *testing.T) {
	opts := strict()
	opts.ReadProperties = false

	f, err := Read(bytes.NewReader(minimalFLAC()), opts)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.Properties != (types.Properties{}) {
		t.Errorf("Properties = %+v, want zero", f.Properties)
	}
	if f.AudioStart == 0 {
		t.Error("AudioStart should be set without properties")
	}
}

func TestRead_ContainerErrors(t *testing.T) {
	info := streamInfo(44100, 2, 16, 44100)

	tests := []struct {
		name string
		data []byte
	}{
		{"missing marker", append([]byte("OggS"), block(BlockStreamInfo, true, info)...)},
		{"first block not STREAMINFO", stream(block(BlockPadding, true, make([]byte, 34)))},
		{"short STREAMINFO", stream(block(BlockStreamInfo, true, info[:17]))},
		{"zero-sized application block", stream(
			block(BlockStreamInfo, false, info),
			block(BlockApplication, true, nil),
		)},
		{"invalid block type", stream(
			block(BlockStreamInfo, false, info),
			block(goflac.Invalid, true, []byte{1}),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Container violations are fatal in every mode
			var buf bytes.Buffer
			for _, opts := range []types.ParseOptions{strict(), relaxed(&buf)} {
				_, err := Read(bytes.NewReader(tt.data), opts)
				var decodeErr *types.DecodeError
				if !errors.As(err, &decodeErr) {
					t.Errorf("%s: error = %v, want *types.DecodeError", opts.ParsingMode, err)
					continue
				}
				if decodeErr.Container != types.FormatFLAC || decodeErr.Format != types.TagTypeUnknown {
					t.Errorf("%s: Container = %v, Format = %v, want FLAC container error",
						opts.ParsingMode, decodeErr.Container, decodeErr.Format)
				}
				if msg := err.Error(); !strings.HasPrefix(msg, "FLAC: ") || strings.Contains(msg, "flac:") {
					t.Errorf("%s: Error() = %q, want a single FLAC prefix", opts.ParsingMode, msg)
				}
			}
		})
	}
}

func TestRead_Truncated(t *testing.T) {
	data := minimalFLAC()
	// Cut inside the Vorbis Comment block
	data = data[:len(Marker)+4+34+10]

	if _, err := Read(bytes.NewReader(data), types.DefaultParseOptions()); err == nil {
		t.Fatal("expected error for truncated block")
	}
}

func TestRead_EmptyPaddingAndSeekTable(t *testing.T) {
	data := stream(
		block(BlockStreamInfo, false, streamInfo(48000, 1, 24, 0)),
		block(BlockSeekTable, false, nil),
		block(BlockPadding, true, nil),
	)

	f, err := Read(bytes.NewReader(data), strict())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(f.Blocks) != 1 || f.Blocks[0].Type != BlockSeekTable {
		t.Errorf("Blocks = %+v, want the seek table", f.Blocks)
	}
	if f.Properties.Duration != 0 {
		t.Errorf("Duration = %v, want 0 without samples", f.Properties.Duration)
	}
}

func TestRead_DuplicateVorbisComments(t *testing.T) {
	data := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100)),
		block(BlockVorbisComment, false, comments("first", "TITLE=First")),
		block(BlockVorbisComment, true, comments("second", "TITLE=Second")),
	)

	t.Run("strict", func(t *testing.T) {
		if _, err := Read(bytes.NewReader(data), strict()); err == nil {
			t.Fatal("expected error for a second Vorbis Comment block")
		}
	})

	t.Run("relaxed", func(t *testing.T) {
		var buf bytes.Buffer
		f, err := Read(bytes.NewReader(data), relaxed(&buf))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if title, _ := f.Vorbis.Title(); title != "Second" {
			t.Errorf("Title = %q, want the latest block to win", title)
		}
		if !strings.Contains(buf.String(), "second Vorbis Comment block") {
			t.Errorf("expected a warning, log = %q", buf.String())
		}
	})
}

func TestRead_BadPicture(t *testing.T) {
	bad := picture(types.PictureFrontCover, "front")
	bad = bad[:len(bad)-4] // image length now exceeds the block

	data := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100)),
		block(BlockPicture, false, bad),
		block(BlockPicture, true, picture(types.PictureBackCover, "back")),
	)

	t.Run("strict", func(t *testing.T) {
		if _, err := Read(bytes.NewReader(data), strict()); err == nil {
			t.Fatal("expected error for a malformed picture")
		}
	})

	t.Run("relaxed", func(t *testing.T) {
		var buf bytes.Buffer
		f, err := Read(bytes.NewReader(data), relaxed(&buf))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(f.Pictures) != 1 || f.Pictures[0].Type != types.PictureBackCover {
			t.Errorf("Pictures = %v, want only the back cover", f.Pictures)
		}
		if !strings.Contains(buf.String(), "discarding unreadable picture block") {
			t.Errorf("expected a warning, log = %q", buf.String())
		}
	})
}

func TestRead_ID3v2Prefix(t *testing.T) {
	id3 := id3v2.NewTag()
	id3.Insert(&id3v2.TextFrame{FrameID: "TIT2", Value: "ID3 Title", Encoding: id3v2.EncodingUTF8})
	prefix, err := id3.Bytes(id3v2.WriteOptions{Version: id3v2.V24})
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	data := append(prefix, minimalFLAC()...)

	var buf bytes.Buffer
	f, err := Read(bytes.NewReader(data), relaxed(&buf))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if f.ID3v2 == nil {
		t.Fatal("expected the ID3v2 tag to be kept")
	}
	if title, _ := f.ID3v2.Title(); title != "ID3 Title" {
		t.Errorf("ID3v2 title = %q", title)
	}
	if f.MarkerOffset != int64(len(prefix)) {
		t.Errorf("MarkerOffset = %d, want %d", f.MarkerOffset, len(prefix))
	}
	if title, _ := f.Vorbis.Title(); title != "Test Song" {
		t.Errorf("Vorbis title = %q", title)
	}
	if want := int64(len(data) - len(audioFrames)); f.AudioStart != want {
		t.Errorf("AudioStart = %d, want %d", f.AudioStart, want)
	}

	// Write copies the prefix unchanged
	var out bytes.Buffer
	if err := Write(&out, bytes.NewReader(data), f); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), prefix) {
		t.Error("written file does not start with the original ID3v2 tag")
	}
	if !bytes.HasSuffix(out.Bytes(), audioFrames) {
		t.Error("written file does not end with the audio frames")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	app := block(BlockApplication, false, []byte("abcdpayload"))
	src := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100)),
		block(BlockPadding, false, make([]byte, 8)),
		block(BlockVorbisComment, false, comments("old vendor", "TITLE=Old")),
		app,
		block(BlockPicture, true, picture(types.PictureFrontCover, "front")),
	)

	f, err := Read(bytes.NewReader(src), strict())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	f.Vorbis.SetTitle("New Title")
	f.Vorbis.SetTrack(3)
	f.Pictures = append(f.Pictures, types.Picture{Type: types.PictureBackCover, MIMEType: "image/png", Data: pngData})

	var out bytes.Buffer
	if err := Write(&out, bytes.NewReader(src), f); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	written := out.Bytes()

	if !bytes.HasSuffix(written, audioFrames) {
		t.Error("audio frames not preserved")
	}

	// Block layout, checked with go-flac
	parsed, err := goflac.ParseMetadata(bytes.NewReader(written))
	if err != nil {
		t.Fatalf("go-flac ParseMetadata() error = %v", err)
	}
	wantTypes := []goflac.BlockType{
		goflac.StreamInfo, goflac.Application, goflac.VorbisComment,
		goflac.Picture, goflac.Picture, goflac.Padding,
	}
	if len(parsed.Meta) != len(wantTypes) {
		t.Fatalf("got %d blocks, want %d", len(parsed.Meta), len(wantTypes))
	}
	for i, want := range wantTypes {
		if parsed.Meta[i].Type != want {
			t.Errorf("block %d type = %d, want %d", i, parsed.Meta[i].Type, want)
		}
	}
	if n := len(parsed.Meta[5].Data); n != DefaultPadding {
		t.Errorf("padding = %d bytes, want %d", n, DefaultPadding)
	}
	info, err := parsed.GetStreamInfo()
	if err != nil {
		t.Fatalf("GetStreamInfo() error = %v", err)
	}
	if info.SampleRate != 44100 || info.ChannelCount != 2 || info.BitDepth != 16 {
		t.Errorf("stream info = %+v", info)
	}

	// Tags, checked with an independent reader
	m, err := dtag.ReadFLACTags(bytes.NewReader(written))
	if err != nil {
		t.Fatalf("dhowden/tag ReadFLACTags() error = %v", err)
	}
	if m.Title() != "New Title" {
		t.Errorf("dhowden Title() = %q", m.Title())
	}
	if track, _ := m.Track(); track != 3 {
		t.Errorf("dhowden Track() = %d, want 3", track)
	}
	if m.Picture() == nil {
		t.Error("dhowden Picture() = nil")
	}

	// And with our own reader
	again, err := Read(bytes.NewReader(written), strict())
	if err != nil {
		t.Fatalf("re-read error = %v", err)
	}
	if title, _ := again.Vorbis.Title(); title != "New Title" {
		t.Errorf("re-read title = %q", title)
	}
	if again.Vorbis.Vendor != "old vendor" {
		t.Errorf("re-read vendor = %q", again.Vorbis.Vendor)
	}
	if len(again.Pictures) != 2 {
		t.Errorf("re-read %d pictures, want 2", len(again.Pictures))
	}
	if len(again.Blocks) != 1 || !bytes.Equal(again.Blocks[0].Content, []byte("abcdpayload")) {
		t.Errorf("application block not preserved: %+v", again.Blocks)
	}
	if again.Properties.TotalSamples != 44100 {
		t.Errorf("TotalSamples = %d", again.Properties.TotalSamples)
	}
}

func TestWrite_VorbisPicturesBecomeBlocks(t *testing.T) {
	src := stream(block(BlockStreamInfo, true, streamInfo(44100, 2, 16, 44100)))

	f, err := Read(bytes.NewReader(src), strict())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.Vorbis != nil {
		t.Fatal("expected no Vorbis Comment tag")
	}

	f.Vorbis = vorbis.NewTag()
	f.Vorbis.SetArtist("Artist")
	f.Vorbis.PushPicture(types.Picture{Type: types.PictureArtist, MIMEType: "image/png", Data: pngData})

	var out bytes.Buffer
	if err := WriteWithOptions(&out, bytes.NewReader(src), f, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	again, err := Read(bytes.NewReader(out.Bytes()), strict())
	if err != nil {
		t.Fatalf("re-read error = %v", err)
	}
	if again.Vorbis.Vendor != vorbis.DefaultVendor {
		t.Errorf("Vendor = %q, want %q", again.Vorbis.Vendor, vorbis.DefaultVendor)
	}
	if len(again.Vorbis.Pictures()) != 0 {
		t.Error("pictures should not be embedded in the comment block")
	}
	if len(again.Pictures) != 1 || again.Pictures[0].Type != types.PictureArtist {
		t.Errorf("Pictures = %v", again.Pictures)
	}
}

// cueSheet builds a CUESHEET payload with one index per track.
func cueSheet(tracks ...CueTrack) []byte {
	buf := &bytes.Buffer{}
	mcn := make([]byte, 128)
	copy(mcn, "1234567890123")
	buf.Write(mcn)
	binary.Write(buf, binary.BigEndian, uint64(88200))
	flags := make([]byte, 259)
	flags[0] = 0x80
	buf.Write(flags)
	buf.WriteByte(byte(len(tracks)))

	for _, tr := range tracks {
		binary.Write(buf, binary.BigEndian, tr.Offset)
		buf.WriteByte(tr.Number)
		isrc := make([]byte, 12)
		copy(isrc, tr.ISRC)
		buf.Write(isrc)
		trackFlags := make([]byte, 14)
		if !tr.IsAudio {
			trackFlags[0] = 0x80
		}
		buf.Write(trackFlags)
		buf.WriteByte(byte(len(tr.Indices)))
		for _, idx := range tr.Indices {
			binary.Write(buf, binary.BigEndian, idx.Offset)
			buf.WriteByte(idx.Number)
			buf.Write(make([]byte, 3))
		}
	}
	return buf.Bytes()
}

func TestCueSheet(t *testing.T) {
	sheet := cueSheet(
		CueTrack{Offset: 0, Number: 1, IsAudio: true, Indices: []CueIndex{{Number: 1}}},
		CueTrack{Offset: 441000, Number: 2, ISRC: "USABC1234567", IsAudio: true, Indices: []CueIndex{{Number: 1}}},
		CueTrack{Offset: 882000, Number: leadOutTrack},
	)

	data := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 882000)),
		block(BlockCueSheet, true, sheet),
	)

	opts := strict()
	opts.ReadProperties = false
	f, err := Read(bytes.NewReader(data), opts)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if f.CueSheet == nil {
		t.Fatal("expected a cue sheet")
	}
	if f.CueSheet.MediaCatalogNumber != "1234567890123" || !f.CueSheet.IsCD || f.CueSheet.LeadIn != 88200 {
		t.Errorf("cue sheet header = %+v", f.CueSheet)
	}
	if len(f.Blocks) != 1 {
		t.Errorf("CUESHEET block should be preserved for write")
	}

	want := []types.Chapter{
		{Index: 1, Title: "Track 01", StartTime: 0, EndTime: 10 * time.Second},
		{Index: 2, Title: "Track 02 (USABC1234567)", StartTime: 10 * time.Second, EndTime: 20 * time.Second},
	}
	got := f.Chapters()
	if len(got) != len(want) {
		t.Fatalf("got %d chapters, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chapter %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCueSheet_Invalid(t *testing.T) {
	data := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100)),
		block(BlockCueSheet, true, make([]byte, 100)),
	)

	var buf bytes.Buffer
	f, err := Read(bytes.NewReader(data), relaxed(&buf))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.CueSheet != nil {
		t.Error("expected no cue sheet")
	}
	if !strings.Contains(buf.String(), "CUESHEET") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}

	_, err = ParseCueSheet(make([]byte, 100))
	if !errors.Is(err, types.ErrSizeMismatch) {
		t.Errorf("ParseCueSheet() error = %v, want ErrSizeMismatch", err)
	}
	var decodeErr *types.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Container != types.FormatFLAC {
		t.Errorf("ParseCueSheet() error = %#v, want FLAC container error", err)
	}
}

func TestChapters_VorbisFallback(t *testing.T) {
	data := stream(
		block(BlockStreamInfo, false, streamInfo(44100, 2, 16, 44100*60)),
		block(BlockVorbisComment, true, comments("v",
			"CHAPTER001=00:00:00.000", "CHAPTER001NAME=Intro",
			"CHAPTER002=00:00:30.000", "CHAPTER002NAME=Outro",
		)),
	)

	f, err := Read(bytes.NewReader(data), strict())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	chapters := f.Chapters()
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[1].Title != "Outro" || chapters[1].EndTime != time.Minute {
		t.Errorf("last chapter = %+v", chapters[1])
	}
}

func BenchmarkRead(b *testing.B) {
	data := minimalFLAC()
	opts := types.DefaultParseOptions()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Read(bytes.NewReader(data), opts); err != nil {
			b.Fatal(err)
		}
	}
}

func TestBlockName(t *testing.T) {
	tests := []struct {
		typ  BlockType
		want string
	}{
		{BlockStreamInfo, "STREAMINFO"},
		{BlockVorbisComment, "VORBIS_COMMENT"},
		{BlockCueSheet, "CUESHEET"},
		{BlockType(9), "RESERVED(9)"},
	}
	for _, tt := range tests {
		if got := BlockName(tt.typ); got != tt.want {
			t.Errorf("BlockName(%d) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

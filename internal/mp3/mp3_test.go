package mp3

import (
	"bytes"
	"testing"

	dtag "github.com/dhowden/tag"

	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
)

// audio is a stand-in MPEG payload starting with a frame sync.
var audio = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0x55}, 60)...)

func id3Bytes(t *testing.T, title string, v id3v2.Version) []byte {
	t.Helper()
	tag := id3v2.NewTag()
	tag.SetTitle(title)
	tag.SetArtist("ID3 Artist")
	b, err := tag.Bytes(id3v2.WriteOptions{Version: v, Padding: 32})
	if err != nil {
		t.Fatalf("id3v2 Bytes() error = %v", err)
	}
	return b
}

func apeBytes(t *testing.T, title string) []byte {
	t.Helper()
	tag := ape.NewTag()
	tag.SetTitle(title)
	tag.SetTrack(7)
	b, err := tag.Bytes()
	if err != nil {
		t.Fatalf("ape Bytes() error = %v", err)
	}
	return b
}

func id3v1() []byte {
	b := make([]byte, id3v1Size)
	copy(b, "TAGv1 title")
	return b
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestRead(t *testing.T) {
	head := id3Bytes(t, "ID3 Title", id3v2.V24)
	tail := apeBytes(t, "APE Title")

	tests := []struct {
		name      string
		data      []byte
		wantID3   bool
		wantAPE   bool
		wantV1    bool
		wantStart int64
		wantEnd   int64
	}{
		{
			name:    "no tags",
			data:    audio,
			wantEnd: int64(len(audio)),
		},
		{
			name:      "ID3v2 only",
			data:      join(head, audio),
			wantID3:   true,
			wantStart: int64(len(head)),
			wantEnd:   int64(len(head) + len(audio)),
		},
		{
			name:    "APE only",
			data:    join(audio, tail),
			wantAPE: true,
			wantEnd: int64(len(audio)),
		},
		{
			name:      "ID3v2, APE and ID3v1",
			data:      join(head, audio, tail, id3v1()),
			wantID3:   true,
			wantAPE:   true,
			wantV1:    true,
			wantStart: int64(len(head)),
			wantEnd:   int64(len(head) + len(audio)),
		},
		{
			name:    "ID3v1 only",
			data:    join(audio, id3v1()),
			wantV1:  true,
			wantEnd: int64(len(audio)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Read(bytes.NewReader(tt.data), int64(len(tt.data)), types.DefaultParseOptions())
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}

			if (f.ID3v2 != nil) != tt.wantID3 {
				t.Errorf("ID3v2 present = %v, want %v", f.ID3v2 != nil, tt.wantID3)
			}
			if (f.APE != nil) != tt.wantAPE {
				t.Errorf("APE present = %v, want %v", f.APE != nil, tt.wantAPE)
			}
			if (f.ID3v1 != nil) != tt.wantV1 {
				t.Errorf("ID3v1 present = %v, want %v", f.ID3v1 != nil, tt.wantV1)
			}

			start, end := f.AudioSpan()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("AudioSpan() = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}

			if tt.wantID3 {
				if title, _ := f.ID3v2.Title(); title != "ID3 Title" {
					t.Errorf("ID3v2 title = %q", title)
				}
			}
			if tt.wantAPE {
				if title, _ := f.APE.Title(); title != "APE Title" {
					t.Errorf("APE title = %q", title)
				}
			}
		})
	}
}

func TestRead_BareAPEStream(t *testing.T) {
	data := apeBytes(t, "Bare")

	f, err := Read(bytes.NewReader(data), int64(len(data)), types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.APE == nil {
		t.Fatal("expected an APE tag")
	}
	if track, _ := f.APE.Track(); track != 7 {
		t.Errorf("Track = %d, want 7", track)
	}
	if start, end := f.AudioSpan(); start != 0 || end != 0 {
		t.Errorf("AudioSpan() = (%d, %d), want empty", start, end)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	src := join(id3Bytes(t, "Old", id3v2.V24), audio, apeBytes(t, "Old"), id3v1())

	f, err := Read(bytes.NewReader(src), int64(len(src)), types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	f.ID3v2.SetTitle("New ID3 Title")
	f.APE.SetTitle("New APE Title")

	var out bytes.Buffer
	if err := Write(&out, bytes.NewReader(src), f); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	written := out.Bytes()

	if !bytes.HasSuffix(written, id3v1()) {
		t.Error("ID3v1 tag not preserved at the end")
	}

	again, err := Read(bytes.NewReader(written), int64(len(written)), types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("re-read error = %v", err)
	}
	if title, _ := again.ID3v2.Title(); title != "New ID3 Title" {
		t.Errorf("ID3v2 title = %q", title)
	}
	if title, _ := again.APE.Title(); title != "New APE Title" {
		t.Errorf("APE title = %q", title)
	}
	start, end := again.AudioSpan()
	if !bytes.Equal(written[start:end], audio) {
		t.Error("audio payload changed")
	}

	// Independent reader
	m, err := dtag.ReadFrom(bytes.NewReader(written))
	if err != nil {
		t.Fatalf("dhowden/tag ReadFrom() error = %v", err)
	}
	if m.Title() != "New ID3 Title" {
		t.Errorf("dhowden Title() = %q", m.Title())
	}
	if m.Artist() != "ID3 Artist" {
		t.Errorf("dhowden Artist() = %q", m.Artist())
	}
}

func TestWrite_KeepsID3v23(t *testing.T) {
	src := join(id3Bytes(t, "v2.3", id3v2.V23), audio)

	f, err := Read(bytes.NewReader(src), int64(len(src)), types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.ID3v2Options.Version != id3v2.V23 {
		t.Fatalf("write version = %v, want %v", f.ID3v2Options.Version, id3v2.V23)
	}

	var out bytes.Buffer
	if err := Write(&out, bytes.NewReader(src), f); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := out.Bytes()[3]; got != 3 {
		t.Errorf("major version byte = %d, want 3", got)
	}
}

func TestWrite_DropsEmptyTags(t *testing.T) {
	src := join(id3Bytes(t, "Gone", id3v2.V24), audio, apeBytes(t, "Gone"))

	f, err := Read(bytes.NewReader(src), int64(len(src)), types.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	f.ID3v2 = id3v2.NewTag()
	f.APE.Clear()

	var out bytes.Buffer
	if err := Write(&out, bytes.NewReader(src), f); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), audio) {
		t.Errorf("got %d bytes, want only the %d audio bytes", out.Len(), len(audio))
	}
}

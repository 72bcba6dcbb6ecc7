package id3v2

import (
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Tag is an ordered set of frames with unique keys.
type Tag struct {
	logger *slog.Logger
	frames []Frame

	// OriginalVersion is the version the tag was read as, zero for a new
	// tag. Frames are always held in their ID3v2.4 form.
	OriginalVersion Version

	// Flags are the header flags the tag was read with. Only
	// Unsynchronisation is carried over when the tag is written back.
	Flags HeaderFlags
}

// NewTag returns an empty tag.
func NewTag() *Tag {
	return &Tag{}
}

// SetLogger sets the logger used for accessor and write warnings.
func (t *Tag) SetLogger(l *slog.Logger) {
	t.logger = l
}

func (t *Tag) log() *slog.Logger {
	return types.OrDiscard(t.logger)
}

// Len returns the number of frames.
func (t *Tag) Len() int {
	return len(t.frames)
}

// IsEmpty reports whether the tag has no frames.
func (t *Tag) IsEmpty() bool {
	return len(t.frames) == 0
}

// Frames iterates over the frames in order.
func (t *Tag) Frames() iter.Seq[Frame] {
	return slices.Values(t.frames)
}

// Insert adds f, replacing the frame with the same key. The replaced
// frame is returned, or nil.
func (t *Tag) Insert(f Frame) Frame {
	key := f.Key()
	for i, existing := range t.frames {
		if existing.Key() == key {
			t.frames[i] = f
			return existing
		}
	}
	t.frames = append(t.frames, f)
	return nil
}

// Get returns the first frame with the given ID.
func (t *Tag) Get(id string) (Frame, bool) {
	for _, f := range t.frames {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// GetAll returns every frame with the given ID.
func (t *Tag) GetAll(id string) []Frame {
	var out []Frame
	for _, f := range t.frames {
		if f.ID() == id {
			out = append(out, f)
		}
	}
	return out
}

// Remove deletes every frame with the given ID and returns how many were
// removed.
func (t *Tag) Remove(id string) int {
	n := len(t.frames)
	t.frames = slices.DeleteFunc(t.frames, func(f Frame) bool { return f.ID() == id })
	return n - len(t.frames)
}

// RemoveKey deletes the frame with the given key.
func (t *Tag) RemoveKey(key string) bool {
	n := len(t.frames)
	t.frames = slices.DeleteFunc(t.frames, func(f Frame) bool { return f.Key() == key })
	return n != len(t.frames)
}

// Text returns the text of the frame that stores key.
//
// COMM and USLT frames only answer for an empty description; TXXX-backed
// keys look up the frame by description.
func (t *Tag) Text(key types.ItemKey) (string, bool) {
	if id, ok := frameKeys.NativeKey(key); ok {
		switch id {
		case "COMM", "USLT":
			if f := t.comment(id); f != nil {
				return f.Text, true
			}
			return "", false
		}
		f, ok := t.Get(id)
		if !ok {
			return "", false
		}
		switch f := f.(type) {
		case *TextFrame:
			return f.Values()[0], true
		case *URLFrame:
			return f.URL, true
		}
		return "", false
	}

	for _, desc := range userTextKeys.NativeKeys(key) {
		if f := t.userText(desc); f != nil {
			return f.Value, true
		}
	}
	return "", false
}

// SetText stores value in the frame for key. It reports false when key
// has no ID3v2 mapping.
func (t *Tag) SetText(key types.ItemKey, value string) bool {
	if id, ok := frameKeys.NativeKey(key); ok {
		t.Insert(newFrameFor(id, value))
		return true
	}
	if desc, ok := userTextKeys.NativeKey(key); ok {
		t.RemoveText(key)
		t.Insert(&UserTextFrame{Encoding: EncodingUTF8, Description: desc, Value: value})
		return true
	}
	return false
}

// RemoveText deletes the frame for key.
func (t *Tag) RemoveText(key types.ItemKey) {
	if id, ok := frameKeys.NativeKey(key); ok {
		switch id {
		case "COMM", "USLT":
			if f := t.comment(id); f != nil {
				t.RemoveKey(f.Key())
			}
		default:
			t.Remove(id)
		}
		return
	}
	for _, desc := range userTextKeys.NativeKeys(key) {
		if f := t.userText(desc); f != nil {
			t.RemoveKey(f.Key())
		}
	}
}

// newFrameFor builds the frame kind that a mapped frame ID stores.
func newFrameFor(id, value string) Frame {
	switch {
	case id == "COMM", id == "USLT":
		return &CommentFrame{FrameID: id, Encoding: EncodingUTF8, Language: "XXX", Text: value}
	case id[0] == 'W':
		return &URLFrame{FrameID: id, URL: value}
	default:
		return &TextFrame{FrameID: id, Encoding: EncodingUTF8, Value: value}
	}
}

// comment returns the first COMM or USLT frame with an empty description.
func (t *Tag) comment(id string) *CommentFrame {
	for _, f := range t.frames {
		if c, ok := f.(*CommentFrame); ok && c.FrameID == id && c.Description == "" {
			return c
		}
	}
	return nil
}

func (t *Tag) userText(desc string) *UserTextFrame {
	for _, f := range t.frames {
		if u, ok := f.(*UserTextFrame); ok && strings.EqualFold(u.Description, desc) {
			return u
		}
	}
	return nil
}

// Pictures returns the pictures of every APIC frame.
func (t *Tag) Pictures() []types.Picture {
	var out []types.Picture
	for _, f := range t.frames {
		if p, ok := f.(*PictureFrame); ok {
			out = append(out, p.Picture)
		}
	}
	return out
}

// Title returns the track title and whether one is set.
func (t *Tag) Title() (string, bool) { return t.Text(types.ItemKeyTrackTitle) }
// SetTitle replaces the track title.
func (t *Tag) SetTitle(v string) { t.SetText(types.ItemKeyTrackTitle, v) }
// RemoveTitle deletes the track title.
func (t *Tag) RemoveTitle() { t.RemoveText(types.ItemKeyTrackTitle) }

// Artist returns the track artist and whether one is set.
func (t *Tag) Artist() (string, bool) { return t.Text(types.ItemKeyTrackArtist) }
// SetArtist replaces the track artist.
func (t *Tag) SetArtist(v string) { t.SetText(types.ItemKeyTrackArtist, v) }
// RemoveArtist deletes the track artist.
func (t *Tag) RemoveArtist() { t.RemoveText(types.ItemKeyTrackArtist) }

// Album returns the album title and whether one is set.
func (t *Tag) Album() (string, bool) { return t.Text(types.ItemKeyAlbumTitle) }
// SetAlbum replaces the album title.
func (t *Tag) SetAlbum(v string) { t.SetText(types.ItemKeyAlbumTitle, v) }
// RemoveAlbum deletes the album title.
func (t *Tag) RemoveAlbum() { t.RemoveText(types.ItemKeyAlbumTitle) }

// Genre returns the genre and whether one is set.
func (t *Tag) Genre() (string, bool) { return t.Text(types.ItemKeyGenre) }
// SetGenre replaces the genre.
func (t *Tag) SetGenre(v string) { t.SetText(types.ItemKeyGenre, v) }
// RemoveGenre deletes the genre.
func (t *Tag) RemoveGenre() { t.RemoveText(types.ItemKeyGenre) }

// Comment returns the comment and whether one is set.
func (t *Tag) Comment() (string, bool) { return t.Text(types.ItemKeyComment) }
// SetComment replaces the comment.
func (t *Tag) SetComment(v string) { t.SetText(types.ItemKeyComment, v) }
// RemoveComment deletes the comment.
func (t *Tag) RemoveComment() { t.RemoveText(types.ItemKeyComment) }

func (t *Tag) numberPair(id string) types.NumberPair {
	if f, ok := t.Get(id); ok {
		if tf, ok := f.(*TextFrame); ok {
			return types.ParseNumberPair(tf.Values()[0])
		}
	}
	return types.NumberPair{}
}

func (t *Tag) setNumberPair(id string, p types.NumberPair) {
	t.Remove(id)
	value := p.String()
	if value == "" {
		t.log().Warn("id3v2: number pair not set", "id", id)
		return
	}
	t.Insert(&TextFrame{FrameID: id, Encoding: EncodingLatin1, Value: value})
}

// Track returns the current component of TRCK.
func (t *Tag) Track() (uint32, bool) {
	p := t.numberPair("TRCK")
	return p.Number, p.HasNumber
}

// SetTrack sets the track number, keeping the total.
func (t *Tag) SetTrack(n uint32) {
	p := t.numberPair("TRCK")
	p.Number, p.HasNumber = n, true
	t.setNumberPair("TRCK", p)
}

// RemoveTrack removes TRCK, total included.
func (t *Tag) RemoveTrack() { t.Remove("TRCK") }

// TrackTotal returns the total component of TRCK.
func (t *Tag) TrackTotal() (uint32, bool) {
	p := t.numberPair("TRCK")
	return p.Total, p.HasTotal
}

// SetTrackTotal sets the track total, keeping the number.
func (t *Tag) SetTrackTotal(n uint32) {
	p := t.numberPair("TRCK")
	p.Total, p.HasTotal = n, true
	t.setNumberPair("TRCK", p)
}

// RemoveTrackTotal drops the total and keeps the track number.
func (t *Tag) RemoveTrackTotal() {
	p := t.numberPair("TRCK")
	if !p.HasNumber {
		t.RemoveTrack()
		return
	}
	p.HasTotal = false
	t.setNumberPair("TRCK", p)
}

// Disk returns the current component of TPOS.
func (t *Tag) Disk() (uint32, bool) {
	p := t.numberPair("TPOS")
	return p.Number, p.HasNumber
}

// SetDisk sets the disc number, keeping the total.
func (t *Tag) SetDisk(n uint32) {
	p := t.numberPair("TPOS")
	p.Number, p.HasNumber = n, true
	t.setNumberPair("TPOS", p)
}

// RemoveDisk removes TPOS, total included.
func (t *Tag) RemoveDisk() { t.Remove("TPOS") }

// DiskTotal returns the total component of TPOS.
func (t *Tag) DiskTotal() (uint32, bool) {
	p := t.numberPair("TPOS")
	return p.Total, p.HasTotal
}

// SetDiskTotal sets the disc total, keeping the number.
func (t *Tag) SetDiskTotal(n uint32) {
	p := t.numberPair("TPOS")
	p.Total, p.HasTotal = n, true
	t.setNumberPair("TPOS", p)
}

// RemoveDiskTotal drops the total and keeps the disc number.
func (t *Tag) RemoveDiskTotal() {
	p := t.numberPair("TPOS")
	if !p.HasNumber {
		t.RemoveDisk()
		return
	}
	p.HasTotal = false
	t.setNumberPair("TPOS", p)
}

// Year returns the year from TDRC.
func (t *Tag) Year() (uint32, bool) {
	date, ok := t.Text(types.ItemKeyRecordingDate)
	if !ok {
		return 0, false
	}
	return types.ParseYear(date)
}

// SetYear replaces TDRC with the given year.
func (t *Tag) SetYear(year uint32) {
	t.SetText(types.ItemKeyRecordingDate, strconv.FormatUint(uint64(year), 10))
}

// RemoveYear removes TDRC.
func (t *Tag) RemoveYear() { t.RemoveText(types.ItemKeyRecordingDate) }

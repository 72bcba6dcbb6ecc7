package ape

import (
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Tag is an APE tag: an ordered list of items with case-insensitive keys.
//
// Key casing is kept as inserted so a tag round-trips byte for byte.
type Tag struct {
	logger *slog.Logger
	items  []Item

	// ReadOnly is written as the tag-level read-only flag.
	ReadOnly bool
}

// NewTag returns an empty tag.
func NewTag() *Tag {
	return &Tag{}
}

// SetLogger sets where accessor warnings go. Nil discards them.
func (t *Tag) SetLogger(l *slog.Logger) {
	t.logger = l
}

func (t *Tag) log() *slog.Logger {
	return types.OrDiscard(t.logger)
}

// Len returns the number of items.
func (t *Tag) Len() int {
	return len(t.items)
}

// IsEmpty reports whether the tag has no items.
func (t *Tag) IsEmpty() bool {
	return len(t.items) == 0
}

// Items returns an iterator over the items in insertion order.
func (t *Tag) Items() iter.Seq[Item] {
	return slices.Values(t.items)
}

// Get returns the item whose key matches key case-insensitively.
func (t *Tag) Get(key string) (Item, bool) {
	for _, item := range t.items {
		if strings.EqualFold(item.Key, key) {
			return item, true
		}
	}
	return Item{}, false
}

// Insert adds item, first removing any item with the same key. An item
// whose key fails ValidateKey is rejected and the tag is left unchanged.
func (t *Tag) Insert(item Item) error {
	if err := ValidateKey(item.Key); err != nil {
		return err
	}
	t.insert(item)
	return nil
}

// insert is Insert for keys already known to be valid.
func (t *Tag) insert(item Item) {
	t.Remove(item.Key)
	t.items = append(t.items, item)
}

// Remove deletes the item for key, ignoring case.
func (t *Tag) Remove(key string) {
	t.items = slices.DeleteFunc(t.items, func(item Item) bool {
		return strings.EqualFold(item.Key, key)
	})
}

// Clear removes every item.
func (t *Tag) Clear() {
	t.items = nil
}

// Text returns the first text value among the native keys of key.
func (t *Tag) Text(key types.ItemKey) (string, bool) {
	for _, native := range keyMap.NativeKeys(key) {
		item, ok := t.Get(native)
		if !ok {
			continue
		}
		if v, ok := item.Value.(types.TextValue); ok {
			return string(v), true
		}
	}
	return "", false
}

// SetText stores value under the first native key of key. It reports false
// when key has no APE mapping.
func (t *Tag) SetText(key types.ItemKey, value string) bool {
	native, ok := keyMap.NativeKey(key)
	if !ok {
		return false
	}
	t.RemoveText(key)
	t.items = append(t.items, Item{Key: native, Value: types.TextValue(value)})
	return true
}

// RemoveText deletes every native key of key.
func (t *Tag) RemoveText(key types.ItemKey) {
	for _, native := range keyMap.NativeKeys(key) {
		t.Remove(native)
	}
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

// numberPair reads the first present native key of a pair field.
func (t *Tag) numberPair(natives []string) types.NumberPair {
	for _, native := range natives {
		item, ok := t.Get(native)
		if !ok {
			continue
		}
		if v, ok := item.Value.(types.TextValue); ok {
			return types.ParseNumberPair(string(v))
		}
	}
	return types.NumberPair{}
}

// setNumberPair rewrites a pair field under its first native key. With
// neither component present the field is left removed and a warning logged.
func (t *Tag) setNumberPair(natives []string, p types.NumberPair) {
	for _, native := range natives {
		t.Remove(native)
	}
	value := p.String()
	if value == "" {
		t.log().Warn("ape: number pair not set", "key", natives[0])
		return
	}
	t.items = append(t.items, Item{Key: natives[0], Value: types.TextValue(value)})
}

var (
	trackKeys = []string{"Track"}
	diskKeys  = []string{"Disk", "Disc"}
)

// Track returns the current component of the Track item.
func (t *Tag) Track() (uint32, bool) {
	p := t.numberPair(trackKeys)
	return p.Number, p.HasNumber
}

// SetTrack sets the track number, keeping the total.
func (t *Tag) SetTrack(n uint32) {
	p := t.numberPair(trackKeys)
	p.Number, p.HasNumber = n, true
	t.setNumberPair(trackKeys, p)
}

// RemoveTrack removes the Track item, total included.
func (t *Tag) RemoveTrack() {
	t.Remove("Track")
}

// TrackTotal returns the total component of the Track item.
func (t *Tag) TrackTotal() (uint32, bool) {
	p := t.numberPair(trackKeys)
	return p.Total, p.HasTotal
}

// SetTrackTotal sets the track total, keeping the number.
func (t *Tag) SetTrackTotal(n uint32) {
	p := t.numberPair(trackKeys)
	p.Total, p.HasTotal = n, true
	t.setNumberPair(trackKeys, p)
}

// RemoveTrackTotal drops the total and keeps the track number.
func (t *Tag) RemoveTrackTotal() {
	p := t.numberPair(trackKeys)
	p.HasTotal = false
	if !p.HasNumber {
		t.RemoveTrack()
		return
	}
	t.setNumberPair(trackKeys, p)
}

// Disk returns the current component of the Disk (or Disc) item.
func (t *Tag) Disk() (uint32, bool) {
	p := t.numberPair(diskKeys)
	return p.Number, p.HasNumber
}

// SetDisk sets the disc number, keeping the total.
func (t *Tag) SetDisk(n uint32) {
	p := t.numberPair(diskKeys)
	p.Number, p.HasNumber = n, true
	t.setNumberPair(diskKeys, p)
}

// RemoveDisk removes the Disk item, total included.
func (t *Tag) RemoveDisk() {
	for _, native := range diskKeys {
		t.Remove(native)
	}
}

// DiskTotal returns the total component of the Disk item.
func (t *Tag) DiskTotal() (uint32, bool) {
	p := t.numberPair(diskKeys)
	return p.Total, p.HasTotal
}

// SetDiskTotal sets the disc total, keeping the number.
func (t *Tag) SetDiskTotal(n uint32) {
	p := t.numberPair(diskKeys)
	p.Total, p.HasTotal = n, true
	t.setNumberPair(diskKeys, p)
}

// RemoveDiskTotal drops the total and keeps the disc number.
func (t *Tag) RemoveDiskTotal() {
	p := t.numberPair(diskKeys)
	p.HasTotal = false
	if !p.HasNumber {
		t.RemoveDisk()
		return
	}
	t.setNumberPair(diskKeys, p)
}

// Year parses the leading year of the Year item.
func (t *Tag) Year() (uint32, bool) {
	s, ok := t.Text(types.ItemKeyYear)
	if !ok {
		return 0, false
	}
	return types.ParseYear(s)
}

// SetYear stores a four-digit year.
func (t *Tag) SetYear(year uint32) {
	t.SetText(types.ItemKeyYear, strconv.FormatUint(uint64(year), 10))
}

// RemoveYear deletes the Year item.
func (t *Tag) RemoveYear() {
	t.RemoveText(types.ItemKeyYear)
}

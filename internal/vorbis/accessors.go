package vorbis

import (
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Text returns the first value stored under any field name of key.
func (t *Tag) Text(key types.ItemKey) (string, bool) {
	for _, name := range keyMap.NativeKeys(key) {
		if v, ok := t.Get(name); ok {
			return v, true
		}
	}
	return "", false
}

// SetText replaces key with a single value. It reports false when key
// has no Vorbis field name.
func (t *Tag) SetText(key types.ItemKey, value string) bool {
	name, ok := keyMap.NativeKey(key)
	if !ok {
		return false
	}
	t.RemoveText(key)
	t.fields = append(t.fields, Field{Key: name, Value: value})
	return true
}

// RemoveText deletes every field name of key.
func (t *Tag) RemoveText(key types.ItemKey) {
	for _, name := range keyMap.NativeKeys(key) {
		t.Remove(name)
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

// number reads a number field. A "n/t" value yields n.
func (t *Tag) number(key types.ItemKey) (uint32, bool) {
	v, ok := t.Text(key)
	if !ok {
		return 0, false
	}
	p := types.ParseNumberPair(v)
	return p.Number, p.HasNumber
}

// total reads a total field, falling back to the "/t" part of the
// matching number field.
func (t *Tag) total(current, total types.ItemKey) (uint32, bool) {
	if v, ok := t.Text(total); ok {
		return types.ParseNumber(v)
	}
	if v, ok := t.Text(current); ok {
		p := types.ParseNumberPair(v)
		return p.Total, p.HasTotal
	}
	return 0, false
}

// setNumber writes a number or total field. A combined "n/t" number
// field is split first so the two never disagree.
func (t *Tag) setNumber(current, total, target types.ItemKey, n uint32) {
	if v, ok := t.Text(current); ok && strings.Contains(v, "/") {
		p := types.ParseNumberPair(v)
		t.RemoveText(current)
		if p.HasNumber {
			t.SetText(current, strconv.FormatUint(uint64(p.Number), 10))
		}
		if _, ok := t.Text(total); !ok && p.HasTotal {
			t.SetText(total, strconv.FormatUint(uint64(p.Total), 10))
		}
	}
	t.SetText(target, strconv.FormatUint(uint64(n), 10))
}

// removeTotal drops a total, including one folded into the number field.
func (t *Tag) removeTotal(current, total types.ItemKey) {
	t.RemoveText(total)
	if v, ok := t.Text(current); ok && strings.Contains(v, "/") {
		p := types.ParseNumberPair(v)
		t.RemoveText(current)
		if p.HasNumber {
			t.SetText(current, strconv.FormatUint(uint64(p.Number), 10))
		} else {
			t.log().Warn("vorbis: number pair not set", "key", current)
		}
	}
}

// Track returns TRACKNUMBER.
func (t *Tag) Track() (uint32, bool) { return t.number(types.ItemKeyTrackNumber) }

// SetTrack sets TRACKNUMBER.
func (t *Tag) SetTrack(n uint32) {
	t.setNumber(types.ItemKeyTrackNumber, types.ItemKeyTrackTotal, types.ItemKeyTrackNumber, n)
}

// RemoveTrack removes TRACKNUMBER and TRACKTOTAL.
func (t *Tag) RemoveTrack() {
	t.RemoveText(types.ItemKeyTrackNumber)
	t.RemoveText(types.ItemKeyTrackTotal)
}

// TrackTotal returns TRACKTOTAL (or TOTALTRACKS).
func (t *Tag) TrackTotal() (uint32, bool) {
	return t.total(types.ItemKeyTrackNumber, types.ItemKeyTrackTotal)
}

// SetTrackTotal sets TRACKTOTAL.
func (t *Tag) SetTrackTotal(n uint32) {
	t.setNumber(types.ItemKeyTrackNumber, types.ItemKeyTrackTotal, types.ItemKeyTrackTotal, n)
}

// RemoveTrackTotal removes the track total and keeps the number.
func (t *Tag) RemoveTrackTotal() {
	t.removeTotal(types.ItemKeyTrackNumber, types.ItemKeyTrackTotal)
}

// Disk returns DISCNUMBER.
func (t *Tag) Disk() (uint32, bool) { return t.number(types.ItemKeyDiscNumber) }

// SetDisk sets DISCNUMBER.
func (t *Tag) SetDisk(n uint32) {
	t.setNumber(types.ItemKeyDiscNumber, types.ItemKeyDiscTotal, types.ItemKeyDiscNumber, n)
}

// RemoveDisk removes DISCNUMBER and DISCTOTAL.
func (t *Tag) RemoveDisk() {
	t.RemoveText(types.ItemKeyDiscNumber)
	t.RemoveText(types.ItemKeyDiscTotal)
}

// DiskTotal returns DISCTOTAL (or TOTALDISCS).
func (t *Tag) DiskTotal() (uint32, bool) {
	return t.total(types.ItemKeyDiscNumber, types.ItemKeyDiscTotal)
}

// SetDiskTotal sets DISCTOTAL.
func (t *Tag) SetDiskTotal(n uint32) {
	t.setNumber(types.ItemKeyDiscNumber, types.ItemKeyDiscTotal, types.ItemKeyDiscTotal, n)
}

// RemoveDiskTotal removes the disc total and keeps the disc number.
func (t *Tag) RemoveDiskTotal() {
	t.removeTotal(types.ItemKeyDiscNumber, types.ItemKeyDiscTotal)
}

// Year returns the year from DATE, or from YEAR when DATE is absent.
func (t *Tag) Year() (uint32, bool) {
	if date, ok := t.Text(types.ItemKeyRecordingDate); ok {
		return types.ParseYear(date)
	}
	if year, ok := t.Text(types.ItemKeyYear); ok {
		return types.ParseYear(year)
	}
	return 0, false
}

// SetYear replaces DATE with the given year.
func (t *Tag) SetYear(year uint32) {
	t.RemoveText(types.ItemKeyYear)
	t.SetText(types.ItemKeyRecordingDate, strconv.FormatUint(uint64(year), 10))
}

// RemoveYear removes DATE and YEAR.
func (t *Tag) RemoveYear() {
	t.RemoveText(types.ItemKeyRecordingDate)
	t.RemoveText(types.ItemKeyYear)
}

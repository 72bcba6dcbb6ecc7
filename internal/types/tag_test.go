package types

import (
	"slices"
	"testing"
)

func TestTag_InsertReplaces(t *testing.T) {
	tag := NewTag(TagTypeAPE)
	tag.SetText(ItemKeyTrackTitle, "First")
	tag.Push(NewTagItem(ItemKeyTrackArtist, TextValue("A")))
	tag.Push(NewTagItem(ItemKeyTrackArtist, TextValue("B")))
	tag.SetText(ItemKeyTrackTitle, "Second")

	if got, _ := tag.GetString(ItemKeyTrackTitle); got != "Second" {
		t.Errorf("GetString(TrackTitle) = %q, want %q", got, "Second")
	}
	if tag.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tag.Len())
	}

	var artists []string
	for item := range tag.GetAll(ItemKeyTrackArtist) {
		s, _ := item.Text()
		artists = append(artists, s)
	}
	if !slices.Equal(artists, []string{"A", "B"}) {
		t.Errorf("artists = %v, want [A B]", artists)
	}
}

func TestTag_UnknownKeysCompareCaseInsensitively(t *testing.T) {
	tag := NewTag(TagTypeVorbisComments)
	tag.Insert(NewUnknownItem("MyField", TextValue("one")))
	tag.Insert(NewUnknownItem("MYFIELD", TextValue("two")))

	if tag.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tag.Len())
	}
	item, ok := tag.GetUnknown("myfield")
	if !ok {
		t.Fatal("GetUnknown() found nothing")
	}
	if item.RawKey != "MYFIELD" {
		t.Errorf("RawKey = %q, want MYFIELD", item.RawKey)
	}
}

func TestTag_RemoveAndRetain(t *testing.T) {
	tag := NewTag(TagTypeID3v2)
	tag.Push(NewTagItem(ItemKeyGenre, TextValue("Rock")))
	tag.Push(NewTagItem(ItemKeyGenre, TextValue("Pop")))
	tag.Push(NewTagItem(ItemKeyAlbumTitle, TextValue("Album")))
	tag.Push(NewTagItem(ItemKeyArtistURL, LocatorValue("https://example.com")))

	if n := tag.Remove(ItemKeyGenre); n != 2 {
		t.Errorf("Remove() = %d, want 2", n)
	}
	tag.Retain(func(item TagItem) bool {
		_, isText := item.Value.(TextValue)
		return isText
	})
	if tag.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tag.Len())
	}
	if _, ok := tag.Get(ItemKeyAlbumTitle); !ok {
		t.Error("AlbumTitle should survive Retain")
	}
}

func TestTag_CloneIsDeep(t *testing.T) {
	tag := NewTag(TagTypeAPE)
	tag.Push(NewTagItem(ItemKeyUnknown, BinaryValue{1, 2, 3}))
	tag.PushPicture(Picture{Type: PictureFrontCover, Data: []byte{0xFF, 0xD8}})

	clone := tag.Clone()
	if !tag.Equal(clone) {
		t.Fatal("clone should equal original")
	}

	clone.Items()[0].Value.(BinaryValue)[0] = 9
	if got := tag.Items()[0].Value.(BinaryValue); got[0] != 1 {
		t.Errorf("original binary value changed to %v", got)
	}

	clone.RemovePictureType(PictureFrontCover)
	if len(tag.Pictures()) != 1 {
		t.Error("removing a picture from the clone changed the original")
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ItemValue
		want bool
	}{
		{"same text", TextValue("x"), TextValue("x"), true},
		{"text vs locator", TextValue("x"), LocatorValue("x"), false},
		{"binary", BinaryValue{1, 2}, BinaryValue{1, 2}, true},
		{"binary differs", BinaryValue{1, 2}, BinaryValue{1}, false},
		{"nil", nil, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValuesEqual(tc.a, tc.b); got != tc.want {
				t.Errorf("ValuesEqual() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKeyMap(t *testing.T) {
	m := NewKeyMap(true, map[ItemKey][]string{
		ItemKeyDiscNumber: {"Disk", "Disc"},
		ItemKeyTrackTitle: {"Title"},
	})

	tests := []struct {
		native string
		want   ItemKey
	}{
		{"DISK", ItemKeyDiscNumber},
		{"disc", ItemKeyDiscNumber},
		{"title", ItemKeyTrackTitle},
		{"Unmapped", ItemKeyUnknown},
	}
	for _, tc := range tests {
		if got := m.Lookup(tc.native); got != tc.want {
			t.Errorf("Lookup(%q) = %v, want %v", tc.native, got, tc.want)
		}
	}

	if native, ok := m.NativeKey(ItemKeyDiscNumber); !ok || native != "Disk" {
		t.Errorf("NativeKey(DiscNumber) = %q, %v; want Disk", native, ok)
	}
	if _, ok := m.NativeKey(ItemKeyGenre); ok {
		t.Error("NativeKey(Genre) should not be mapped")
	}
}

func TestItemKeyByName(t *testing.T) {
	for k := ItemKeyUnknown; k < itemKeyCount; k++ {
		got, ok := ItemKeyByName(k.String())
		if !ok || got != k {
			t.Errorf("ItemKeyByName(%q) = %v, %v", k.String(), got, ok)
		}
	}
}

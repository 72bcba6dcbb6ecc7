package types

import (
	"iter"
	"slices"
	"strings"
)

// Tag is the format-agnostic view of one native tag.
//
// Items keep insertion order. A key may appear more than once (multiple
// artists, for example) when added with Push; Insert replaces.
// Pictures are stored apart from items.
type Tag struct {
	items    []TagItem
	pictures []Picture

	// TagType records the native format the tag was split from, or the
	// target format for a tag built by hand.
	TagType TagType
}

// NewTag returns an empty tag for the given native format.
func NewTag(tagType TagType) *Tag {
	return &Tag{TagType: tagType}
}

// Len returns the number of items, pictures excluded.
func (t *Tag) Len() int {
	return len(t.items)
}

// IsEmpty reports whether the tag has no items and no pictures.
func (t *Tag) IsEmpty() bool {
	return len(t.items) == 0 && len(t.pictures) == 0
}

// All returns an iterator over the items in insertion order.
//
// Example:
//
//	for item := range tag.All() {
//		fmt.Printf("%s: %s\n", item.Name(), item.Value)
//	}
func (t *Tag) All() iter.Seq[TagItem] {
	return func(yield func(TagItem) bool) {
		for _, item := range t.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns a copy of the items.
func (t *Tag) Items() []TagItem {
	return slices.Clone(t.items)
}

// Push appends an item, keeping any existing item with the same key.
func (t *Tag) Push(item TagItem) {
	t.items = append(t.items, item)
}

// Insert appends an item after removing every item with the same key.
func (t *Tag) Insert(item TagItem) {
	t.items = slices.DeleteFunc(t.items, func(existing TagItem) bool {
		return sameKey(existing, item)
	})
	t.items = append(t.items, item)
}

// SetText inserts a text item for key.
func (t *Tag) SetText(key ItemKey, value string) {
	t.Insert(NewTagItem(key, TextValue(value)))
}

// Get returns the first item for key.
func (t *Tag) Get(key ItemKey) (TagItem, bool) {
	for _, item := range t.items {
		if item.Key == key {
			return item, true
		}
	}
	return TagItem{}, false
}

// GetString returns the first text value for key.
func (t *Tag) GetString(key ItemKey) (string, bool) {
	for _, item := range t.items {
		if item.Key != key {
			continue
		}
		if s, ok := item.Text(); ok {
			return s, true
		}
	}
	return "", false
}

// GetAll returns an iterator over every item for key.
func (t *Tag) GetAll(key ItemKey) iter.Seq[TagItem] {
	return func(yield func(TagItem) bool) {
		for _, item := range t.items {
			if item.Key == key && !yield(item) {
				return
			}
		}
	}
}

// GetUnknown returns the first unmapped item whose native key matches
// rawKey case-insensitively.
func (t *Tag) GetUnknown(rawKey string) (TagItem, bool) {
	for _, item := range t.items {
		if item.Key == ItemKeyUnknown && strings.EqualFold(item.RawKey, rawKey) {
			return item, true
		}
	}
	return TagItem{}, false
}

// Remove deletes every item for key and returns how many were removed.
func (t *Tag) Remove(key ItemKey) int {
	before := len(t.items)
	t.items = slices.DeleteFunc(t.items, func(item TagItem) bool {
		return item.Key == key
	})
	return before - len(t.items)
}

// Retain keeps only the items for which keep returns true.
func (t *Tag) Retain(keep func(TagItem) bool) {
	t.items = slices.DeleteFunc(t.items, func(item TagItem) bool {
		return !keep(item)
	})
}

// Pictures returns a copy of the pictures.
func (t *Tag) Pictures() []Picture {
	return slices.Clone(t.pictures)
}

// PushPicture appends a picture.
func (t *Tag) PushPicture(p Picture) {
	t.pictures = append(t.pictures, p)
}

// RemovePictureType deletes every picture of the given type.
func (t *Tag) RemovePictureType(pt PictureType) {
	t.pictures = slices.DeleteFunc(t.pictures, func(p Picture) bool {
		return p.Type == pt
	})
}

// Clone returns a deep copy of the tag.
func (t *Tag) Clone() *Tag {
	clone := &Tag{
		TagType:  t.TagType,
		items:    make([]TagItem, len(t.items)),
		pictures: make([]Picture, len(t.pictures)),
	}
	for i, item := range t.items {
		if b, ok := item.Value.(BinaryValue); ok {
			item.Value = BinaryValue(slices.Clone(b))
		}
		clone.items[i] = item
	}
	for i, p := range t.pictures {
		p.Data = slices.Clone(p.Data)
		clone.pictures[i] = p
	}
	return clone
}

// Equal reports whether both tags hold the same items and pictures in the
// same order.
func (t *Tag) Equal(other *Tag) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.TagType != other.TagType {
		return false
	}
	eqItem := func(a, b TagItem) bool {
		return sameKey(a, b) && ValuesEqual(a.Value, b.Value)
	}
	eqPicture := func(a, b Picture) bool { return a.Equal(b) }
	return slices.EqualFunc(t.items, other.items, eqItem) &&
		slices.EqualFunc(t.pictures, other.pictures, eqPicture)
}

func sameKey(a, b TagItem) bool {
	if a.Key != b.Key {
		return false
	}
	if a.Key == ItemKeyUnknown {
		return strings.EqualFold(a.RawKey, b.RawKey)
	}
	return true
}

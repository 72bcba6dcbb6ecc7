package types

import (
	"bytes"
	"fmt"
)

// TagType identifies the native tag format a unified Tag was split from.
type TagType int

const (
	TagTypeUnknown TagType = iota // unknown
	TagTypeAPE                    // APE
	TagTypeID3v2                  // ID3v2
	TagTypeVorbisComments         // Vorbis Comments
)

func (t TagType) String() string {
	switch t {
	case TagTypeAPE:
		return "APE"
	case TagTypeID3v2:
		return "ID3v2"
	case TagTypeVorbisComments:
		return "Vorbis Comments"
	default:
		return "unknown"
	}
}

// ItemValue is the value of a TagItem.
//
// It is a closed sum type: TextValue, BinaryValue or LocatorValue.
// Consumers switch on the concrete type.
type ItemValue interface {
	isItemValue()
	fmt.Stringer
}

// TextValue is a UTF-8 text value.
type TextValue string

// BinaryValue is an opaque binary value.
type BinaryValue []byte

// LocatorValue is a URL or other locator.
type LocatorValue string

func (TextValue) isItemValue()    {}
func (BinaryValue) isItemValue()  {}
func (LocatorValue) isItemValue() {}

func (v TextValue) String() string    { return string(v) }
func (v LocatorValue) String() string { return string(v) }
func (v BinaryValue) String() string  { return fmt.Sprintf("<binary: %d bytes>", len(v)) }

// ValuesEqual reports whether two item values have the same variant and
// content.
func ValuesEqual(a, b ItemValue) bool {
	switch av := a.(type) {
	case TextValue:
		bv, ok := b.(TextValue)
		return ok && av == bv
	case LocatorValue:
		bv, ok := b.(LocatorValue)
		return ok && av == bv
	case BinaryValue:
		bv, ok := b.(BinaryValue)
		return ok && bytes.Equal(av, bv)
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("types: unhandled item value %T", a))
	}
}

// TagItem is a single key/value pair of the unified model.
type TagItem struct {
	Value ItemValue

	// RawKey holds the native key when Key is ItemKeyUnknown.
	RawKey string

	Key ItemKey
}

// NewTagItem creates an item for a well-known key.
func NewTagItem(key ItemKey, value ItemValue) TagItem {
	return TagItem{Key: key, Value: value}
}

// NewUnknownItem creates an item that keeps its native key.
func NewUnknownItem(rawKey string, value ItemValue) TagItem {
	return TagItem{Key: ItemKeyUnknown, RawKey: rawKey, Value: value}
}

// Text returns the item's value if it is text.
func (i TagItem) Text() (string, bool) {
	v, ok := i.Value.(TextValue)
	return string(v), ok
}

// Name returns the key name used for display, the raw key for unknown items.
func (i TagItem) Name() string {
	if i.Key == ItemKeyUnknown {
		return i.RawKey
	}
	return i.Key.String()
}

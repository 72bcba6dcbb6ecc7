package ape

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
)

// Bytes serializes the tag: header, items in insertion order, footer.
//
// Items with an empty value are not written since readers reject them.
// An empty tag serializes to nil.
func (t *Tag) Bytes() ([]byte, error) {
	var items []byte
	var count uint32
	for _, item := range t.items {
		if err := ValidateKey(item.Key); err != nil {
			return nil, err
		}
		value := item.valueBytes()
		if len(value) == 0 {
			continue
		}

		flags := item.itemType() << 1
		if item.ReadOnly {
			flags |= FlagReadOnly
		}
		items = binary.Encode(items, uint32(len(value)), binary.LittleEndian)
		items = binary.Encode(items, flags, binary.LittleEndian)
		items = append(items, item.Key...)
		items = append(items, 0)
		items = append(items, value...)
		count++
	}
	if count == 0 {
		return nil, nil
	}

	size := uint32(len(items))
	buf := make([]byte, 0, 2*HeaderSize+len(items))
	buf = appendHeader(buf, size, count, t.ReadOnly, true)
	buf = append(buf, items...)
	buf = appendHeader(buf, size, count, t.ReadOnly, false)
	return buf, nil
}

// WriteTo writes the serialized tag to w.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	b, err := t.Bytes()
	if err != nil {
		return 0, err
	}
	sw := binary.NewSafeWriter(w)
	if err := sw.WriteBytes(b); err != nil {
		return sw.Offset(), fmt.Errorf("ape: write tag: %w", err)
	}
	return sw.Offset(), nil
}

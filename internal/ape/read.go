package ape

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Read parses an APE tag starting at the current position of r, which must
// point at a header.
//
// It returns nil, nil, nil when the next 8 bytes are not the preamble.
func Read(r io.ReadSeeker, opts types.ParseOptions) (*Tag, *Header, error) {
	var preamble [8]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("ape: read preamble: %w", err)
	}
	if string(preamble[:]) != Preamble {
		return nil, nil, nil
	}

	header, err := readHeader(binary.NewStreamReader(r))
	if err != nil {
		return nil, nil, err
	}

	tag, err := ReadWithHeader(r, header, opts)
	if err != nil {
		return nil, nil, err
	}
	return tag, &header, nil
}

// ReadWithHeader parses the item records that follow a header, then skips
// the footer. r must be positioned at the first item.
func ReadWithHeader(r io.ReadSeeker, header Header, opts types.ParseOptions) (*Tag, error) {
	log := opts.Log()
	s := binary.NewStreamReader(r)
	tag := &Tag{ReadOnly: header.ReadOnly(), logger: opts.Logger}

	remaining := header.ItemsSize()
	for i := uint32(0); i < header.ItemCount; i++ {
		if remaining < minItemSize {
			break
		}

		item, consumed, err := readItem(s, remaining)
		remaining -= consumed
		if err == nil {
			tag.insert(item)
			continue
		}

		var skip *skippedItem
		if !errors.As(err, &skip) {
			return nil, err
		}
		if opts.IsStrict() {
			return nil, skip.err
		}
		log.Warn("ape: skipping invalid item", "key", skip.key, "error", skip.err)
	}

	// Skip any unread item bytes and the footer
	skip := int64(remaining)
	if header.Flags&FlagNoFooter == 0 {
		skip += HeaderSize
	}
	if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("ape: skip footer: %w", err)
	}

	return tag, nil
}

// skippedItem reports an item that was consumed but is not valid. It is
// fatal only in strict mode.
type skippedItem struct {
	err error
	key string
}

func (e *skippedItem) Error() string { return e.err.Error() }

// readItem reads one item record. consumed is the number of bytes taken
// from the stream, valid even when err is a *skippedItem.
func readItem(s *binary.StreamReader, remaining uint32) (Item, uint32, error) {
	start := s.Consumed()
	consumed := func() uint32 { return uint32(s.Consumed() - start) }

	valueSize, err := binary.ReadStream[uint32](s, binary.LittleEndian, "APE item value size")
	if err != nil {
		return Item{}, consumed(), fmt.Errorf("ape: %w", err)
	}
	if valueSize > remaining {
		return Item{}, consumed(), &types.DecodeError{
			Format: types.TagTypeAPE,
			Reason: fmt.Sprintf("item value size %d exceeds remaining tag size %d", valueSize, remaining),
			Err:    types.ErrSizeMismatch,
		}
	}

	flags, err := binary.ReadStream[uint32](s, binary.LittleEndian, "APE item flags")
	if err != nil {
		return Item{}, consumed(), fmt.Errorf("ape: %w", err)
	}

	key, err := readKey(s, remaining-8)
	if err != nil {
		return Item{}, consumed(), err
	}
	if 8+uint32(len(key))+1+valueSize > remaining {
		return Item{}, consumed(), &types.DecodeError{
			Format: types.TagTypeAPE,
			Reason: fmt.Sprintf("item %q overruns the tag", key),
			Err:    types.ErrSizeMismatch,
		}
	}
	if !utf8.ValidString(key) {
		return Item{}, consumed(), types.Decodef(types.TagTypeAPE, "item contains a non UTF-8 key")
	}

	keyErr := ValidateKey(key)
	if keyErr == nil && valueSize == 0 {
		keyErr = types.Decodef(types.TagTypeAPE, "item %q has an empty value", key)
	}
	if keyErr != nil {
		if _, err := s.Discard(int64(valueSize)); err != nil {
			return Item{}, consumed(), fmt.Errorf("ape: skip item value: %w", err)
		}
		return Item{}, consumed(), &skippedItem{key: key, err: keyErr}
	}

	raw, err := s.Bytes(int(valueSize), "APE item value")
	if err != nil {
		return Item{}, consumed(), fmt.Errorf("ape: %w", err)
	}

	item := Item{Key: key, ReadOnly: flags&FlagReadOnly != 0}
	switch (flags >> 1) & 3 {
	case itemTypeText:
		if !utf8.Valid(raw) {
			return Item{}, consumed(), types.Decodef(types.TagTypeAPE, "text item %q is not valid UTF-8", key)
		}
		item.Value = types.TextValue(raw)
	case itemTypeBinary:
		item.Value = types.BinaryValue(raw)
	case itemTypeLocator:
		if !utf8.Valid(raw) {
			return Item{}, consumed(), types.Decodef(types.TagTypeAPE, "locator item %q is not valid UTF-8", key)
		}
		item.Value = types.LocatorValue(raw)
	default:
		return Item{}, consumed(), types.Decodef(types.TagTypeAPE, "item %q has invalid item type", key)
	}

	return item, consumed(), nil
}

// readKey reads a NUL-terminated key of at most limit bytes.
func readKey(s *binary.StreamReader, limit uint32) (string, error) {
	var key []byte
	var b [1]byte
	for {
		if uint32(len(key)) >= limit {
			return "", &types.DecodeError{
				Format: types.TagTypeAPE,
				Reason: "unterminated item key",
				Err:    types.ErrSizeMismatch,
			}
		}
		if err := s.ReadFull(b[:], "APE item key"); err != nil {
			return "", fmt.Errorf("ape: %w", err)
		}
		if b[0] == 0 {
			return string(key), nil
		}
		key = append(key, b[0])
	}
}

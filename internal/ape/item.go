package ape

import (
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Item types stored in bits 1-2 of the item flags.
const (
	itemTypeText    = 0
	itemTypeBinary  = 1
	itemTypeLocator = 2
)

// illegalKeys may not be used as item keys, compared case-insensitively.
var illegalKeys = []string{"ID3", "TAG", "OGGS", "MP+"}

// Item is a single APE tag item.
type Item struct {
	Value    types.ItemValue
	Key      string
	ReadOnly bool
}

// NewItem validates key and builds a text, binary or locator item.
func NewItem(key string, value types.ItemValue) (Item, error) {
	if err := ValidateKey(key); err != nil {
		return Item{}, err
	}
	return Item{Key: key, Value: value}, nil
}

// ValidateKey checks the length, character set and reserved words of key.
func ValidateKey(key string) error {
	if len(key) < 2 || len(key) > 255 {
		return types.Decodef(types.TagTypeAPE, "item key %q has invalid length %d", key, len(key))
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x20 || key[i] > 0x7E {
			return types.Decodef(types.TagTypeAPE, "item key %q contains non-printable byte 0x%02x", key, key[i])
		}
	}
	for _, illegal := range illegalKeys {
		if strings.EqualFold(key, illegal) {
			return types.Decodef(types.TagTypeAPE, "illegal item key %q", key)
		}
	}
	return nil
}

func (i Item) itemType() uint32 {
	switch i.Value.(type) {
	case types.BinaryValue:
		return itemTypeBinary
	case types.LocatorValue:
		return itemTypeLocator
	default:
		return itemTypeText
	}
}

// valueBytes returns the raw on-disk value.
func (i Item) valueBytes() []byte {
	switch v := i.Value.(type) {
	case types.TextValue:
		return []byte(v)
	case types.LocatorValue:
		return []byte(v)
	case types.BinaryValue:
		return v
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("ape: unhandled item value %T", v))
	}
}

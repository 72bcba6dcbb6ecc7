package types

import (
	"strconv"
	"strings"
)

// DefaultNumberInPair is written as the current component when only the
// total of a pair is known ("0/12").
const DefaultNumberInPair = 0

// NumberPair is a "current/total" field such as track 3 of 12.
type NumberPair struct {
	Number    uint32
	Total     uint32
	HasNumber bool
	HasTotal  bool
}

// ParseNumberPair parses "n" or "n/t". Whitespace around each component is
// ignored; a component that does not parse is reported absent.
func ParseNumberPair(value string) NumberPair {
	var p NumberPair
	current, total, hasTotal := strings.Cut(value, "/")
	if n, ok := ParseNumber(current); ok {
		p.Number, p.HasNumber = n, true
	}
	if hasTotal {
		if t, ok := ParseNumber(total); ok {
			p.Total, p.HasTotal = t, true
		}
	}
	return p
}

// String formats the pair, "" when neither component is present.
func (p NumberPair) String() string {
	var number, total string
	if p.HasNumber {
		number = strconv.FormatUint(uint64(p.Number), 10)
	}
	if p.HasTotal {
		total = strconv.FormatUint(uint64(p.Total), 10)
	}
	s, _ := FormatNumberPair(number, total)
	return s
}

// FormatNumberPair joins the textual components of a pair. It returns
// false when both are empty, in which case the field should be omitted.
func FormatNumberPair(number, total string) (string, bool) {
	switch {
	case number != "" && total != "":
		return number + "/" + total, true
	case number != "":
		return number, true
	case total != "":
		return strconv.Itoa(DefaultNumberInPair) + "/" + total, true
	default:
		return "", false
	}
}

// ParseNumber parses a non-negative decimal number, ignoring surrounding
// whitespace.
func ParseNumber(s string) (uint32, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// ParseYear extracts a year from the leading digits of a date string
// ("2019", "2019-04-01", "2019/04").
func ParseYear(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && end < 4 && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	return ParseNumber(s[:end])
}

// PushNumberPair explodes a native pair value into current and total items.
//
// When the current component does not parse, value is kept verbatim as a
// single item under currentKey.
func PushNumberPair(tag *Tag, currentKey, totalKey ItemKey, value string) {
	current, total, hasTotal := strings.Cut(value, "/")
	if _, ok := ParseNumber(current); !ok {
		tag.Push(NewTagItem(currentKey, TextValue(value)))
		return
	}
	tag.Push(NewTagItem(currentKey, TextValue(strings.TrimSpace(current))))
	if hasTotal && strings.TrimSpace(total) != "" {
		tag.Push(NewTagItem(totalKey, TextValue(strings.TrimSpace(total))))
	}
}

// JoinNumberPair re-forms the native "n/t" text from the current and total
// items of tag. It returns false when neither is present.
func JoinNumberPair(tag *Tag, currentKey, totalKey ItemKey) (string, bool) {
	number, _ := tag.GetString(currentKey)
	total, _ := tag.GetString(totalKey)
	return FormatNumberPair(number, total)
}

// IsPairKey reports whether key is one component of a number pair.
func IsPairKey(key ItemKey) bool {
	switch key {
	case ItemKeyTrackNumber, ItemKeyTrackTotal,
		ItemKeyDiscNumber, ItemKeyDiscTotal,
		ItemKeyMovementNumber, ItemKeyMovementTotal:
		return true
	default:
		return false
	}
}

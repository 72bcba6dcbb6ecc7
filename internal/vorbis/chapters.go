package vorbis

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/simonhull/audiotag/internal/types"
)

// Chapters extracts chapters from CHAPTERxxx fields:
//
//	CHAPTER001=00:00:00.000
//	CHAPTER001NAME=Introduction
//	CHAPTER002=00:05:23.500
//	CHAPTER002NAME=Chapter 1: The Beginning
//
// Chapters without a valid timestamp are skipped. The last chapter ends
// at fileDuration, or has a zero EndTime when the duration is unknown.
func (t *Tag) Chapters(fileDuration time.Duration) []types.Chapter {
	type chapterData struct {
		number int
		start  time.Duration
		title  string
		valid  bool
	}

	byNumber := make(map[int]*chapterData)
	get := func(num int) *chapterData {
		if byNumber[num] == nil {
			byNumber[num] = &chapterData{number: num}
		}
		return byNumber[num]
	}

	for _, f := range t.fields {
		key := strings.ToUpper(strings.TrimSpace(f.Key))
		if !strings.HasPrefix(key, "CHAPTER") {
			continue
		}
		value := strings.TrimSpace(f.Value)

		if numStr, ok := strings.CutSuffix(strings.TrimPrefix(key, "CHAPTER"), "NAME"); ok {
			if num, err := strconv.Atoi(numStr); err == nil {
				get(num).title = value
			}
			continue
		}

		num, err := strconv.Atoi(strings.TrimPrefix(key, "CHAPTER"))
		if err != nil {
			continue
		}
		start, err := parseChapterTimestamp(value)
		if err != nil {
			t.log().Debug("vorbis: skipping chapter", "key", key, "error", err)
			continue
		}
		c := get(num)
		c.start, c.valid = start, true
	}

	var list []chapterData
	for _, c := range byNumber {
		if c.valid {
			list = append(list, *c)
		}
	}
	if len(list) == 0 {
		return nil
	}
	slices.SortFunc(list, func(a, b chapterData) int {
		return cmp.Compare(a.number, b.number)
	})

	chapters := make([]types.Chapter, len(list))
	for i, c := range list {
		end := fileDuration
		if i < len(list)-1 {
			end = list[i+1].start
		}

		title := c.title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", c.number)
		}

		chapters[i] = types.Chapter{
			Index:     i + 1,
			Title:     title,
			StartTime: c.start,
			EndTime:   end,
		}
	}
	return chapters
}

// parseChapterTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm or SS.mmm.
func parseChapterTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("chapter timestamp %q: too many fields", ts)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("chapter timestamp %q: bad seconds", ts)
	}

	// Remaining fields are minutes, then hours
	total := seconds
	for i, unit := range []float64{60, 3600}[:len(parts)-1] {
		n, err := strconv.Atoi(parts[len(parts)-2-i])
		if err != nil || n < 0 || (unit == 60 && n >= 60) {
			return 0, fmt.Errorf("chapter timestamp %q: bad field %q", ts, parts[len(parts)-2-i])
		}
		total += float64(n) * unit
	}
	return time.Duration(total * float64(time.Second)), nil
}

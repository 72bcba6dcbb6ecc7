package id3v2

import (
	"log/slog"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// frameKeys maps well-known keys to the frame that stores them.
var frameKeys = types.NewKeyMap(false, map[types.ItemKey][]string{
	types.ItemKeyAlbumTitle:          {"TALB"},
	types.ItemKeyTrackTitle:          {"TIT2"},
	types.ItemKeyTrackSubtitle:       {"TIT3"},
	types.ItemKeyAlbumArtist:         {"TPE2"},
	types.ItemKeyTrackArtist:         {"TPE1"},
	types.ItemKeyComposer:            {"TCOM"},
	types.ItemKeyConductor:           {"TPE3"},
	types.ItemKeyLyricist:            {"TEXT"},
	types.ItemKeyGenre:               {"TCON"},
	types.ItemKeyComment:             {"COMM"},
	types.ItemKeyLyrics:              {"USLT"},
	types.ItemKeyRecordingDate:       {"TDRC"},
	types.ItemKeyOriginalReleaseDate: {"TDOR"},
	types.ItemKeyTrackNumber:         {"TRCK"},
	types.ItemKeyDiscNumber:          {"TPOS"},
	types.ItemKeyMovement:            {"MVNM"},
	types.ItemKeyMovementNumber:      {"MVIN"},
	types.ItemKeyContentGroup:        {"TIT1"},
	types.ItemKeyCopyright:           {"TCOP"},
	types.ItemKeyLabel:               {"TPUB"},
	types.ItemKeyISRC:                {"TSRC"},
	types.ItemKeyEncoderSoftware:     {"TSSE"},
	types.ItemKeyEncodedBy:           {"TENC"},
	types.ItemKeyLanguage:            {"TLAN"},
	types.ItemKeyBPM:                 {"TBPM"},
	types.ItemKeyMood:                {"TMOO"},
	types.ItemKeyFlagCompilation:     {"TCMP"},

	types.ItemKeyCommercialInformationURL: {"WCOM"},
	types.ItemKeyCopyrightURL:             {"WCOP"},
	types.ItemKeyAudioFileURL:             {"WOAF"},
	types.ItemKeyArtistURL:                {"WOAR"},
	types.ItemKeyAudioSourceURL:           {"WOAS"},
	types.ItemKeyRadioStationURL:          {"WORS"},
	types.ItemKeyPaymentURL:               {"WPAY"},
	types.ItemKeyPublisherURL:             {"WPUB"},
})

// userTextKeys maps well-known keys stored in TXXX frames, by description.
var userTextKeys = types.NewKeyMap(true, map[types.ItemKey][]string{
	types.ItemKeyDescription:         {"DESCRIPTION"},
	types.ItemKeyBarcode:             {"BARCODE"},
	types.ItemKeyCatalogNumber:       {"CATALOGNUMBER"},
	types.ItemKeyMusicBrainzTrackID:  {"MusicBrainz Release Track Id"},
	types.ItemKeyMusicBrainzAlbumID:  {"MusicBrainz Album Id"},
	types.ItemKeyMusicBrainzArtistID: {"MusicBrainz Artist Id"},
	types.ItemKeyReplayGainTrackGain: {"REPLAYGAIN_TRACK_GAIN"},
	types.ItemKeyReplayGainTrackPeak: {"REPLAYGAIN_TRACK_PEAK"},
	types.ItemKeyReplayGainAlbumGain: {"REPLAYGAIN_ALBUM_GAIN"},
	types.ItemKeyReplayGainAlbumPeak: {"REPLAYGAIN_ALBUM_PEAK"},
})

var pairFrames = []struct {
	id             string
	current, total types.ItemKey
}{
	{"TRCK", types.ItemKeyTrackNumber, types.ItemKeyTrackTotal},
	{"TPOS", types.ItemKeyDiscNumber, types.ItemKeyDiscTotal},
	{"MVIN", types.ItemKeyMovementNumber, types.ItemKeyMovementTotal},
}

// Remainder holds the frames a split could not lift into the unified
// model: binary frames, extended URLs, described comments and unmapped
// TXXX or URL frames.
type Remainder struct {
	frames []Frame

	// languages holds, per frame ID, the languages of the lifted COMM and
	// USLT frames in order.
	languages map[string][]string

	OriginalVersion Version
	Flags           HeaderFlags
}

// Len returns the number of frames left behind.
func (r Remainder) Len() int {
	return len(r.frames)
}

// Split lifts the frames of t into the unified model.
//
// Text frames with no mapping keep their frame ID as the raw key. NUL
// separated values become one item each.
func Split(t *Tag) (Remainder, *types.Tag) {
	rem := Remainder{OriginalVersion: t.OriginalVersion, Flags: t.Flags}
	tag := types.NewTag(types.TagTypeID3v2)

	for _, f := range t.frames {
		switch f := f.(type) {
		case *TextFrame:
			splitText(tag, f)

		case *UserTextFrame:
			if key := userTextKeys.Lookup(f.Description); key != types.ItemKeyUnknown {
				tag.Push(types.NewTagItem(key, types.TextValue(f.Value)))
				continue
			}
			rem.frames = append(rem.frames, f)

		case *CommentFrame:
			if f.Description != "" {
				rem.frames = append(rem.frames, f)
				continue
			}
			if rem.languages == nil {
				rem.languages = make(map[string][]string)
			}
			rem.languages[f.FrameID] = append(rem.languages[f.FrameID], f.Language)
			tag.Push(types.NewTagItem(frameKeys.Lookup(f.FrameID), types.TextValue(f.Text)))

		case *URLFrame:
			if key := frameKeys.Lookup(f.FrameID); key != types.ItemKeyUnknown {
				tag.Push(types.NewTagItem(key, types.LocatorValue(f.URL)))
				continue
			}
			rem.frames = append(rem.frames, f)

		case *PictureFrame:
			tag.PushPicture(f.Picture)

		default:
			rem.frames = append(rem.frames, f)
		}
	}

	return rem, tag
}

func splitText(tag *types.Tag, f *TextFrame) {
	for _, p := range pairFrames {
		if f.FrameID == p.id {
			types.PushNumberPair(tag, p.current, p.total, f.Values()[0])
			return
		}
	}

	key := frameKeys.Lookup(f.FrameID)
	for _, value := range f.Values() {
		if key == types.ItemKeyUnknown {
			tag.Push(types.NewUnknownItem(f.FrameID, types.TextValue(value)))
		} else {
			tag.Push(types.NewTagItem(key, types.TextValue(value)))
		}
	}
}

// Merge rebuilds an ID3v2 tag from a remainder and a unified tag.
//
// Repeated items of a text frame are joined into one multi-value frame.
// Unknown text items become a text frame when their raw key is a frame ID,
// and a TXXX frame otherwise. A Year item is written as TDRC when the tag
// has no recording date. Comments and lyrics keep the language they were
// split with. Pictures of undefined type are discarded.
func Merge(rem Remainder, tag *types.Tag, logger *slog.Logger) *Tag {
	log := types.OrDiscard(logger)
	merged := NewTag()
	merged.OriginalVersion = rem.OriginalVersion
	merged.Flags = rem.Flags
	merged.SetLogger(logger)
	for _, f := range rem.frames {
		merged.Insert(f)
	}

	var (
		order     []string
		values    = make(map[string][]string)
		year      string
		languages = make(map[string]int)
	)
	addText := func(id, value string) {
		if _, ok := values[id]; !ok {
			order = append(order, id)
		}
		values[id] = append(values[id], value)
	}

	for item := range tag.All() {
		if types.IsPairKey(item.Key) {
			continue
		}
		if _, ok := item.Value.(types.BinaryValue); ok {
			log.Debug("id3v2: dropping binary item", "key", item.Name())
			continue
		}
		value := item.Value.String()

		if item.Key == types.ItemKeyUnknown {
			if validFrameID(item.RawKey, V24) && item.RawKey[0] == 'T' && item.RawKey != "TXXX" {
				addText(item.RawKey, value)
			} else {
				merged.Insert(&UserTextFrame{Encoding: EncodingUTF8, Description: item.RawKey, Value: value})
			}
			continue
		}
		if item.Key == types.ItemKeyYear {
			year = value
			continue
		}

		if id, ok := frameKeys.NativeKey(item.Key); ok {
			switch {
			case id == "COMM", id == "USLT":
				f := newFrameFor(id, value).(*CommentFrame)
				if langs := rem.languages[id]; languages[id] < len(langs) {
					f.Language = langs[languages[id]]
				}
				languages[id]++
				merged.Insert(f)
			case id[0] == 'W':
				merged.Insert(newFrameFor(id, value))
			default:
				addText(id, value)
			}
			continue
		}
		if desc, ok := userTextKeys.NativeKey(item.Key); ok {
			merged.Insert(&UserTextFrame{Encoding: EncodingUTF8, Description: desc, Value: value})
			continue
		}
		log.Debug("id3v2: no frame for key", "key", item.Key)
	}

	for _, id := range order {
		merged.Insert(&TextFrame{FrameID: id, Encoding: EncodingUTF8, Value: strings.Join(values[id], "\x00")})
	}
	for _, p := range pairFrames {
		if value, ok := types.JoinNumberPair(tag, p.current, p.total); ok {
			merged.Insert(&TextFrame{FrameID: p.id, Encoding: EncodingLatin1, Value: value})
		}
	}
	if _, ok := merged.Get("TDRC"); !ok && year != "" {
		merged.Insert(&TextFrame{FrameID: "TDRC", Encoding: EncodingLatin1, Value: year})
	}

	for _, pic := range tag.Pictures() {
		if pic.Type == types.PictureUndefined {
			log.Debug("id3v2: discarding picture", "type", pic.Type)
			continue
		}
		merged.Insert(&PictureFrame{Encoding: EncodingUTF8, Picture: pic})
	}

	return merged
}

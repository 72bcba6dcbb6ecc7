package types

import "strings"

// ItemKey identifies a well-known field of the unified model.
//
// ItemKeyUnknown is the escape hatch for native keys with no mapping; the
// native key travels in TagItem.RawKey.
type ItemKey int

const (
	ItemKeyUnknown ItemKey = iota

	ItemKeyAlbumTitle
	ItemKeyTrackTitle
	ItemKeyTrackSubtitle
	ItemKeyAlbumArtist
	ItemKeyTrackArtist
	ItemKeyComposer
	ItemKeyConductor
	ItemKeyLyricist
	ItemKeyGenre
	ItemKeyComment
	ItemKeyLyrics
	ItemKeyDescription
	ItemKeyYear
	ItemKeyRecordingDate
	ItemKeyOriginalReleaseDate

	ItemKeyTrackNumber
	ItemKeyTrackTotal
	ItemKeyDiscNumber
	ItemKeyDiscTotal
	ItemKeyMovement
	ItemKeyMovementNumber
	ItemKeyMovementTotal

	ItemKeyContentGroup
	ItemKeyCopyright
	ItemKeyLabel
	ItemKeyISRC
	ItemKeyBarcode
	ItemKeyCatalogNumber
	ItemKeyEncoderSoftware
	ItemKeyEncodedBy
	ItemKeyLanguage
	ItemKeyBPM
	ItemKeyMood
	ItemKeyFlagCompilation

	ItemKeyMusicBrainzTrackID
	ItemKeyMusicBrainzAlbumID
	ItemKeyMusicBrainzArtistID

	ItemKeyReplayGainTrackGain
	ItemKeyReplayGainTrackPeak
	ItemKeyReplayGainAlbumGain
	ItemKeyReplayGainAlbumPeak

	ItemKeyCommercialInformationURL
	ItemKeyCopyrightURL
	ItemKeyAudioFileURL
	ItemKeyArtistURL
	ItemKeyAudioSourceURL
	ItemKeyRadioStationURL
	ItemKeyPaymentURL
	ItemKeyPublisherURL

	itemKeyCount
)

var itemKeyNames = [itemKeyCount]string{
	ItemKeyUnknown:                  "Unknown",
	ItemKeyAlbumTitle:               "AlbumTitle",
	ItemKeyTrackTitle:               "TrackTitle",
	ItemKeyTrackSubtitle:            "TrackSubtitle",
	ItemKeyAlbumArtist:              "AlbumArtist",
	ItemKeyTrackArtist:              "TrackArtist",
	ItemKeyComposer:                 "Composer",
	ItemKeyConductor:                "Conductor",
	ItemKeyLyricist:                 "Lyricist",
	ItemKeyGenre:                    "Genre",
	ItemKeyComment:                  "Comment",
	ItemKeyLyrics:                   "Lyrics",
	ItemKeyDescription:              "Description",
	ItemKeyYear:                     "Year",
	ItemKeyRecordingDate:            "RecordingDate",
	ItemKeyOriginalReleaseDate:      "OriginalReleaseDate",
	ItemKeyTrackNumber:              "TrackNumber",
	ItemKeyTrackTotal:               "TrackTotal",
	ItemKeyDiscNumber:               "DiscNumber",
	ItemKeyDiscTotal:                "DiscTotal",
	ItemKeyMovement:                 "Movement",
	ItemKeyMovementNumber:           "MovementNumber",
	ItemKeyMovementTotal:            "MovementTotal",
	ItemKeyContentGroup:             "ContentGroup",
	ItemKeyCopyright:                "Copyright",
	ItemKeyLabel:                    "Label",
	ItemKeyISRC:                     "ISRC",
	ItemKeyBarcode:                  "Barcode",
	ItemKeyCatalogNumber:            "CatalogNumber",
	ItemKeyEncoderSoftware:          "EncoderSoftware",
	ItemKeyEncodedBy:                "EncodedBy",
	ItemKeyLanguage:                 "Language",
	ItemKeyBPM:                      "BPM",
	ItemKeyMood:                     "Mood",
	ItemKeyFlagCompilation:          "FlagCompilation",
	ItemKeyMusicBrainzTrackID:       "MusicBrainzTrackID",
	ItemKeyMusicBrainzAlbumID:       "MusicBrainzAlbumID",
	ItemKeyMusicBrainzArtistID:      "MusicBrainzArtistID",
	ItemKeyReplayGainTrackGain:      "ReplayGainTrackGain",
	ItemKeyReplayGainTrackPeak:      "ReplayGainTrackPeak",
	ItemKeyReplayGainAlbumGain:      "ReplayGainAlbumGain",
	ItemKeyReplayGainAlbumPeak:      "ReplayGainAlbumPeak",
	ItemKeyCommercialInformationURL: "CommercialInformationURL",
	ItemKeyCopyrightURL:             "CopyrightURL",
	ItemKeyAudioFileURL:             "AudioFileURL",
	ItemKeyArtistURL:                "ArtistURL",
	ItemKeyAudioSourceURL:           "AudioSourceURL",
	ItemKeyRadioStationURL:          "RadioStationURL",
	ItemKeyPaymentURL:               "PaymentURL",
	ItemKeyPublisherURL:             "PublisherURL",
}

func (k ItemKey) String() string {
	if k < 0 || k >= itemKeyCount {
		return "Unknown"
	}
	return itemKeyNames[k]
}

// ItemKeyByName returns the key whose String() is name.
func ItemKeyByName(name string) (ItemKey, bool) {
	for k, n := range itemKeyNames {
		if n == name {
			return ItemKey(k), true
		}
	}
	return ItemKeyUnknown, false
}

// KeyMap maps well-known keys to the native keys of one tag format.
//
// The first native key listed for an ItemKey is the one used on write.
// Every listed key resolves back to the ItemKey on read.
type KeyMap struct {
	forward map[ItemKey][]string
	reverse map[string]ItemKey
	fold    bool
}

// NewKeyMap builds a KeyMap. With fold set, native keys are matched
// case-insensitively.
func NewKeyMap(fold bool, entries map[ItemKey][]string) *KeyMap {
	m := &KeyMap{
		forward: entries,
		reverse: make(map[string]ItemKey),
		fold:    fold,
	}
	for key, natives := range entries {
		for _, native := range natives {
			m.reverse[m.normalize(native)] = key
		}
	}
	return m
}

func (m *KeyMap) normalize(native string) string {
	if m.fold {
		return strings.ToUpper(native)
	}
	return native
}

// Lookup returns the ItemKey for a native key, or ItemKeyUnknown.
func (m *KeyMap) Lookup(native string) ItemKey {
	if key, ok := m.reverse[m.normalize(native)]; ok {
		return key
	}
	return ItemKeyUnknown
}

// NativeKey returns the native key used when writing key.
func (m *KeyMap) NativeKey(key ItemKey) (string, bool) {
	natives := m.forward[key]
	if len(natives) == 0 {
		return "", false
	}
	return natives[0], true
}

// NativeKeys returns every native key that maps to key, write key first.
func (m *KeyMap) NativeKeys(key ItemKey) []string {
	return m.forward[key]
}

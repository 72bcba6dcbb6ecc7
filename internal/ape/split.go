package ape

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// keyMap maps unified keys to APE item keys. The first key is written.
var keyMap = types.NewKeyMap(true, map[types.ItemKey][]string{
	types.ItemKeyAlbumTitle:          {"Album"},
	types.ItemKeyTrackTitle:          {"Title"},
	types.ItemKeyTrackSubtitle:       {"Subtitle"},
	types.ItemKeyAlbumArtist:         {"Album Artist", "AlbumArtist"},
	types.ItemKeyTrackArtist:         {"Artist"},
	types.ItemKeyComposer:            {"Composer"},
	types.ItemKeyConductor:           {"Conductor"},
	types.ItemKeyLyricist:            {"Lyricist"},
	types.ItemKeyGenre:               {"Genre"},
	types.ItemKeyComment:             {"Comment"},
	types.ItemKeyLyrics:              {"Lyrics"},
	types.ItemKeyYear:                {"Year"},
	types.ItemKeyRecordingDate:       {"Record Date"},
	types.ItemKeyOriginalReleaseDate: {"Original Year"},
	types.ItemKeyTrackNumber:         {"Track"},
	types.ItemKeyDiscNumber:          {"Disk", "Disc"},
	types.ItemKeyMovement:            {"Movement Name"},
	types.ItemKeyMovementNumber:      {"Movement"},
	types.ItemKeyContentGroup:        {"Grouping"},
	types.ItemKeyCopyright:           {"Copyright"},
	types.ItemKeyLabel:               {"Label", "Publisher"},
	types.ItemKeyISRC:                {"ISRC"},
	types.ItemKeyBarcode:             {"Barcode"},
	types.ItemKeyCatalogNumber:       {"CatalogNumber"},
	types.ItemKeyEncoderSoftware:     {"Encoder"},
	types.ItemKeyEncodedBy:           {"EncodedBy"},
	types.ItemKeyLanguage:            {"Language"},
	types.ItemKeyBPM:                 {"BPM"},
	types.ItemKeyMood:                {"Mood"},
	types.ItemKeyFlagCompilation:     {"Compilation"},
	types.ItemKeyMusicBrainzTrackID:  {"MUSICBRAINZ_TRACKID"},
	types.ItemKeyMusicBrainzAlbumID:  {"MUSICBRAINZ_ALBUMID"},
	types.ItemKeyMusicBrainzArtistID: {"MUSICBRAINZ_ARTISTID"},
	types.ItemKeyReplayGainTrackGain: {"REPLAYGAIN_TRACK_GAIN"},
	types.ItemKeyReplayGainTrackPeak: {"REPLAYGAIN_TRACK_PEAK"},
	types.ItemKeyReplayGainAlbumGain: {"REPLAYGAIN_ALBUM_GAIN"},
	types.ItemKeyReplayGainAlbumPeak: {"REPLAYGAIN_ALBUM_PEAK"},
})

// pictureKeys are the binary item keys holding pictures, indexed by type.
var pictureKeys = [...]string{
	types.PictureOther:             "Cover Art (Other)",
	types.PictureIcon:              "Cover Art (Png Icon)",
	types.PictureOtherIcon:         "Cover Art (Icon)",
	types.PictureFrontCover:        "Cover Art (Front)",
	types.PictureBackCover:         "Cover Art (Back)",
	types.PictureLeaflet:           "Cover Art (Leaflet)",
	types.PictureMedia:             "Cover Art (Media)",
	types.PictureLeadArtist:        "Cover Art (Lead Artist)",
	types.PictureArtist:            "Cover Art (Artist)",
	types.PictureConductor:         "Cover Art (Conductor)",
	types.PictureBand:              "Cover Art (Band)",
	types.PictureComposer:          "Cover Art (Composer)",
	types.PictureLyricist:          "Cover Art (Lyricist)",
	types.PictureRecordingLocation: "Cover Art (Studio)",
	types.PictureDuringRecording:   "Cover Art (Recording)",
	types.PictureDuringPerformance: "Cover Art (Performance)",
	types.PictureScreenCapture:     "Cover Art (Movie Scene)",
	types.PictureBrightFish:        "Cover Art (Colored Fish)",
	types.PictureIllustration:      "Cover Art (Illustration)",
	types.PictureBandLogo:          "Cover Art (Band Logo)",
	types.PicturePublisherLogo:     "Cover Art (Publisher Logo)",
}

// PictureKey returns the item key for a picture type. PictureUndefined has
// none.
func PictureKey(pt types.PictureType) (string, bool) {
	if pt < 0 || int(pt) >= len(pictureKeys) {
		return "", false
	}
	return pictureKeys[pt], true
}

func pictureTypeForKey(key string) (types.PictureType, bool) {
	for pt, k := range pictureKeys {
		if strings.EqualFold(k, key) {
			return types.PictureType(pt), true
		}
	}
	return 0, false
}

// decodePicture parses a "Cover Art" value: a NUL-terminated description
// (usually the file name) followed by the image bytes.
func decodePicture(pt types.PictureType, value []byte) types.Picture {
	p := types.Picture{Type: pt}
	if desc, data, ok := bytes.Cut(value, []byte{0}); ok {
		p.Description = string(desc)
		p.Data = data
	} else {
		p.Data = value
	}
	p.MIMEType = types.SniffMIME(p.Data)
	return p
}

func encodePicture(p types.Picture) []byte {
	buf := make([]byte, 0, len(p.Description)+1+len(p.Data))
	buf = append(buf, p.Description...)
	buf = append(buf, 0)
	return append(buf, p.Data...)
}

// Remainder is what a split leaves behind: the tag-level flags. Every APE
// item has a unified representation.
type Remainder struct {
	ReadOnly bool
}

// Split lifts every item of t into the unified model.
//
// Track, Disk and Movement pairs become separate number and total items
// when the number parses. Binary "Cover Art" items become pictures.
func Split(t *Tag) (Remainder, *types.Tag) {
	tag := types.NewTag(types.TagTypeAPE)

	for _, item := range t.items {
		if bin, ok := item.Value.(types.BinaryValue); ok {
			if pt, ok := pictureTypeForKey(item.Key); ok {
				tag.PushPicture(decodePicture(pt, bin))
				continue
			}
		}

		key := keyMap.Lookup(item.Key)
		text, isText := item.Value.(types.TextValue)
		switch {
		case isText && key == types.ItemKeyTrackNumber:
			types.PushNumberPair(tag, types.ItemKeyTrackNumber, types.ItemKeyTrackTotal, string(text))
		case isText && key == types.ItemKeyDiscNumber:
			types.PushNumberPair(tag, types.ItemKeyDiscNumber, types.ItemKeyDiscTotal, string(text))
		case isText && key == types.ItemKeyMovementNumber:
			types.PushNumberPair(tag, types.ItemKeyMovementNumber, types.ItemKeyMovementTotal, string(text))
		case key == types.ItemKeyUnknown:
			tag.Push(types.NewUnknownItem(item.Key, item.Value))
		default:
			tag.Push(types.NewTagItem(key, item.Value))
		}
	}

	return Remainder{ReadOnly: t.ReadOnly}, tag
}

// Merge rebuilds an APE tag from a remainder and a unified tag.
//
// Items whose key has no APE mapping, and unknown items whose raw key is
// not a legal APE key, are dropped with a debug record. Pictures with no
// APE key are discarded.
func Merge(rem Remainder, tag *types.Tag, logger *slog.Logger) *Tag {
	log := types.OrDiscard(logger)
	merged := &Tag{ReadOnly: rem.ReadOnly, logger: logger}

	for item := range tag.All() {
		if types.IsPairKey(item.Key) {
			continue
		}

		native := item.RawKey
		if item.Key != types.ItemKeyUnknown {
			var ok bool
			if native, ok = keyMap.NativeKey(item.Key); !ok {
				log.Debug("ape: no item key", "key", item.Key)
				continue
			}
		}
		if err := merged.Insert(Item{Key: native, Value: item.Value}); err != nil {
			log.Debug("ape: dropping item", "key", native, "error", err)
		}
	}

	pairs := []struct {
		current, total types.ItemKey
		native         string
	}{
		{types.ItemKeyTrackNumber, types.ItemKeyTrackTotal, "Track"},
		{types.ItemKeyDiscNumber, types.ItemKeyDiscTotal, "Disk"},
		{types.ItemKeyMovementNumber, types.ItemKeyMovementTotal, "Movement"},
	}
	for _, p := range pairs {
		if value, ok := types.JoinNumberPair(tag, p.current, p.total); ok {
			merged.insert(Item{Key: p.native, Value: types.TextValue(value)})
		}
	}

	for _, pic := range tag.Pictures() {
		key, ok := PictureKey(pic.Type)
		if !ok {
			log.Debug("ape: discarding picture", "type", pic.Type)
			continue
		}
		merged.insert(Item{Key: key, Value: types.BinaryValue(encodePicture(pic))})
	}

	return merged
}

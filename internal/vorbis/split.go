package vorbis

import (
	"log/slog"

	"github.com/simonhull/audiotag/internal/types"
)

// keyMap maps well-known keys to field names. The first name is written.
var keyMap = types.NewKeyMap(true, map[types.ItemKey][]string{
	types.ItemKeyAlbumTitle:          {"ALBUM"},
	types.ItemKeyTrackTitle:          {"TITLE"},
	types.ItemKeyTrackSubtitle:       {"SUBTITLE", "VERSION"},
	types.ItemKeyAlbumArtist:         {"ALBUMARTIST", "ALBUM ARTIST"},
	types.ItemKeyTrackArtist:         {"ARTIST"},
	types.ItemKeyComposer:            {"COMPOSER"},
	types.ItemKeyConductor:           {"CONDUCTOR"},
	types.ItemKeyLyricist:            {"LYRICIST"},
	types.ItemKeyGenre:               {"GENRE"},
	types.ItemKeyComment:             {"COMMENT"},
	types.ItemKeyLyrics:              {"LYRICS"},
	types.ItemKeyDescription:         {"DESCRIPTION"},
	types.ItemKeyRecordingDate:       {"DATE"},
	types.ItemKeyYear:                {"YEAR"},
	types.ItemKeyOriginalReleaseDate: {"ORIGINALDATE"},
	types.ItemKeyTrackNumber:         {"TRACKNUMBER"},
	types.ItemKeyTrackTotal:          {"TRACKTOTAL", "TOTALTRACKS"},
	types.ItemKeyDiscNumber:          {"DISCNUMBER"},
	types.ItemKeyDiscTotal:           {"DISCTOTAL", "TOTALDISCS"},
	types.ItemKeyMovement:            {"MOVEMENTNAME"},
	types.ItemKeyMovementNumber:      {"MOVEMENT"},
	types.ItemKeyMovementTotal:       {"MOVEMENTTOTAL"},
	types.ItemKeyContentGroup:        {"GROUPING"},
	types.ItemKeyCopyright:           {"COPYRIGHT"},
	types.ItemKeyLabel:               {"LABEL", "ORGANIZATION", "PUBLISHER"},
	types.ItemKeyISRC:                {"ISRC"},
	types.ItemKeyBarcode:             {"BARCODE"},
	types.ItemKeyCatalogNumber:       {"CATALOGNUMBER"},
	types.ItemKeyEncoderSoftware:     {"ENCODER"},
	types.ItemKeyEncodedBy:           {"ENCODEDBY"},
	types.ItemKeyLanguage:            {"LANGUAGE"},
	types.ItemKeyBPM:                 {"BPM"},
	types.ItemKeyMood:                {"MOOD"},
	types.ItemKeyFlagCompilation:     {"COMPILATION"},
	types.ItemKeyMusicBrainzTrackID:  {"MUSICBRAINZ_TRACKID"},
	types.ItemKeyMusicBrainzAlbumID:  {"MUSICBRAINZ_ALBUMID"},
	types.ItemKeyMusicBrainzArtistID: {"MUSICBRAINZ_ARTISTID"},
	types.ItemKeyReplayGainTrackGain: {"REPLAYGAIN_TRACK_GAIN"},
	types.ItemKeyReplayGainTrackPeak: {"REPLAYGAIN_TRACK_PEAK"},
	types.ItemKeyReplayGainAlbumGain: {"REPLAYGAIN_ALBUM_GAIN"},
	types.ItemKeyReplayGainAlbumPeak: {"REPLAYGAIN_ALBUM_PEAK"},
})

// pairFields are the number fields that some writers store as "n/t".
var pairFields = []struct {
	current, total types.ItemKey
}{
	{types.ItemKeyTrackNumber, types.ItemKeyTrackTotal},
	{types.ItemKeyDiscNumber, types.ItemKeyDiscTotal},
	{types.ItemKeyMovementNumber, types.ItemKeyMovementTotal},
}

// Remainder is what a split leaves behind: the vendor string.
type Remainder struct {
	Vendor string
}

// Split lifts every field and picture of t into the unified model.
//
// A number field holding "n/t" is exploded into number and total items.
// Fields with no mapping keep their name as the raw key.
func Split(t *Tag) (Remainder, *types.Tag) {
	tag := types.NewTag(types.TagTypeVorbisComments)

fields:
	for _, f := range t.fields {
		key := keyMap.Lookup(f.Key)
		if key == types.ItemKeyUnknown {
			tag.Push(types.NewUnknownItem(f.Key, types.TextValue(f.Value)))
			continue
		}
		for _, p := range pairFields {
			if key == p.current {
				types.PushNumberPair(tag, p.current, p.total, f.Value)
				continue fields
			}
		}
		tag.Push(types.NewTagItem(key, types.TextValue(f.Value)))
	}

	for _, p := range t.pictures {
		tag.PushPicture(p)
	}

	return Remainder{Vendor: t.Vendor}, tag
}

// Merge rebuilds a Vorbis Comment from a remainder and a unified tag.
//
// Number and total are written as separate fields. Binary items, and
// unknown items whose raw key is not a valid field name, are dropped
// with a debug record. Pictures of undefined type are discarded.
func Merge(rem Remainder, tag *types.Tag, logger *slog.Logger) *Tag {
	log := types.OrDiscard(logger)
	merged := &Tag{Vendor: rem.Vendor, logger: logger}
	if merged.Vendor == "" {
		merged.Vendor = DefaultVendor
	}

	for item := range tag.All() {
		if _, ok := item.Value.(types.BinaryValue); ok {
			log.Debug("vorbis: dropping binary item", "key", item.Name())
			continue
		}

		name := item.RawKey
		if item.Key != types.ItemKeyUnknown {
			var ok bool
			if name, ok = keyMap.NativeKey(item.Key); !ok {
				log.Debug("vorbis: no field for key", "key", item.Key)
				continue
			}
		}
		if err := merged.Push(name, item.Value.String()); err != nil {
			log.Debug("vorbis: dropping item", "key", name, "error", err)
		}
	}

	for _, p := range tag.Pictures() {
		if p.Type == types.PictureUndefined {
			log.Debug("vorbis: discarding picture", "type", p.Type)
			continue
		}
		merged.PushPicture(p)
	}

	return merged
}

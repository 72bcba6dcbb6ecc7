package audiotag

import (
	"github.com/simonhull/audiotag/internal/ape"
	"github.com/simonhull/audiotag/internal/flac"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// Tag is the unified, format-independent tag.
type Tag = types.Tag

// TagItem is one key/value pair of a Tag.
type TagItem = types.TagItem

// TagType names the native format a Tag was split from.
type TagType = types.TagType

// ItemKey identifies a well-known field.
type ItemKey = types.ItemKey

// Item values. Text is the common case; binary values come from APE.
type (
	ItemValue    = types.ItemValue
	TextValue    = types.TextValue
	BinaryValue  = types.BinaryValue
	LocatorValue = types.LocatorValue
)

// Native tags.
type (
	ID3v2Tag   = id3v2.Tag
	APETag     = ape.Tag
	VorbisTag  = vorbis.Tag
	FLACStream = flac.File
)

const (
	TagTypeUnknown        = types.TagTypeUnknown
	TagTypeAPE            = types.TagTypeAPE
	TagTypeID3v2          = types.TagTypeID3v2
	TagTypeVorbisComments = types.TagTypeVorbisComments
)

// Re-export all item keys.
const (
	ItemKeyUnknown                  = types.ItemKeyUnknown
	ItemKeyAlbumTitle               = types.ItemKeyAlbumTitle
	ItemKeyTrackTitle               = types.ItemKeyTrackTitle
	ItemKeyTrackSubtitle            = types.ItemKeyTrackSubtitle
	ItemKeyAlbumArtist              = types.ItemKeyAlbumArtist
	ItemKeyTrackArtist              = types.ItemKeyTrackArtist
	ItemKeyComposer                 = types.ItemKeyComposer
	ItemKeyConductor                = types.ItemKeyConductor
	ItemKeyLyricist                 = types.ItemKeyLyricist
	ItemKeyGenre                    = types.ItemKeyGenre
	ItemKeyComment                  = types.ItemKeyComment
	ItemKeyLyrics                   = types.ItemKeyLyrics
	ItemKeyDescription              = types.ItemKeyDescription
	ItemKeyYear                     = types.ItemKeyYear
	ItemKeyRecordingDate            = types.ItemKeyRecordingDate
	ItemKeyOriginalReleaseDate      = types.ItemKeyOriginalReleaseDate
	ItemKeyTrackNumber              = types.ItemKeyTrackNumber
	ItemKeyTrackTotal               = types.ItemKeyTrackTotal
	ItemKeyDiscNumber               = types.ItemKeyDiscNumber
	ItemKeyDiscTotal                = types.ItemKeyDiscTotal
	ItemKeyMovement                 = types.ItemKeyMovement
	ItemKeyMovementNumber           = types.ItemKeyMovementNumber
	ItemKeyMovementTotal            = types.ItemKeyMovementTotal
	ItemKeyContentGroup             = types.ItemKeyContentGroup
	ItemKeyCopyright                = types.ItemKeyCopyright
	ItemKeyLabel                    = types.ItemKeyLabel
	ItemKeyISRC                     = types.ItemKeyISRC
	ItemKeyBarcode                  = types.ItemKeyBarcode
	ItemKeyCatalogNumber            = types.ItemKeyCatalogNumber
	ItemKeyEncoderSoftware          = types.ItemKeyEncoderSoftware
	ItemKeyEncodedBy                = types.ItemKeyEncodedBy
	ItemKeyLanguage                 = types.ItemKeyLanguage
	ItemKeyBPM                      = types.ItemKeyBPM
	ItemKeyMood                     = types.ItemKeyMood
	ItemKeyFlagCompilation          = types.ItemKeyFlagCompilation
	ItemKeyMusicBrainzTrackID       = types.ItemKeyMusicBrainzTrackID
	ItemKeyMusicBrainzAlbumID       = types.ItemKeyMusicBrainzAlbumID
	ItemKeyMusicBrainzArtistID      = types.ItemKeyMusicBrainzArtistID
	ItemKeyReplayGainTrackGain      = types.ItemKeyReplayGainTrackGain
	ItemKeyReplayGainTrackPeak      = types.ItemKeyReplayGainTrackPeak
	ItemKeyReplayGainAlbumGain      = types.ItemKeyReplayGainAlbumGain
	ItemKeyReplayGainAlbumPeak      = types.ItemKeyReplayGainAlbumPeak
	ItemKeyCommercialInformationURL = types.ItemKeyCommercialInformationURL
	ItemKeyCopyrightURL             = types.ItemKeyCopyrightURL
	ItemKeyAudioFileURL             = types.ItemKeyAudioFileURL
	ItemKeyArtistURL                = types.ItemKeyArtistURL
	ItemKeyAudioSourceURL           = types.ItemKeyAudioSourceURL
	ItemKeyRadioStationURL          = types.ItemKeyRadioStationURL
	ItemKeyPaymentURL               = types.ItemKeyPaymentURL
	ItemKeyPublisherURL             = types.ItemKeyPublisherURL
)

// NewTag returns an empty tag of the given type.
func NewTag(tagType TagType) *Tag {
	return types.NewTag(tagType)
}

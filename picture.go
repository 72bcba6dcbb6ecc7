package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is an embedded image. Data is never decoded.
type Picture = types.Picture

// PictureType is the purpose of a picture, as in the ID3v2 APIC and FLAC
// PICTURE type byte.
type PictureType = types.PictureType

// Re-export all picture type constants
const (
	PictureOther             = types.PictureOther
	PictureIcon              = types.PictureIcon
	PictureOtherIcon         = types.PictureOtherIcon
	PictureFrontCover        = types.PictureFrontCover
	PictureBackCover         = types.PictureBackCover
	PictureLeaflet           = types.PictureLeaflet
	PictureMedia             = types.PictureMedia
	PictureLeadArtist        = types.PictureLeadArtist
	PictureArtist            = types.PictureArtist
	PictureConductor         = types.PictureConductor
	PictureBand              = types.PictureBand
	PictureComposer          = types.PictureComposer
	PictureLyricist          = types.PictureLyricist
	PictureRecordingLocation = types.PictureRecordingLocation
	PictureDuringRecording   = types.PictureDuringRecording
	PictureDuringPerformance = types.PictureDuringPerformance
	PictureScreenCapture     = types.PictureScreenCapture
	PictureBrightFish        = types.PictureBrightFish
	PictureIllustration      = types.PictureIllustration
	PictureBandLogo          = types.PictureBandLogo
	PicturePublisherLogo     = types.PicturePublisherLogo
	PictureUndefined         = types.PictureUndefined
)

package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Properties are the audio stream properties read from FLAC STREAMINFO.
type Properties = types.Properties

// ReplayGainInfo represents loudness normalization data.
type ReplayGainInfo = types.ReplayGainInfo

// Chapter is a chapter marker.
type Chapter = types.Chapter

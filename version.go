package audiotag

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the audiotag library.
const Version = "0.1.0"

// BuildInfo describes the binary that embeds the library.
type BuildInfo struct {
	Version   string
	Revision  string // VCS revision, "unknown" outside a checkout
	Modified  bool   // the checkout had uncommitted changes
	GoVersion string
}

// ReadBuildInfo returns the library version and the VCS stamp the Go
// toolchain recorded in the running binary.
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

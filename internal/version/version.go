// Package version carries the build fingerprints stamped into the binary.
package version

import "strings"

// Overridable at build time, e.g.
// -ldflags "-X expectest/internal/version.Version=0.2.0".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is a normalized view of the stamped values.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Current trims the stamped values and falls back to "dev" when no
// version was set at all.
func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

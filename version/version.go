// Package version exposes build metadata stamped at link time via
// -ldflags "-X github.com/skillsenselab/identity/version.Version=...".
package version

import "runtime"

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"

	// BuildDate is the RFC3339 build timestamp.
	BuildDate = "unknown"
)

// Info is the JSON-serializable build description.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

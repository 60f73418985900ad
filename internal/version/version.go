package version

import "fmt"

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the raw version, commit and build date values.
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String returns a single-line version summary for --version output
// and the health endpoint.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

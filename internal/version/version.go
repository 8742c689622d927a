// Package version carries build identification stamped in at link time.
package version

import "fmt"

var (
	Version = "0.1.0-dev" // Overridden by ldflags
	Commit  = "unknown"   // Overridden by ldflags
	Date    = "unknown"   // Overridden by ldflags
)

// BuildInfo returns the full build description, e.g. "0.1.0 (2be4034 2025-03-31)".
// Callers compute it once at startup and pass it by value.
func BuildInfo() string {
	return fmt.Sprintf("%s (%s %s)", Version, Commit, Date)
}

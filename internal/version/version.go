// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
// Update this at logical milestones.
const Version = "0.1.0"

// Build information injected at build time via ldflags
var (
	Commit = "unknown"
	Date   = "unknown"
)

// Milestones:
// 0.1.0 - Changelog dashlet, release fetcher, persisted state store
// 0.2.0 - (planned) Multiple release sources per dashlet
// 1.0.0 - (planned) Stable extension API

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("changelog-tui v%s (commit: %s, built: %s)", Version, Commit, Date)
}

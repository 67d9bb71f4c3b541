// Package version reports the build identity of the fundplan binary.
package version

import "fmt"

// Set at build time via -ldflags "-X github.com/example/fundplan/internal/version.Commit=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "fundplan <version> (commit: <short>, built: <time>)".
func String() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("fundplan %s (commit: %s, built: %s)", Version, commit, BuildTime)
}

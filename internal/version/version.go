// Package version holds build-time version information.
// The variables are overridden by the linker at release time.
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

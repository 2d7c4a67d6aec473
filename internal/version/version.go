// Package version holds build metadata for the version command.
package version

// Set by the linker at build time, see magefile.go.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Package build holds build-time information injected via linker flags.
package build

var (
	// Version is the application version, "dev" for untagged builds.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

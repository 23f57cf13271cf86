// Package version exposes the prewire build version.
package version

// version is set at build time via -ldflags "-X github.com/prewire/prewire/pkg/version.version=...".
//
//nolint:gochecknoglobals // Build-time injection target
var version = "0.1.0-dev"

// GetVersion returns the prewire version string.
func GetVersion() string {
	return version
}

// Package version provides build version information for repoctl.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns a full version string including commit and build time.
func String() string {
	return fmt.Sprintf("repoctl %s (%s) built %s", Version, GitCommit, BuildTime)
}

// Full returns version info with Go version.
func Full() string {
	return fmt.Sprintf("%s - Go %s %s/%s", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the User-Agent header sent to repository servers.
func UserAgent() string {
	return fmt.Sprintf("repoctl/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

package version

import (
	"fmt"
	"runtime"
)

// Build metadata injected with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func GetVersionInfo() string {
	if Version == "dev" {
		return fmt.Sprintf("MagicMind dev (%s, %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("MagicMind %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

func GetShortVersion() string {
	return "MagicMind " + Version
}

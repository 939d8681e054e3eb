package app

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit, and BuildTime are set via ldflags at build time:
//
//	go build -ldflags "-X github.com/heartmarshall/vibevocab/internal/app.Version=1.0.0"
//
// Commit and BuildTime fall back to the VCS stamp the go tool embeds when they are not set.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs, health and the CLI.
func BuildVersion() string {
	info, _ := debug.ReadBuildInfo()
	commit, built := vcsStamp(info, Commit, BuildTime)
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, built)
}

// vcsStamp fills unset commit and build time values from the embedded build settings.
func vcsStamp(info *debug.BuildInfo, commit, built string) (string, string) {
	if info == nil {
		return commit, built
	}
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" && len(s.Value) >= 12 {
				commit = s.Value[:12]
			}
		case "vcs.time":
			if built == "unknown" {
				built = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && commit != "unknown" {
		commit += "-dirty"
	}
	return commit, built
}

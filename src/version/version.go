package version

import (
	"log/slog"
	"runtime/debug"
)

// Set with -ldflags "-X newscorr/src/version.Commit=..." at build time.
var (
	Commit         = "unknown"
	Version        = "unknown"
	BuildTimestamp = "unknown"
)

var vcsKeys = []string{"vcs.revision", "vcs.time", "vcs.modified"}

// GetBuildInfo merges the ldflags values with what the Go toolchain embedded.
// Commit falls back to vcs.revision when it was not set at link time.
func GetBuildInfo() map[string]string {
	info := map[string]string{
		"commit":          Commit,
		"version":         Version,
		"build_timestamp": BuildTimestamp,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info["go_version"] = bi.GoVersion
	info["module"] = bi.Main.Path
	for _, setting := range bi.Settings {
		for _, key := range vcsKeys {
			if setting.Key == key {
				info[key] = setting.Value
			}
		}
	}
	if Commit == "unknown" && info["vcs.revision"] != "" {
		info["commit"] = info["vcs.revision"]
	}
	return info
}

// LogAttrs returns the build info as a slog group.
func LogAttrs() slog.Attr {
	info := GetBuildInfo()
	attrs := make([]any, 0, len(info))
	for key, value := range info {
		attrs = append(attrs, slog.String(key, value))
	}
	return slog.Group("build", attrs...)
}

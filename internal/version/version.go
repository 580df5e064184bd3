// Package version records the build identity of the crosstab library.
//
// Version, GitCommit and friends default to development values and are
// overridden at release time through -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GitTag    = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo carries the resolved build identity plus whatever module
// information the Go runtime recorded in the binary.
type BuildInfo struct {
	Version   string    `json:"version"`
	BuildDate string    `json:"build_date"`
	GitCommit string    `json:"git_commit"`
	GitTag    string    `json:"git_tag"`
	GoVersion string    `json:"go_version"`
	BuildTime time.Time `json:"build_time"`
	Dirty     bool      `json:"dirty"`
	Main      Module    `json:"main"`
	Deps      []Module  `json:"deps"`
	Settings  []Setting `json:"settings"`
}

// Module identifies a Go module baked into the binary.
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Sum     string `json:"sum"`
}

// Setting is a single build setting reported by runtime/debug.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Info resolves the build identity, folding in runtime/debug data when present.
func Info() BuildInfo {
	buildTime, _ := time.Parse(time.RFC3339, BuildDate)
	if buildTime.IsZero() {
		buildTime = time.Now()
	}

	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		GoVersion: GoVersion,
		BuildTime: buildTime,
		Dirty:     strings.Contains(GitCommit, "-dirty"),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.Main = Module{
			Path:    buildInfo.Main.Path,
			Version: buildInfo.Main.Version,
			Sum:     buildInfo.Main.Sum,
		}

		for _, dep := range buildInfo.Deps {
			info.Deps = append(info.Deps, Module{
				Path:    dep.Path,
				Version: dep.Version,
				Sum:     dep.Sum,
			})
		}

		for _, setting := range buildInfo.Settings {
			info.Settings = append(info.Settings, Setting{
				Key:   setting.Key,
				Value: setting.Value,
			})
		}
	}

	return info
}

// String renders the build identity as a multi-line block for -version output.
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("Crosstab Pivot Library\n")
	sb.WriteString(fmt.Sprintf("Version: %s", b.Version))

	if b.GitTag != unknownValue && b.GitTag != b.Version {
		sb.WriteString(fmt.Sprintf(" (%s)", b.GitTag))
	}

	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		sb.WriteString(fmt.Sprintf("Build Date: %s\n", b.BuildDate))
	}

	if b.GitCommit != unknownValue {
		commit := b.GitCommit
		if len(commit) > commitHashLength {
			commit = commit[:commitHashLength]
		}
		sb.WriteString(fmt.Sprintf("Git Commit: %s\n", commit))
	}

	sb.WriteString(fmt.Sprintf("Go Version: %s\n", b.GoVersion))

	if b.Main.Path != "" {
		sb.WriteString(fmt.Sprintf("Module: %s\n", b.Main.Path))
	}

	return sb.String()
}

// UserAgent returns the identifier embedded in outbound HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("crosstab/%s", Version)
}

// IsRelease reports whether this build carries a tagged release version.
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}

// IsPreRelease reports whether this build carries a pre-release version.
func IsPreRelease() bool {
	return strings.Contains(Version, "-alpha") ||
		strings.Contains(Version, "-beta") ||
		strings.Contains(Version, "-rc")
}

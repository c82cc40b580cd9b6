package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at link time, e.g.
//
//	go build -ldflags "-X github.com/tejashwikalptaru/gopraise/internal/app.Version=v1.0.0" ./cmd
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = ""
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuiltAt   string
	GoVersion string
	Modified  bool
}

// CurrentBuild reports the link-time values. Whatever was not set there is
// taken from the module information `go install` embeds.
func CurrentBuild() BuildInfo {
	b := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuiltAt:   BuildTime,
		GoVersion: runtime.Version(),
	}
	if GitTag != "" {
		b.Version = GitTag
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		b = b.withModule(info)
	}
	return b
}

func (b BuildInfo) withModule(info *debug.BuildInfo) BuildInfo {
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "unknown" {
				b.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if b.BuiltAt == "unknown" {
				b.BuiltAt = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// String is the line `gopraise version` prints.
func (b BuildInfo) String() string {
	commit := b.Commit
	if b.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("gopraise %s (commit %s, built %s, %s)", b.Version, commit, b.BuiltAt, b.GoVersion)
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

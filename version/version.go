package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"sort"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/kbukum/dirge/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

// trackedModules are the dependencies reported by Fprint.
var trackedModules = []string{
	"github.com/gin-gonic/gin",
	"github.com/rs/zerolog",
	"github.com/spf13/viper",
	"go.opentelemetry.io/otel",
}

// Info describes the running build.
type Info struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit"`
	GitBranch string            `json:"git_branch"`
	BuildTime string            `json:"build_time"`
	GoVersion string            `json:"go_version"`
	Module    string            `json:"module,omitempty"`
	BuildDate time.Time         `json:"build_date"`
	IsRelease bool              `json:"is_release"`
	IsDirty   bool              `json:"is_dirty"`
	Deps      map[string]string `json:"deps,omitempty"`
}

// GetVersionInfo combines ldflags values with the binary's embedded build
// info. ldflags values win over VCS stamps.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info, bi)
	}

	if info.BuildDate.IsZero() {
		info.BuildDate = time.Now().UTC()
		info.BuildTime = info.BuildDate.Format(time.RFC3339)
	}
	return info
}

func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	info.Module = bi.Main.Path
	if info.GoVersion == "" {
		info.GoVersion = bi.GoVersion
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
				if len(info.GitCommit) > 7 {
					info.GitCommit = info.GitCommit[:7]
				}
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildDate = t
					info.BuildTime = setting.Value
				}
			}
		}
	}
	for _, dep := range bi.Deps {
		for _, tracked := range trackedModules {
			if dep.Path == tracked {
				if info.Deps == nil {
					info.Deps = make(map[string]string)
				}
				info.Deps[dep.Path] = dep.Version
			}
		}
	}
}

// GetShortVersion returns version-commit, with -dirty for modified trees.
func GetShortVersion() string {
	info := GetVersionInfo()
	if info.GitCommit == "" {
		return info.Version
	}
	if info.IsDirty {
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.GitCommit)
	}
	return fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
}

// GetFullVersion returns version, commit, non-default branch and build date.
func GetFullVersion() string {
	info := GetVersionInfo()
	parts := []string{info.Version}
	if info.GitCommit != "" {
		parts = append(parts, info.GitCommit)
	}
	if info.GitBranch != "" && info.GitBranch != "main" && info.GitBranch != "master" {
		parts = append(parts, info.GitBranch)
	}
	if info.IsDirty {
		parts = append(parts, "dirty")
	}
	v := strings.Join(parts, "-")
	if !info.BuildDate.IsZero() {
		v += fmt.Sprintf(" (built %s)", info.BuildDate.Format("2006-01-02T15:04:05Z"))
	}
	return v
}

// Fprint writes the version banner used by -version flags.
func Fprint(w io.Writer, service string) {
	info := GetVersionInfo()
	fmt.Fprintf(w, "%s %s\n", service, GetFullVersion())
	fmt.Fprintf(w, "  go:     %s\n", info.GoVersion)
	if info.Module != "" {
		fmt.Fprintf(w, "  module: %s\n", info.Module)
	}
	deps := make([]string, 0, len(info.Deps))
	for path := range info.Deps {
		deps = append(deps, path)
	}
	sort.Strings(deps)
	for _, path := range deps {
		fmt.Fprintf(w, "  %s %s\n", path, info.Deps[path])
	}
}

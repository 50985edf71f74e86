package version

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""

	info := GetVersionInfo()
	if info == nil {
		t.Fatal("expected non-nil Info")
	}
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate should not be zero")
	}
}

func TestGetVersionInfoWithBuildTime(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	BuildTime = "2024-01-15T10:30:00Z"
	GitCommit = "abc1234"
	GitBranch = "main"
	GoVersion = "go1.22.0"

	info := GetVersionInfo()
	if info.Version != "1.0.0" {
		t.Errorf("expected '1.0.0', got %q", info.Version)
	}
	if info.IsRelease != true {
		t.Error("1.0.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.GoVersion != "go1.22.0" {
		t.Errorf("expected 'go1.22.0', got %q", info.GoVersion)
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
}

func TestGetVersionInfoDirtyVersion(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"

	info := GetVersionInfo()
	if info.IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestGetShortVersionDev(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""
	GoVersion = ""
	GitBranch = ""

	sv := GetShortVersion()
	if !strings.Contains(sv, "dev") {
		t.Errorf("expected short version to contain 'dev', got %q", sv)
	}
}

func TestGetShortVersionWithCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	BuildTime = "2024-01-01T00:00:00Z"
	GoVersion = "go1.22"
	GitBranch = ""

	sv := GetShortVersion()
	if sv != "1.0.0-abc1234" {
		t.Errorf("expected '1.0.0-abc1234', got %q", sv)
	}
}

func TestGetFullVersionBasic(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	GitBranch = "main"
	BuildTime = "2024-01-15T10:30:00Z"
	GoVersion = "go1.22"

	fv := GetFullVersion()
	if !strings.Contains(fv, "1.0.0") {
		t.Errorf("expected full version to contain '1.0.0', got %q", fv)
	}
	if !strings.Contains(fv, "abc1234") {
		t.Errorf("expected full version to contain commit, got %q", fv)
	}
	if strings.Contains(fv, "main") {
		t.Errorf("main branch should not appear in full version, got %q", fv)
	}
	if !strings.Contains(fv, "built") {
		t.Errorf("expected full version to contain 'built', got %q", fv)
	}
}

func TestGetFullVersionFeatureBranch(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	GitBranch = "feature/new-thing"
	BuildTime = "2024-01-15T10:30:00Z"
	GoVersion = "go1.22"

	fv := GetFullVersion()
	if !strings.Contains(fv, "feature/new-thing") {
		t.Errorf("expected full version to contain feature branch, got %q", fv)
	}
}

func TestGetFullVersionNoCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""

	fv := GetFullVersion()
	if !strings.HasPrefix(fv, "dev") {
		t.Errorf("expected full version to start with 'dev', got %q", fv)
	}
}

func TestApplyBuildInfo(t *testing.T) {
	info := &Info{Version: "dev"}
	applyBuildInfo(info, &debug.BuildInfo{
		GoVersion: "go1.25.3",
		Main:      debug.Module{Path: "github.com/kbukum/dirge"},
		Deps: []*debug.Module{
			{Path: "github.com/gin-gonic/gin", Version: "v1.10.1"},
			{Path: "github.com/unrelated/mod", Version: "v0.1.0"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-01T12:00:00Z"},
		},
	})

	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty tree")
	}
	if info.BuildDate.Year() != 2026 || info.BuildTime != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if info.Module != "github.com/kbukum/dirge" || info.GoVersion != "go1.25.3" {
		t.Errorf("unexpected module info %+v", info)
	}
	if len(info.Deps) != 1 || info.Deps["github.com/gin-gonic/gin"] != "v1.10.1" {
		t.Errorf("expected only tracked deps, got %v", info.Deps)
	}
}

func TestApplyBuildInfoKeepsLdflags(t *testing.T) {
	info := &Info{GitCommit: "abc1234", BuildTime: "2024-01-15T10:30:00Z", GoVersion: "go1.22"}
	applyBuildInfo(info, &debug.BuildInfo{
		GoVersion: "go1.25.3",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffff"},
			{Key: "vcs.time", Value: "2026-03-01T12:00:00Z"},
		},
	})
	if info.GitCommit != "abc1234" || info.BuildTime != "2024-01-15T10:30:00Z" || info.GoVersion != "go1.22" {
		t.Errorf("expected ldflags values to win, got %+v", info)
	}
}

func TestFprint(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.3"
	GitCommit = "abc1234"

	var buf bytes.Buffer
	Fprint(&buf, "dirge-demo")
	out := buf.String()
	if !strings.HasPrefix(out, "dirge-demo 1.2.3-abc1234") {
		t.Errorf("unexpected banner %q", out)
	}
	if !strings.Contains(out, "go:") {
		t.Errorf("expected go version line, got %q", out)
	}
}

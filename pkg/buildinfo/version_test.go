package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillUsesBuildInfo(t *testing.T) {
	saveVars(t)
	Version, Commit, Date = "dev", "none", "unknown"

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	if Version != "v0.3.1" || Commit != "0123456789abcdef0123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fill() = %q %q %q", Version, Commit, Date)
	}
	if got := Template(); !strings.Contains(got, "v0.3.1 (0123456789ab, ") {
		t.Errorf("Template() = %q", got)
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	saveVars(t)
	Version, Commit, Date = "v1.0.0", "cafe", "today"

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "beef"}},
	})

	if Version != "v1.0.0" || Commit != "cafe" || Date != "today" {
		t.Errorf("fill() overwrote ldflags: %q %q %q", Version, Commit, Date)
	}
}

func TestString(t *testing.T) {
	saveVars(t)
	Version, Commit, Date = "v1.0.0", "cafe", "today"

	want := "version: v1.0.0\ncommit: cafe\nbuilt: today"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func saveVars(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

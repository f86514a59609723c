package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := Dir(), filepath.Join(dir, "relgraph"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if got, want := DefaultPath(), filepath.Join(dir, "relgraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") without a file = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !rerrors.Is(err, rerrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
[canvas]
width = 1600

[layout.force]
min_spacing = 55
force_barnes_hut = true

[bundle]
iterations = 80

[log]
level = "debug"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	def := Default()
	if cfg.Canvas.Width != 1600 || cfg.Canvas.Height != def.Canvas.Height {
		t.Errorf("Canvas = %+v, want width 1600 and default height", cfg.Canvas)
	}
	if cfg.Layout.Force.MinSpacing != 55 || !cfg.Layout.Force.ForceBarnesHut {
		t.Errorf("Force = %+v, want overrides applied", cfg.Layout.Force)
	}
	if cfg.Layout.Force.Damping != def.Layout.Force.Damping {
		t.Errorf("Damping = %v, want default %v", cfg.Layout.Force.Damping, def.Layout.Force.Damping)
	}
	if cfg.Layout.Stress != def.Layout.Stress {
		t.Errorf("Stress = %+v, want defaults", cfg.Layout.Stress)
	}
	if cfg.Bundle.Iterations != 80 || cfg.Bundle.Subdivisions != def.Bundle.Subdivisions {
		t.Errorf("Bundle = %+v", cfg.Bundle)
	}
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("LogLevel() = %v, %v; want debug", lvl, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", "[canvas\nwidth = 1"},
		{"unknown key", "[canvas]\ndepth = 3"},
		{"unknown table", "[render]\nstyle = \"x\""},
		{"wrong type", "[canvas]\nwidth = \"wide\""},
		{"zero width", "[canvas]\nwidth = 0"},
		{"damping above one", "[layout.force]\ndamping = 1.5"},
		{"negative iterations", "[layout.stress]\niterations = -1"},
		{"zero yield", "[layout.crossing]\nyield_every = 0"},
		{"bad compatibility", "[bundle]\ncompatibility = 2.0"},
		{"bad log level", "[log]\nlevel = \"loud\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			code := rerrors.GetCode(err)
			if code != rerrors.ErrCodeInvalidConfig && code != rerrors.ErrCodeInvalidBounds {
				t.Errorf("code = %q, want INVALID_CONFIG or INVALID_BOUNDS (err: %v)", code, err)
			}
		})
	}
}

func TestUnknownKeysAreNamed(t *testing.T) {
	_, err := Parse([]byte("[layout.force]\nspring = 1\n"))
	if err == nil || !strings.Contains(err.Error(), "layout.force.spring") {
		t.Errorf("Parse error = %v, want it to name layout.force.spring", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Canvas.Width = 1280
	want.Layout.Force.Theta = 0.5
	want.Layout.Crossing.Iterations = 10
	want.Bundle.Compatibility = 0.75
	want.Log.Level = "warn"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Save did not create %s: %v", path, err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestWriteNamesTables(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Default()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, table := range []string{"[canvas]", "[layout.seed]", "[layout.force]", "[bundle]", "[log]"} {
		if !strings.Contains(out, table) {
			t.Errorf("Write output lacks %s:\n%s", table, out)
		}
	}
}

func TestCanvasBounds(t *testing.T) {
	b := CanvasConfig{Width: 300, Height: 200}.Bounds()
	if b.Width != 300 || b.Height != 200 {
		t.Errorf("Bounds() = %+v", b)
	}
}

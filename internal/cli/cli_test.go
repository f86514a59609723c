package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
)

const testSignals = `{
  "people": [
    {"id": "ada", "name": "Ada", "roles": ["Broker"]},
    {"id": "bo", "name": "Bo"},
    {"id": "cy", "name": "Cy"},
    {"id": "di", "name": "Di"},
    {"id": "ed", "name": "Ed"}
  ],
  "contexts": [
    {"id": "deal", "name": "Deal", "category": "Business", "type": "Brokerage", "participant_ids": ["ada", "bo", "cy"]}
  ],
  "referrals": [{"referrer_id": "cy", "referred_id": "di"}],
  "co_attendance": [{"person_a": "di", "person_b": "ed", "meeting_count": 4}],
  "co_mentions": [{"person_a": "ed", "person_b": "gone", "co_mention_count": 2}]
}`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	prev := stdout
	stdout = &out
	t.Cleanup(func() { stdout = prev })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// assembled writes the test signals and assembles them into a graph file.
func assembled(t *testing.T, dir, name string) string {
	t.Helper()
	in := writeFile(t, dir, name+".json", testSignals)
	if _, err := execute(t, "assemble", in); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return filepath.Join(dir, name+".graph.json")
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{"team.json", graphSuffix, "team.graph.json"},
		{"team.graph.json", layoutSuffix, "team.layout.json"},
		{"team.layout.json", layoutSuffix, "team.layout.json"},
		{"dir/team", layoutSuffix, "dir/team.layout.json"},
		{"dir.v2/team.json", graphSuffix, "dir.v2/team.graph.json"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.input, tt.suffix); got != tt.want {
			t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestOptionsFlagsOverrideConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cfg := c.config()
	cfg.Canvas.Width, cfg.Canvas.Height = 640, 480

	opts := c.options(layoutFlags{height: 900, bundle: true})
	if opts.Width != 640 || opts.Height != 900 || !opts.Bundle {
		t.Errorf("options = %+v, want width from config, height from flag", opts)
	}
	if opts.BundleOptions != cfg.Bundle {
		t.Errorf("BundleOptions = %+v, want config bundle table", opts.BundleOptions)
	}
}

func TestAssembleCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "team.json", testSignals)

	out, err := execute(t, "assemble", in)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for _, want := range []string{"Graph assembled", "team.graph.json", "business", "referral", "1 links skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	g, err := graph.ReadGraphFile(filepath.Join(dir, "team.graph.json"))
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if len(g.Nodes) != 5 || len(g.Edges) != 5 {
		t.Errorf("graph has %d nodes, %d edges; want 5, 5", len(g.Nodes), len(g.Edges))
	}
}

func TestAssembleWithLayout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "team.json", testSignals)

	if _, err := execute(t, "assemble", in, "--layout", "--bundle", "--width", "600", "--height", "400"); err != nil {
		t.Fatalf("assemble --layout: %v", err)
	}
	l, err := graph.ReadLayoutFile(filepath.Join(dir, "team.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Width != 600 || l.Height != 400 {
		t.Errorf("canvas = %vx%v, want 600x400", l.Width, l.Height)
	}
	if len(l.Bundles) != len(l.Edges) {
		t.Errorf("bundles = %d, want %d", len(l.Bundles), len(l.Edges))
	}
}

func TestAssembleMissingFile(t *testing.T) {
	_, err := execute(t, "assemble", filepath.Join(t.TempDir(), "missing.json"))
	if !rerrors.Is(err, rerrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutCommandConcurrent(t *testing.T) {
	dir := t.TempDir()
	a := assembled(t, dir, "a")
	b := assembled(t, dir, "b")

	out, err := execute(t, "layout", a, b, "-j", "2")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if strings.Count(out, "Layout complete") != 2 {
		t.Errorf("want two completion lines:\n%s", out)
	}

	la, err := graph.ReadLayoutFile(filepath.Join(dir, "a.layout.json"))
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	lb, err := graph.ReadLayoutFile(filepath.Join(dir, "b.layout.json"))
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	// Same graph, separate engines, same result.
	if la.Fingerprint == "" || la.Fingerprint != lb.Fingerprint {
		t.Errorf("fingerprints %q and %q differ", la.Fingerprint, lb.Fingerprint)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := t.TempDir()
	a := assembled(t, dir, "a")

	tests := []struct {
		name     string
		args     []string
		wantCode rerrors.Code
	}{
		{"output with several inputs", []string{"layout", a, a, "-o", "x.json"}, rerrors.ErrCodeInvalidInput},
		{"bad width", []string{"layout", a, "--width=-3"}, rerrors.ErrCodeInvalidBounds},
		{"missing input", []string{"layout", filepath.Join(dir, "nope.json")}, rerrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !rerrors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestLayoutCancelledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	g := assembled(t, dir, "team")
	out := filepath.Join(dir, "team.layout.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(io.Discard, LogInfo)
	job := &layoutJob{input: g, output: out, label: "team.graph.json"}
	if err := c.layoutOne(ctx, job, c.options(layoutFlags{})); err != context.Canceled {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("cancelled layout left %s behind (stat err %v)", out, err)
	}
}

func TestRelayoutCommand(t *testing.T) {
	dir := t.TempDir()
	g := assembled(t, dir, "team")
	if _, err := execute(t, "layout", g); err != nil {
		t.Fatalf("layout: %v", err)
	}
	path := filepath.Join(dir, "team.layout.json")
	before, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "relayout", path, "--changed", "ed")
	if err != nil {
		t.Fatalf("relayout: %v", err)
	}
	if !strings.Contains(out, "Relayout complete around ed") {
		t.Errorf("output:\n%s", out)
	}

	after, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Only ed and its neighbor di may move.
	for i, n := range after.Nodes {
		if n.ID != "ed" && n.ID != "di" && n.Position != before.Nodes[i].Position {
			t.Errorf("%s moved from %v to %v", n.ID, before.Nodes[i].Position, n.Position)
		}
	}

	if _, err := execute(t, "relayout", path, "--changed", "zed"); !rerrors.Is(err, rerrors.ErrCodeNodeNotFound) {
		t.Errorf("unknown node error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestBundleCommand(t *testing.T) {
	dir := t.TempDir()
	g := assembled(t, dir, "team")
	if _, err := execute(t, "layout", g); err != nil {
		t.Fatalf("layout: %v", err)
	}
	path := filepath.Join(dir, "team.layout.json")
	outPath := filepath.Join(dir, "bundled.json")

	if _, err := execute(t, "bundle", path, "-o", outPath, "--iterations", "5"); err != nil {
		t.Fatalf("bundle: %v", err)
	}
	l, err := graph.ReadLayoutFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range l.Edges {
		if got := len(l.Bundles[e.ID]); got != 6 {
			t.Errorf("edge %s has %d control points, want 6", e.ID, got)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "relgraph.toml")

	if _, err := execute(t, "config", "init", "--config", cfgPath); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config init did not write %s", cfgPath)
	}

	writeFile(t, dir, "relgraph.toml", "[canvas]\nwidth = 1234\n")
	out, err := execute(t, "config", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "width = 1234.0") || !strings.Contains(out, "[layout.force]") {
		t.Errorf("config output:\n%s", out)
	}

	writeFile(t, dir, "bad.toml", "[canvas]\nwdth = 1\n")
	if _, err := execute(t, "config", "--config", filepath.Join(dir, "bad.toml")); !rerrors.Is(err, rerrors.ErrCodeInvalidConfig) {
		t.Errorf("bad config error = %v, want INVALID_CONFIG", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version: ") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "relgraph") {
		t.Error("bash completion does not mention relgraph")
	}
}

package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/relgraph/pkg/graph"
)

func bundleFixture() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "a", Position: graph.Point{X: 100, Y: 100}},
		{ID: "b", Position: graph.Point{X: 500, Y: 100}},
		{ID: "c", Position: graph.Point{X: 100, Y: 130}},
		{ID: "d", Position: graph.Point{X: 500, Y: 130}},
		{ID: "e", Position: graph.Point{X: 300, Y: 0}},
		{ID: "f", Position: graph.Point{X: 300, Y: 400}},
		{ID: "g", Position: graph.Point{X: 50, Y: 50}},
	}
	edges := []graph.Edge{
		{ID: "ab", Source: "a", Target: "b"},
		{ID: "cd", Source: "c", Target: "d"},
		{ID: "ef", Source: "e", Target: "f"},
		{ID: "gg", Source: "g", Target: "g"},
		{ID: "gone", Source: "a", Target: "missing"},
	}
	return nodes, edges
}

func TestBundleParallelEdgesAttract(t *testing.T) {
	nodes, edges := bundleFixture()
	opts := DefaultBundleOptions()
	out := New(DefaultConfig()).Bundle(context.Background(), nodes, edges, opts)

	if _, ok := out["gone"]; ok {
		t.Error("edge with unknown endpoint should be skipped")
	}
	if len(out) != 4 {
		t.Fatalf("got %d polylines, want 4", len(out))
	}

	ab, cd := out["ab"], out["cd"]
	if len(ab) != opts.Subdivisions+1 {
		t.Fatalf("ab has %d points, want %d", len(ab), opts.Subdivisions+1)
	}
	if ab[0] != nodes[0].Position || ab[len(ab)-1] != nodes[1].Position {
		t.Error("endpoints moved")
	}
	for k := 1; k < len(ab)-1; k++ {
		if ab[k].Y <= 101 || ab[k].Y >= 130 {
			t.Errorf("ab[%d].Y = %.2f, want pulled toward cd", k, ab[k].Y)
		}
		if cd[k].Y >= 129 || cd[k].Y <= 100 {
			t.Errorf("cd[%d].Y = %.2f, want pulled toward ab", k, cd[k].Y)
		}
	}
}

func TestBundleDuplicateEdgeIDsFirstWins(t *testing.T) {
	nodes, _ := bundleFixture()
	edges := []graph.Edge{
		{ID: "x", Source: "a", Target: "b"},
		{ID: "x", Source: "c", Target: "d"},
	}
	out := New(DefaultConfig()).Bundle(context.Background(), nodes, edges, DefaultBundleOptions())

	if len(out) != 1 {
		t.Fatalf("got %d polylines, want 1", len(out))
	}
	// Only the first edge survives, so nothing pulls it off its line.
	line := out["x"]
	if line[0] != nodes[0].Position || line[len(line)-1] != nodes[1].Position {
		t.Errorf("x runs %v -> %v, want the first edge a -> b", line[0], line[len(line)-1])
	}
	for k, p := range line {
		if p.Y != 100 {
			t.Errorf("x[%d].Y = %.2f, want 100", k, p.Y)
		}
	}
}

func TestBundleIncompatibleEdgeStaysStraight(t *testing.T) {
	nodes, edges := bundleFixture()
	out := New(DefaultConfig()).Bundle(context.Background(), nodes, edges, DefaultBundleOptions())

	for k, p := range out["ef"] {
		if p.X != 300 {
			t.Errorf("ef[%d] = %+v, want x = 300", k, p)
		}
	}
	for k, p := range out["gg"] {
		if p != nodes[6].Position {
			t.Errorf("zero-length edge point %d = %+v", k, p)
		}
	}
}

func TestBundleCancelled(t *testing.T) {
	nodes, edges := bundleFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(DefaultConfig()).Bundle(ctx, nodes, edges, DefaultBundleOptions())
	for k, p := range out["ab"] {
		if p.Y != 100 {
			t.Errorf("ab[%d] = %+v, want straight line after cancellation", k, p)
		}
	}
}

func TestCompatibility(t *testing.T) {
	tests := []struct {
		name string
		u, v graph.Point
		want float64
	}{
		{"Parallel", graph.Point{X: 1}, graph.Point{X: 5}, 1},
		{"Opposite", graph.Point{X: 1}, graph.Point{X: -2}, 1},
		{"Perpendicular", graph.Point{X: 1}, graph.Point{Y: 3}, 0},
		{"Degenerate", graph.Point{}, graph.Point{X: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compatibility(tt.u.Vec(), tt.v.Vec()); got != tt.want {
				t.Errorf("compatibility = %v, want %v", got, tt.want)
			}
		})
	}
}

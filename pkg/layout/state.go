package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/relgraph/pkg/graph"
)

// neighbor is an adjacency entry: the other endpoint's index and the edge
// weight.
type neighbor struct {
	idx    int
	weight float64
}

// pair is an undirected edge between two node indices, a < b.
type pair struct {
	a, b int
}

// state is the working buffer of a single layout run. It is built per call
// and owned by that call alone.
type state struct {
	cfg    *Config
	bounds Bounds
	center r2.Vec

	nodes  []graph.Node
	index  map[string]int
	pos    []r2.Vec
	vel    []r2.Vec
	pinned []bool

	// adj has one entry per edge endpoint, so parallel edges pull twice.
	adj [][]neighbor
	// pairs holds each connected node pair once, in edge order.
	pairs []pair
}

func newState(cfg *Config, bounds Bounds, nodes []graph.Node, edges []graph.Edge) *state {
	n := len(nodes)
	s := &state{
		cfg:    cfg,
		bounds: bounds,
		center: bounds.Center(),
		nodes:  nodes,
		index:  make(map[string]int, n),
		pos:    make([]r2.Vec, n),
		vel:    make([]r2.Vec, n),
		pinned: make([]bool, n),
		adj:    make([][]neighbor, n),
	}
	for i, nd := range nodes {
		if _, dup := s.index[nd.ID]; !dup {
			s.index[nd.ID] = i
		}
		s.pos[i] = finite(nd.Position.Vec())
		s.vel[i] = finite(nd.Velocity.Vec())
		s.pinned[i] = nd.Pinned
	}

	seen := make(map[pair]bool, len(edges))
	for _, e := range edges {
		a, okA := s.index[e.Source]
		b, okB := s.index[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		w := clamp01(e.Weight)
		s.adj[a] = append(s.adj[a], neighbor{idx: b, weight: w})
		s.adj[b] = append(s.adj[b], neighbor{idx: a, weight: w})

		p := pair{a: min(a, b), b: max(a, b)}
		if !seen[p] {
			seen[p] = true
			s.pairs = append(s.pairs, p)
		}
	}
	return s
}

// result writes positions and velocities back into the node copies. The
// pinned flags are left as they were on entry.
func (s *state) result() []graph.Node {
	for i := range s.nodes {
		s.nodes[i].Position = graph.PointOf(s.pos[i])
		s.nodes[i].Velocity = graph.PointOf(s.vel[i])
	}
	return s.nodes
}

// hotSet returns the changed node and its 1-hop neighbors.
func (s *state) hotSet(changed int) map[int]bool {
	hot := map[int]bool{changed: true}
	for _, nb := range s.adj[changed] {
		hot[nb.idx] = true
	}
	return hot
}

// placeNew moves a changed node that has never been positioned next to the
// centroid of its positioned neighbors, so incremental layout can absorb a
// newly added person without a full relayout.
func (s *state) placeNew(changed int) {
	if s.pinned[changed] || s.pos[changed] != (r2.Vec{}) {
		return
	}
	var sum r2.Vec
	count := 0
	for _, nb := range s.adj[changed] {
		if s.pos[nb.idx] == (r2.Vec{}) {
			continue
		}
		sum = r2.Add(sum, s.pos[nb.idx])
		count++
	}
	if count == 0 {
		s.pos[changed] = s.center
		return
	}
	dir := spreadDirection(changed, len(s.pos))
	s.pos[changed] = r2.Add(r2.Scale(1/float64(count), sum), r2.Scale(s.cfg.Force.MinSpacing, dir))
}

func finite(v r2.Vec) r2.Vec {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
		v.X = 0
	}
	if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		v.Y = 0
	}
	return v
}

func clamp01(w float64) float64 {
	switch {
	case math.IsNaN(w) || w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}

// spreadDirection returns a deterministic unit vector for the pair (i, j),
// used wherever two points coincide and no geometric direction exists.
func spreadDirection(i, j int) r2.Vec {
	a := float64(i*31+j*17) * goldenAngle
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

package layout

import (
	"context"
	"math"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// hopDistances returns the all-pairs shortest-path hop counts of the
// connected pairs, with +Inf for unreachable pairs. It runs one
// breadth-first search per node, which is the right trade-off for graphs of
// a few hundred nodes.
func (s *state) hopDistances() *mat.Dense {
	n := len(s.pos)
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, p := range s.pairs {
		g.SetEdge(g.NewEdge(simple.Node(p.a), simple.Node(p.b)))
	}

	hops := mat.NewDense(n, n, nil)
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			hops.Set(i, j, inf)
		}
	}

	var bfs traverse.BreadthFirst
	for i := 0; i < n; i++ {
		bfs.Walk(g, simple.Node(i), func(nd gograph.Node, depth int) bool {
			hops.Set(i, int(nd.ID()), float64(depth))
			return false
		})
		bfs.Reset()
	}
	return hops
}

// idealLength is the target Euclidean length of a single hop.
func (s *state) idealLength() float64 {
	return s.bounds.minSide() / math.Max(1, float64(len(s.pos))/3)
}

// stress runs stress majorization: each unpinned node moves to the
// 1/d²-weighted average of the positions that would put it exactly
// L·d away from every reachable node, where d is the hop count. Updates are
// computed from the previous iteration's positions and applied together.
func (s *state) stress(ctx context.Context) (int, bool) {
	n := len(s.pos)
	if n < 2 {
		return 0, true
	}
	cfg := s.cfg.Stress
	iterations := cfg.Iterations
	if n > cfg.LargeThreshold {
		iterations = cfg.LargeIterations
	}

	hops := s.hopDistances()
	l := s.idealLength()
	next := make([]r2.Vec, n)

	for it := 0; it < iterations; it++ {
		copy(next, s.pos)
		for i := 0; i < n; i++ {
			if s.pinned[i] {
				continue
			}
			var sum r2.Vec
			var den float64
			for j := 0; j < n; j++ {
				d := hops.At(i, j)
				if j == i || math.IsInf(d, 1) || d == 0 {
					continue
				}
				w := 1 / (d * d)
				delta := r2.Sub(s.pos[i], s.pos[j])
				dist := math.Max(1, r2.Norm(delta))
				target := r2.Add(s.pos[j], r2.Scale(l*d/dist, delta))
				sum = r2.Add(sum, r2.Scale(w, target))
				den += w
			}
			if den > 0 {
				next[i] = r2.Scale(1/den, sum)
			}
		}
		copy(s.pos, next)

		if !checkpoint(ctx, it, cfg.YieldEvery) {
			return it + 1, false
		}
	}
	return iterations, true
}

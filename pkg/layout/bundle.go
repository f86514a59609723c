package layout

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/observability"
)

// Bundle computes curved-edge control points by force-directed edge
// bundling and returns them keyed by edge ID.
//
// Every edge starts as Subdivisions+1 evenly spaced points on the straight
// line between its endpoints. Each iteration pulls every interior point
// toward the same-index point of every compatible edge within MaxDistance,
// where compatibility is the absolute cosine between the two edge
// directions. Endpoints never move. Edges with an unknown endpoint are
// skipped, as is any edge whose ID was already seen (first wins);
// zero-length edges are returned straight and attract nothing.
// Cancellation returns the polylines as they stand.
func (e *Engine) Bundle(ctx context.Context, nodes []graph.Node, edges []graph.Edge, opts BundleOptions) map[string][]graph.Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	b := newBundler(nodes, edges, opts)
	n := b.run(ctx)

	d := time.Since(start)
	e.logger.Debug("phase complete", "phase", PhaseBundle, "edges", len(b.ids), "iterations", n, "duration", d)
	observability.Layout().OnPhaseComplete(ctx, PhaseBundle, n, d)
	return b.result()
}

type bundler struct {
	opts BundleOptions
	ids  []string
	// pts[e] is the polyline of edge e.
	pts [][]r2.Vec
	dir []r2.Vec
	// compat[e] lists the edges compatible with e and their |cos|.
	compat [][]neighbor
}

func newBundler(nodes []graph.Node, edges []graph.Edge, opts BundleOptions) *bundler {
	if opts.Subdivisions < 1 {
		opts.Subdivisions = 1
	}
	pos := make(map[string]r2.Vec, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Position.Vec()
	}

	b := &bundler{opts: opts}
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if seen[e.ID] {
			continue
		}
		src, okS := pos[e.Source]
		dst, okT := pos[e.Target]
		if !okS || !okT {
			continue
		}
		line := make([]r2.Vec, opts.Subdivisions+1)
		for k := range line {
			f := float64(k) / float64(opts.Subdivisions)
			line[k] = r2.Add(src, r2.Scale(f, r2.Sub(dst, src)))
		}
		seen[e.ID] = true
		b.ids = append(b.ids, e.ID)
		b.pts = append(b.pts, line)
		b.dir = append(b.dir, r2.Sub(dst, src))
	}

	b.compat = make([][]neighbor, len(b.ids))
	for i := range b.ids {
		for j := i + 1; j < len(b.ids); j++ {
			c := compatibility(b.dir[i], b.dir[j])
			if c < opts.Compatibility || c == 0 {
				continue
			}
			b.compat[i] = append(b.compat[i], neighbor{idx: j, weight: c})
			b.compat[j] = append(b.compat[j], neighbor{idx: i, weight: c})
		}
	}
	return b
}

// compatibility is |cos| of the angle between u and v, or 0 if either is
// degenerate.
func compatibility(u, v r2.Vec) float64 {
	nu, nv := r2.Norm(u), r2.Norm(v)
	if nu == 0 || nv == 0 {
		return 0
	}
	return math.Abs(r2.Dot(u, v)) / (nu * nv)
}

// run performs the bundling iterations and returns how many completed.
// Within an iteration every point moves based on the previous iteration's
// polylines, so the result does not depend on edge order.
func (b *bundler) run(ctx context.Context) int {
	iters := b.opts.Iterations
	next := make([][]r2.Vec, len(b.pts))
	for e := range b.pts {
		next[e] = make([]r2.Vec, len(b.pts[e]))
	}

	for it := 0; it < iters; it++ {
		if ctx.Err() != nil {
			return it
		}
		step := b.opts.InitialStep * (1 - float64(it)/float64(iters))

		for e, line := range b.pts {
			copy(next[e], line)
			for k := 1; k < len(line)-1; k++ {
				p := line[k]
				var pull r2.Vec
				count := 0
				for _, c := range b.compat[e] {
					delta := r2.Sub(b.pts[c.idx][k], p)
					dist := r2.Norm(delta)
					if dist < 1 || dist > b.opts.MaxDistance {
						continue
					}
					pull = r2.Add(pull, r2.Scale(c.weight/math.Max(1, dist), delta))
					count++
				}
				if count > 0 {
					next[e][k] = r2.Add(p, r2.Scale(step/float64(count), pull))
				}
			}
		}
		b.pts, next = next, b.pts
	}
	return iters
}

func (b *bundler) result() map[string][]graph.Point {
	out := make(map[string][]graph.Point, len(b.ids))
	for e, id := range b.ids {
		line := make([]graph.Point, len(b.pts[e]))
		for k, p := range b.pts[e] {
			line[k] = graph.PointOf(p)
		}
		out[id] = line
	}
	return out
}

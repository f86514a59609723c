package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// force runs force-directed refinement for min(iterations, MaxIterations)
// steps under a linearly cooling temperature, then settles any remaining
// overlaps.
func (s *state) force(ctx context.Context, iterations int) (int, bool) {
	cfg := s.cfg.Force
	total := min(iterations, cfg.MaxIterations)
	if total <= 0 {
		return 0, true
	}

	var tree *quadtree
	if s.useBarnesHut() {
		tree = newQuadtree(cfg.QuadtreeMaxDepth, cfg.QuadtreePadding)
	}
	forces := make([]r2.Vec, len(s.pos))

	for it := 0; it < total; it++ {
		t := math.Max(0.01, 1-float64(it)/float64(total))
		s.step(forces, tree, t)
		s.collide()

		if !checkpoint(ctx, it, cfg.YieldEvery) {
			return it + 1, false
		}
	}
	s.settle()
	return total, true
}

func (s *state) useBarnesHut() bool {
	return s.cfg.Force.ForceBarnesHut || len(s.pos) > s.cfg.Force.BarnesHutThreshold
}

// step computes forces from the current positions and integrates one
// velocity step. Forces are computed for all nodes before any node moves.
func (s *state) step(forces []r2.Vec, tree *quadtree, t float64) {
	cfg := s.cfg.Force
	k := cfg.RepulsionStrength * t
	if tree != nil {
		tree.build(s.pos)
	}

	for i, p := range s.pos {
		if s.pinned[i] {
			forces[i] = r2.Vec{}
			continue
		}

		var f r2.Vec
		if tree != nil {
			f = tree.repulsion(i, p, k, cfg.Theta)
		} else {
			f = s.directRepulsion(i, k)
		}
		// Hooke attraction with no rest length.
		for _, nb := range s.adj[i] {
			f = r2.Add(f, r2.Scale(cfg.AttractionStrength*nb.weight, r2.Sub(s.pos[nb.idx], p)))
		}
		f = r2.Add(f, r2.Scale(cfg.GravityStrength, r2.Sub(s.center, p)))
		forces[i] = f
	}

	for i := range s.pos {
		if s.pinned[i] {
			continue
		}
		v := r2.Scale(cfg.Damping*t, r2.Add(s.vel[i], forces[i]))
		s.vel[i] = v
		s.pos[i] = r2.Add(s.pos[i], r2.Scale(t, v))
	}
}

func (s *state) directRepulsion(i int, k float64) r2.Vec {
	var f r2.Vec
	p := s.pos[i]
	for j, q := range s.pos {
		if j == i {
			continue
		}
		f = r2.Add(f, pairRepulsion(p, q, k))
	}
	return f
}

// pairRepulsion is the force q exerts on p: magnitude k/max(1, d²) along
// the unit vector from q to p. Coincident points exert nothing; collision
// resolution separates them.
func pairRepulsion(p, q r2.Vec, k float64) r2.Vec {
	d := r2.Sub(p, q)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}
	mag := k / math.Max(1, dist*dist)
	return r2.Scale(mag/dist, d)
}

// =============================================================================
// Collision Resolution
// =============================================================================

const (
	// collisionEpsilon absorbs floating-point error when comparing
	// distances against the minimum spacing.
	collisionEpsilon = 1e-6
	// collisionSlack pushes separated pairs slightly past the minimum
	// spacing, as a fraction of it, so neighboring corrections do not
	// reintroduce hairline overlaps.
	collisionSlack = 0.0025
)

// cell addresses a square of side MinSpacing in the collision grid.
type cell struct {
	x, y int
}

// collide makes one sweep over all node pairs closer than MinSpacing and
// pushes them apart along their separating axis: half the overlap each, or
// the full overlap on the unpinned node when the other is pinned. Pairs are
// found through a uniform grid rebuilt at the start of the sweep and
// visited in index order. It reports whether anything moved.
func (s *state) collide() bool {
	spacing := s.cfg.Force.MinSpacing
	if spacing <= 0 || len(s.pos) < 2 {
		return false
	}

	grid := make(map[cell][]int, len(s.pos))
	cells := make([]cell, len(s.pos))
	for i, p := range s.pos {
		c := cell{x: int(math.Floor(p.X / spacing)), y: int(math.Floor(p.Y / spacing))}
		cells[i] = c
		grid[c] = append(grid[c], i)
	}

	moved := false
	for i := range s.pos {
		c := cells[i]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[cell{x: c.x + dx, y: c.y + dy}] {
					if j <= i || (s.pinned[i] && s.pinned[j]) {
						continue
					}
					if s.separate(i, j, spacing) {
						moved = true
					}
				}
			}
		}
	}
	return moved
}

func (s *state) separate(i, j int, spacing float64) bool {
	delta := r2.Sub(s.pos[i], s.pos[j])
	dist := r2.Norm(delta)
	if dist >= spacing-collisionEpsilon {
		return false
	}

	var dir r2.Vec
	if dist < 1e-9 {
		dir = spreadDirection(i, j)
	} else {
		dir = r2.Scale(1/dist, delta)
	}
	overlap := spacing*(1+collisionSlack) - dist

	switch {
	case s.pinned[i]:
		s.pos[j] = r2.Sub(s.pos[j], r2.Scale(overlap, dir))
	case s.pinned[j]:
		s.pos[i] = r2.Add(s.pos[i], r2.Scale(overlap, dir))
	default:
		half := r2.Scale(overlap/2, dir)
		s.pos[i] = r2.Add(s.pos[i], half)
		s.pos[j] = r2.Sub(s.pos[j], half)
	}
	return true
}

// settle repeats collision sweeps until one moves nothing or the pass
// budget runs out, and returns the number of sweeps made.
func (s *state) settle() int {
	passes := s.cfg.Force.CollisionPasses
	for pass := 0; pass < passes; pass++ {
		if !s.collide() {
			return pass + 1
		}
	}
	return passes
}

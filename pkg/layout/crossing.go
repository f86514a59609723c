package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// crossing nudges unpinned nodes away from edges they are not part of
// (PrEd). For every node and every non-incident edge within Threshold, the
// node moves away from the closest point of the segment by an amount that
// grows linearly as it gets closer. The temperature cools linearly to zero
// over the run, so the stress layout is only polished, never reshaped.
func (s *state) crossing(ctx context.Context) (int, bool) {
	cfg := s.cfg.Crossing
	if cfg.Iterations <= 0 || cfg.Threshold <= 0 || len(s.pairs) == 0 {
		return 0, true
	}

	disp := make([]r2.Vec, len(s.pos))
	for it := 0; it < cfg.Iterations; it++ {
		t := cfg.Temperature * (1 - float64(it)/float64(cfg.Iterations))

		for i, p := range s.pos {
			disp[i] = r2.Vec{}
			if s.pinned[i] {
				continue
			}
			for _, e := range s.pairs {
				if e.a == i || e.b == i {
					continue
				}
				a, b := s.pos[e.a], s.pos[e.b]
				delta := r2.Sub(p, closestOnSegment(p, a, b))
				dist := r2.Norm(delta)
				if dist >= cfg.Threshold {
					continue
				}

				var dir r2.Vec
				if dist < 1e-9 {
					dir = segmentNormal(a, b)
					if dir == (r2.Vec{}) {
						dir = spreadDirection(i, e.a)
					}
				} else {
					dir = r2.Scale(1/dist, delta)
				}
				mag := cfg.Strength * (1 - dist/cfg.Threshold) * t
				disp[i] = r2.Add(disp[i], r2.Scale(mag, dir))
			}
		}
		for i := range s.pos {
			s.pos[i] = r2.Add(s.pos[i], disp[i])
		}

		if !checkpoint(ctx, it, cfg.YieldEvery) {
			return it + 1, false
		}
	}
	return cfg.Iterations, true
}

// closestOnSegment returns the point of segment ab closest to p.
func closestOnSegment(p, a, b r2.Vec) r2.Vec {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return a
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Add(a, r2.Scale(t, ab))
}

// segmentNormal returns a unit normal of ab, or the zero vector for a
// degenerate segment.
func segmentNormal(a, b r2.Vec) r2.Vec {
	ab := r2.Sub(b, a)
	l := r2.Norm(ab)
	if l == 0 {
		return r2.Vec{}
	}
	return r2.Vec{X: -ab.Y / l, Y: ab.X / l}
}

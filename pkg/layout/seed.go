package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/relgraph/pkg/graph"
)

// goldenAngle is the successive angle increment of the seeding spiral.
const goldenAngle = 2 * math.Pi * 0.6180339887

// seed assigns deterministic starting positions.
//
// Cluster centers sit evenly spaced on a ring around the canvas center and
// members sit on a small circle around their cluster's center. Nodes in
// several clusters take the first. Everything else fans out along a
// golden-angle spiral. Pinned nodes keep their positions.
func (s *state) seed(clusters []graph.Cluster) {
	cfg := s.cfg.Seed
	placed := make([]bool, len(s.pos))
	for i := range placed {
		placed[i] = s.pinned[i]
	}

	groups := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		var members []int
		for _, id := range c.MemberIDs {
			i, ok := s.index[id]
			if !ok || placed[i] {
				continue
			}
			placed[i] = true
			members = append(members, i)
		}
		if len(members) > 0 {
			groups = append(groups, members)
		}
	}

	ring := s.bounds.minSide() * cfg.ClusterRingRatio
	if len(groups) == 1 {
		ring = 0
	}
	for k, members := range groups {
		angle := 2 * math.Pi * float64(k) / float64(len(groups))
		center := r2.Add(s.center, polar(ring, angle))

		m := len(members)
		if m == 1 {
			s.pos[members[0]] = center
			continue
		}
		radius := cfg.ClusterBaseRadius + cfg.ClusterRadiusGrowth*float64(m)
		for j, i := range members {
			s.pos[i] = r2.Add(center, polar(radius, 2*math.Pi*float64(j)/float64(m)))
		}
	}

	k := 0
	for i := range s.pos {
		if placed[i] {
			continue
		}
		r := cfg.SpiralStep * math.Sqrt(float64(k)+0.5)
		s.pos[i] = r2.Add(s.center, polar(r, float64(k)*goldenAngle))
		k++
	}

	for i := range s.vel {
		if !s.pinned[i] {
			s.vel[i] = r2.Vec{}
		}
	}
}

func polar(r, angle float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

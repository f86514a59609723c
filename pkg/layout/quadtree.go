package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// quadtree is a Barnes–Hut tree stored as an arena of nodes addressed by
// index. It is rebuilt from scratch on every force iteration and reuses its
// buffers between builds.
type quadtree struct {
	nodes []quadNode
	// next links the bodies of a leaf: next[b] is the body after b, or -1.
	next  []int
	pos   []r2.Vec
	stack []int32

	maxDepth int
	padding  float64
}

type quadNode struct {
	box r2.Box
	// com holds the coordinate sum during a build and the center of mass
	// afterwards.
	com   r2.Vec
	mass  float64
	depth int
	// body is the first body of a leaf's list, or -1.
	body     int
	children [4]int32
}

func (n *quadNode) leaf() bool {
	return n.children == [4]int32{-1, -1, -1, -1}
}

func newQuadtree(maxDepth int, padding float64) *quadtree {
	return &quadtree{maxDepth: maxDepth, padding: padding}
}

// build inserts every position. The root is the square bounding box of all
// points, padded on every side.
func (t *quadtree) build(pos []r2.Vec) {
	t.pos = pos
	t.nodes = t.nodes[:0]
	if cap(t.next) < len(pos) {
		t.next = make([]int, len(pos))
	}
	t.next = t.next[:len(pos)]
	if len(pos) == 0 {
		return
	}

	lo, hi := pos[0], pos[0]
	for _, p := range pos[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	side := math.Max(hi.X-lo.X, hi.Y-lo.Y) + 2*t.padding
	if side <= 0 {
		side = 1
	}
	origin := r2.Vec{X: lo.X - t.padding, Y: lo.Y - t.padding}
	t.newNode(r2.Box{Min: origin, Max: r2.Add(origin, r2.Vec{X: side, Y: side})}, 0)

	for i := range pos {
		t.insert(i)
	}
	for i := range t.nodes {
		if n := &t.nodes[i]; n.mass > 0 {
			n.com = r2.Scale(1/n.mass, n.com)
		}
	}
}

func (t *quadtree) newNode(box r2.Box, depth int) int32 {
	t.nodes = append(t.nodes, quadNode{
		box:      box,
		depth:    depth,
		body:     -1,
		children: [4]int32{-1, -1, -1, -1},
	})
	return int32(len(t.nodes) - 1)
}

// insert descends from the root, adding body i to the aggregate of every
// node on its path. An occupied leaf is split unless it sits at the depth
// cap, where further bodies join the leaf's list instead.
func (t *quadtree) insert(i int) {
	p := t.pos[i]
	cur := int32(0)
	for {
		n := &t.nodes[cur]
		n.mass++
		n.com = r2.Add(n.com, p)

		if !n.leaf() {
			cur = t.child(cur, p)
			continue
		}
		if n.body < 0 {
			n.body = i
			t.next[i] = -1
			return
		}
		if n.depth >= t.maxDepth {
			t.next[i] = n.body
			n.body = i
			return
		}

		// Split: push the resident body one level down, then keep
		// descending with i.
		old := n.body
		n.body = -1
		c := t.child(cur, t.pos[old])
		child := &t.nodes[c]
		child.mass = 1
		child.com = t.pos[old]
		child.body = old
		t.next[old] = -1

		cur = t.child(cur, p)
	}
}

// child returns the child of node idx whose quadrant contains p, creating
// it if needed.
func (t *quadtree) child(idx int32, p r2.Vec) int32 {
	box := t.nodes[idx].box
	mid := r2.Scale(0.5, r2.Add(box.Min, box.Max))
	q := 0
	if p.X >= mid.X {
		q |= 1
	}
	if p.Y >= mid.Y {
		q |= 2
	}
	if c := t.nodes[idx].children[q]; c >= 0 {
		return c
	}

	sub := r2.Box{Min: box.Min, Max: mid}
	if q&1 != 0 {
		sub.Min.X, sub.Max.X = mid.X, box.Max.X
	}
	if q&2 != 0 {
		sub.Min.Y, sub.Max.Y = mid.Y, box.Max.Y
	}
	c := t.newNode(sub, t.nodes[idx].depth+1)
	t.nodes[idx].children[q] = c
	return c
}

// repulsion approximates the total repulsion on body i at p.
//
// Leaves contribute exact pairwise forces, skipping i itself. An interior
// node whose box does not contain p and satisfies size²/d² < theta acts as
// a single mass at its center of mass; otherwise its children are visited.
func (t *quadtree) repulsion(i int, p r2.Vec, k, theta float64) r2.Vec {
	var f r2.Vec
	if len(t.nodes) == 0 {
		return f
	}

	stack := append(t.stack[:0], 0)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]
		if n.mass == 0 {
			continue
		}

		if n.leaf() {
			for b := n.body; b >= 0; b = t.next[b] {
				if b != i {
					f = r2.Add(f, pairRepulsion(p, t.pos[b], k))
				}
			}
			continue
		}

		size := n.box.Max.X - n.box.Min.X
		d2 := r2.Norm2(r2.Sub(n.com, p))
		if !contains(n.box, p) && d2 > 0 && size*size/d2 < theta {
			f = r2.Add(f, r2.Scale(n.mass, pairRepulsion(p, n.com, k)))
			continue
		}
		for _, c := range n.children {
			if c >= 0 {
				stack = append(stack, c)
			}
		}
	}
	t.stack = stack
	return f
}

func contains(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

package graph

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// EdgeType tags the relationship signal an edge was derived from.
type EdgeType string

// Edge types, one per upstream signal collection.
const (
	EdgeBusiness          EdgeType = "business"
	EdgeReferral          EdgeType = "referral"
	EdgeRecruitingTree    EdgeType = "recruiting_tree"
	EdgeCoAttendee        EdgeType = "co_attendee"
	EdgeCommunicationLink EdgeType = "communication_link"
	EdgeMentionedTogether EdgeType = "mentioned_together"
	EdgeDeducedFamily     EdgeType = "deduced_family"
	EdgeRoleRelationship  EdgeType = "role_relationship"
)

// EdgeTypes lists every edge type in display order.
var EdgeTypes = []EdgeType{
	EdgeBusiness,
	EdgeReferral,
	EdgeRecruitingTree,
	EdgeCoAttendee,
	EdgeCommunicationLink,
	EdgeMentionedTogether,
	EdgeDeducedFamily,
	EdgeRoleRelationship,
}

// Health is the relationship-health classification of a person.
type Health string

// Health tiers.
const (
	HealthHealthy Health = "healthy"
	HealthCooling Health = "cooling"
	HealthAtRisk  Health = "at_risk"
	HealthCold    Health = "cold"
	HealthUnknown Health = "unknown"
)

// Direction is the dominant direction of communication on an edge.
type Direction string

// Communication directions. The empty Direction means "not applicable".
const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
	DirectionBalanced Direction = "balanced"
)

// =============================================================================
// Point
// =============================================================================

// Point is a 2D screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to a gonum vector for arithmetic.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// PointOf converts a gonum vector back to a Point.
func PointOf(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// =============================================================================
// Node
// =============================================================================

// Node is a person or an inferred ("ghost") entity.
//
// Display attributes come from upstream data; Position, Velocity and Pinned
// are owned by the layout engine. Ghost and Orphaned are derived during
// assembly and are not authoritative.
type Node struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles,omitempty"`
	PrimaryRole string   `json:"primary_role,omitempty"`
	Stage       string   `json:"stage,omitempty"`
	Health      Health   `json:"health,omitempty"`
	Production  float64  `json:"production,omitempty"`
	TopOutcome  string   `json:"top_outcome,omitempty"`
	PhotoRef    string   `json:"photo_ref,omitempty"`

	Position Point `json:"position"`
	Velocity Point `json:"-"`
	Pinned   bool  `json:"pinned,omitempty"`
	Ghost    bool  `json:"ghost,omitempty"`
	Orphaned bool  `json:"orphaned,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a typed, weighted relationship between two node IDs.
type Edge struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	Type       EdgeType  `json:"type"`
	Weight     float64   `json:"weight"`
	Label      string    `json:"label,omitempty"`
	Reciprocal bool      `json:"reciprocal,omitempty"`
	Direction  Direction `json:"direction,omitempty"`

	// Deduced-family edges only.
	DeductionID string `json:"deduction_id,omitempty"`
	Confirmed   bool   `json:"confirmed,omitempty"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e *Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// =============================================================================
// Cluster
// =============================================================================

// Cluster is a business context as seen by the layout: a labelled group of
// member IDs that should start out placed together. Every context becomes a
// cluster, whatever its category, so non-business contexts shape seeding even
// though they produce no edges.
type Cluster struct {
	ID        string   `json:"id"`
	Label     string   `json:"label,omitempty"`
	MemberIDs []string `json:"member_ids"`
}

// =============================================================================
// Graph
// =============================================================================

// Graph is the assembled relationship graph handed to the layout engine.
//
// The format is also the canonical JSON serialization used by the CLI:
//
//	{
//	  "nodes": [{"id": "p1", "name": "Ada", "position": {"x": 0, "y": 0}}],
//	  "edges": [{"id": "…", "source": "p1", "target": "p2", "type": "referral", "weight": 0.7}],
//	  "clusters": [{"id": "ctx1", "label": "brokerage", "member_ids": ["p1", "p2"]}]
//	}
type Graph struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Clusters []Cluster `json:"clusters,omitempty"`
}

// NodeIndex maps node IDs to their index in g.Nodes.
func (g *Graph) NodeIndex() map[string]int {
	m := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		m[n.ID] = i
	}
	return m
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Neighbors returns the IDs adjacent to id in edge order, without duplicates.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		var other string
		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

package assemble

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/relgraph/pkg/graph"
)

// Fixed signal weights.
const (
	WeightBusiness = 0.8
	WeightReferral = 0.7
	WeightRecruit  = 0.6
	WeightFamily   = 0.7
	WeightGhost    = 0.3
)

// Saturation points for count-based weights: a count at or above the
// divisor maps to 1.
const (
	MeetingSaturation   = 10
	EvidenceSaturation  = 20
	CoMentionSaturation = 5
)

// BusinessCategory is the context category that produces business edges.
const BusinessCategory = "Business"

// GhostLabel labels every ghost-mention edge.
const GhostLabel = "mentioned"

var (
	edgeNamespace  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/relgraph/edge"))
	ghostNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/relgraph/ghost"))
)

// Stats summarizes an assembly run.
type Stats struct {
	Nodes    int
	Edges    int
	Ghosts   int
	Orphaned int
	Clusters int
	// Dropped counts signals (or signal endpoints) that referenced unknown
	// people, self-loops and duplicate edges.
	Dropped int
	ByType  map[graph.EdgeType]int
}

// Build turns people, contexts and relationship signals into a graph.
//
// Build never fails. Signals that reference unknown people are skipped and
// counted in Stats.Dropped, so partial upstream data yields fewer edges.
// Output order follows input order, which keeps the downstream layout
// deterministic.
func Build(in Input) (graph.Graph, Stats) {
	b := newBuilder()

	for _, p := range in.People {
		b.addPerson(p)
	}
	for _, c := range in.Contexts {
		b.addContext(c)
	}
	for _, r := range in.Referrals {
		b.addEdge(graph.Edge{
			Source: r.ReferrerID, Target: r.ReferredID,
			Type: graph.EdgeReferral, Weight: WeightReferral,
			Direction: graph.DirectionOutbound,
		}, "")
	}
	for _, r := range in.Recruits {
		b.addEdge(graph.Edge{
			Source: r.RecruiterID, Target: r.RecruitID,
			Type: graph.EdgeRecruitingTree, Weight: WeightRecruit,
			Label: r.Stage, Direction: graph.DirectionOutbound,
		}, "")
	}
	for _, c := range in.CoAttendance {
		b.addEdge(graph.Edge{
			Source: c.PersonA, Target: c.PersonB,
			Type:       graph.EdgeCoAttendee,
			Weight:     saturate(c.MeetingCount, MeetingSaturation),
			Reciprocal: true,
		}, "")
	}
	for _, c := range in.Communications {
		dir := normalizeDirection(c.Direction)
		b.addEdge(graph.Edge{
			Source: c.PersonA, Target: c.PersonB,
			Type:       graph.EdgeCommunicationLink,
			Weight:     saturate(c.EvidenceCount, EvidenceSaturation),
			Direction:  dir,
			Reciprocal: dir == graph.DirectionBalanced,
		}, "")
	}
	for _, c := range in.CoMentions {
		b.addEdge(graph.Edge{
			Source: c.PersonA, Target: c.PersonB,
			Type:       graph.EdgeMentionedTogether,
			Weight:     saturate(c.CoMentionCount, CoMentionSaturation),
			Reciprocal: true,
		}, "")
	}
	for _, f := range in.Family {
		b.addEdge(graph.Edge{
			Source: f.PersonA, Target: f.PersonB,
			Type: graph.EdgeDeducedFamily, Weight: WeightFamily,
			Label: f.Relation, Reciprocal: true,
			DeductionID: f.DeductionID, Confirmed: f.Confirmed,
		}, f.DeductionID)
	}
	for _, r := range in.Roles {
		b.addEdge(graph.Edge{
			Source: r.SelfID, Target: r.ContactID,
			Type: graph.EdgeRoleRelationship, Weight: RoleWeight(r.Health),
			Label: r.Role, Direction: graph.DirectionOutbound,
		}, r.Role)
	}
	for _, m := range in.GhostMentions {
		b.addGhost(m)
	}

	return b.finish()
}

// RoleWeight maps a relationship-health tier to a role-edge weight.
// Tiers match case-insensitively; unrecognized tiers weigh like "unknown".
func RoleWeight(h graph.Health) float64 {
	switch normalizeHealth(h) {
	case graph.HealthHealthy:
		return 0.9
	case graph.HealthCooling:
		return 0.6
	case graph.HealthAtRisk:
		return 0.4
	case graph.HealthCold:
		return 0.2
	default:
		return 0.3
	}
}

// saturate maps a count linearly onto [0,1], reaching 1 at k.
func saturate(count, k int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(1, float64(count)/float64(k))
}

func normalizeDirection(d graph.Direction) graph.Direction {
	switch graph.Direction(strings.ToLower(string(d))) {
	case graph.DirectionOutbound:
		return graph.DirectionOutbound
	case graph.DirectionInbound:
		return graph.DirectionInbound
	case graph.DirectionBalanced:
		return graph.DirectionBalanced
	}
	return ""
}

func normalizeHealth(h graph.Health) graph.Health {
	switch graph.Health(strings.ToLower(string(h))) {
	case graph.HealthHealthy:
		return graph.HealthHealthy
	case graph.HealthCooling:
		return graph.HealthCooling
	case graph.HealthAtRisk:
		return graph.HealthAtRisk
	case graph.HealthCold:
		return graph.HealthCold
	}
	return graph.HealthUnknown
}

// =============================================================================
// Builder
// =============================================================================

type builder struct {
	g       graph.Graph
	people  map[string]bool
	edgeIDs map[string]bool
	ghosts  map[string]int // ghost ID -> index in g.Nodes
	stats   Stats
}

func newBuilder() *builder {
	return &builder{
		people:  make(map[string]bool),
		edgeIDs: make(map[string]bool),
		ghosts:  make(map[string]int),
		stats:   Stats{ByType: make(map[graph.EdgeType]int)},
	}
}

func (b *builder) addPerson(p Person) {
	if p.ID == "" || b.people[p.ID] {
		b.stats.Dropped++
		return
	}
	b.people[p.ID] = true

	n := graph.Node{
		ID:         p.ID,
		Name:       p.Name,
		Roles:      p.Roles,
		Stage:      p.Stage,
		Health:     normalizeHealth(p.Health),
		Production: p.Production,
		TopOutcome: p.TopOutcome,
		PhotoRef:   p.PhotoRef,
		Pinned:     p.Pinned,
	}
	if len(p.Roles) > 0 {
		n.PrimaryRole = p.Roles[0]
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	b.g.Nodes = append(b.g.Nodes, n)
}

func (b *builder) addContext(c BusinessContext) {
	var members []string
	seen := make(map[string]bool, len(c.ParticipantIDs))
	for _, id := range c.ParticipantIDs {
		if !b.people[id] {
			b.stats.Dropped++
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) == 0 {
		return
	}

	b.g.Clusters = append(b.g.Clusters, graph.Cluster{
		ID:        c.ID,
		Label:     c.Name,
		MemberIDs: members,
	})

	if !strings.EqualFold(strings.TrimSpace(c.Category), BusinessCategory) {
		return
	}
	label := strings.ToLower(c.Type)
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			b.addEdge(graph.Edge{
				Source: members[i], Target: members[j],
				Type: graph.EdgeBusiness, Weight: WeightBusiness,
				Label: label, Reciprocal: true,
			}, c.ID)
		}
	}
}

// addEdge filters e against the known node set and assigns its ID.
// The discriminator separates otherwise identical edges, such as the same
// pair sharing two business contexts.
func (b *builder) addEdge(e graph.Edge, discriminator string) bool {
	if !b.known(e.Source) || !b.known(e.Target) || e.Source == e.Target {
		b.stats.Dropped++
		return false
	}
	e.ID = edgeID(e.Type, e.Source, e.Target, discriminator)
	if b.edgeIDs[e.ID] {
		b.stats.Dropped++
		return false
	}
	b.edgeIDs[e.ID] = true
	b.g.Edges = append(b.g.Edges, e)
	b.stats.ByType[e.Type]++
	return true
}

func (b *builder) known(id string) bool {
	if b.people[id] {
		return true
	}
	_, ok := b.ghosts[id]
	return ok
}

func (b *builder) addGhost(m GhostMention) {
	key := normalizeName(m.Name)
	if key == "" {
		b.stats.Dropped++
		return
	}
	id := GhostID(m.Name)
	if _, ok := b.ghosts[id]; !ok {
		b.ghosts[id] = len(b.g.Nodes)
		b.g.Nodes = append(b.g.Nodes, graph.Node{
			ID:     id,
			Name:   strings.TrimSpace(m.Name),
			Health: graph.HealthUnknown,
			Ghost:  true,
		})
		b.stats.Ghosts++
	}
	for _, by := range m.MentionedByIDs {
		if !b.people[by] {
			b.stats.Dropped++
			continue
		}
		b.addEdge(graph.Edge{
			Source: by, Target: id,
			Type: graph.EdgeMentionedTogether, Weight: WeightGhost,
			Label: GhostLabel, Direction: graph.DirectionOutbound,
		}, GhostLabel)
	}
}

func (b *builder) finish() (graph.Graph, Stats) {
	touched := make(map[string]bool, len(b.g.Nodes))
	for _, e := range b.g.Edges {
		touched[e.Source] = true
		touched[e.Target] = true
	}
	for i := range b.g.Nodes {
		b.g.Nodes[i].Orphaned = !touched[b.g.Nodes[i].ID]
		if b.g.Nodes[i].Orphaned {
			b.stats.Orphaned++
		}
	}
	if b.g.Edges == nil {
		b.g.Edges = []graph.Edge{}
	}
	if b.g.Nodes == nil {
		b.g.Nodes = []graph.Node{}
	}

	b.stats.Nodes = len(b.g.Nodes)
	b.stats.Edges = len(b.g.Edges)
	b.stats.Clusters = len(b.g.Clusters)
	return b.g, b.stats
}

// =============================================================================
// Identifiers
// =============================================================================

// GhostID returns the node ID for a ghost name. Names that differ only in
// case or whitespace share an ID.
func GhostID(name string) string {
	return "ghost-" + uuid.NewSHA1(ghostNamespace, []byte(normalizeName(name))).String()
}

func edgeID(t graph.EdgeType, source, target, discriminator string) string {
	key := strings.Join([]string{string(t), source, target, discriminator}, "\x1f")
	return uuid.NewSHA1(edgeNamespace, []byte(key)).String()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

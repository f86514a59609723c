// Package assemble builds a relationship graph from typed signal collections.
//
// The assembler is a pure function: [Build] takes people, business contexts
// and eight relationship-signal lists and returns a [graph.Graph] with one
// node per person, one ghost node per unmatched name, and weighted, typed
// edges. It performs no numerical iteration and never fails.
//
// # Weights
//
// Fixed-weight signals:
//
//	business context pair   0.8  reciprocal, label = lowercase context type
//	referral                0.7  outbound
//	recruiting lineage      0.6  outbound, label = stage
//	deduced family          0.7  reciprocal, carries deduction ID
//	ghost mention           0.3  outbound, label "mentioned"
//
// Count-based signals saturate linearly: co-attendance at 10 meetings,
// communication at 20 evidence items, note co-mentions at 5 notes. Role
// relationships weigh by health tier (see [RoleWeight]).
//
// # Filtering
//
// Upstream data may reference people that no longer exist. Any signal with
// an unknown endpoint is skipped and counted in [Stats].Dropped; the node
// set is never affected. Self-loops and exact duplicate edges are dropped
// the same way.
//
// # Identifiers
//
// Edge IDs are name-based UUIDs (SHA-1) of the edge type, endpoints and a
// discriminator, so rebuilding from the same input yields the same IDs.
// Ghost IDs are derived from the normalized mentioned name via [GhostID].
package assemble

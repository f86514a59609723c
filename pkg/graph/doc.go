// Package graph defines the relationship graph and layout types shared by
// the assembler, the layout engine and the CLI.
//
// This package is the canonical wire format for relgraph: JSON files written
// by "relgraph assemble" and read by "relgraph layout" use these types
// directly.
//
// # Core Types
//
//   - [Node]: A person or ghost entity with display attributes and a position
//   - [Edge]: A typed, weighted relationship between two node IDs
//   - [Cluster]: A business context used to group nodes during seeding
//   - [Graph]: Nodes, edges and clusters handed to the layout engine
//   - [Layout]: A graph with final positions, optional edge bundles and a
//     determinism fingerprint
//
// # Edge Types
//
// Every edge carries one [EdgeType] naming the signal it came from:
//
//	graph.EdgeBusiness          // "business"
//	graph.EdgeReferral          // "referral"
//	graph.EdgeRecruitingTree    // "recruiting_tree"
//	graph.EdgeCoAttendee        // "co_attendee"
//	graph.EdgeCommunicationLink // "communication_link"
//	graph.EdgeMentionedTogether // "mentioned_together"
//	graph.EdgeDeducedFamily     // "deduced_family"
//	graph.EdgeRoleRelationship  // "role_relationship"
//
// # Serialization
//
//	g, _ := graph.ReadGraphFile("graph.json")    // File → Graph
//	graph.WriteGraphFile(g, "output.json")       // Graph → File
//	data, _ := graph.MarshalGraph(g)             // Graph → []byte
//
// Decoding runs [Sanitize], so a graph read from disk never contains
// dangling edges: edges that reference unknown node IDs are dropped rather
// than rejected.
//
// # Fingerprints
//
// [Fingerprint] hashes node IDs and coordinates with xxhash. Identical
// inputs always produce identical layouts, so equal fingerprints are the
// quickest way to check that two runs agree.
package graph

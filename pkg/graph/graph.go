package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded, sanitized graph.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Graph{}, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
//
// Duplicate node IDs are rejected. Edges whose endpoints are unknown are
// dropped, the same way the assembler filters stale signal references.
func ReadGraph(r io.Reader) (Graph, error) {
	return readGraphFrom(r)
}

// Sanitize drops edges that reference unknown node IDs or loop back onto
// their source, and clusters members that are not nodes. It returns the
// number of edges dropped. Duplicate node IDs yield an INVALID_INPUT error.
func Sanitize(g *Graph) (int, error) {
	index := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return 0, rerrors.New(rerrors.ErrCodeInvalidInput, "node ID must not be empty")
		}
		if index[n.ID] {
			return 0, rerrors.New(rerrors.ErrCodeInvalidInput, "duplicate node ID %q", n.ID)
		}
		index[n.ID] = true
	}

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if !index[e.Source] || !index[e.Target] || e.Source == e.Target {
			continue
		}
		kept = append(kept, e)
	}
	dropped := len(g.Edges) - len(kept)
	g.Edges = kept

	for i := range g.Clusters {
		members := g.Clusters[i].MemberIDs[:0]
		for _, id := range g.Clusters[i].MemberIDs {
			if index[id] {
				members = append(members, id)
			}
		}
		g.Clusters[i].MemberIDs = members
	}
	return dropped, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode graph")
	}
	if _, err := Sanitize(&g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

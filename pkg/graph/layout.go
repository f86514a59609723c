package graph

import (
	"encoding/json"
	"fmt"
	"os"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
)

// =============================================================================
// Layout - Positioned Graph Format
// =============================================================================

// Layout is the serialization format for a laid-out relationship graph.
//
// Nodes carry their computed positions. Bundles is optional and maps edge
// IDs to curved-edge control points when edge bundling was requested.
// Fingerprint is an xxhash of node IDs and positions (see [Fingerprint]) so
// two layout files can be compared without diffing coordinates.
type Layout struct {
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Nodes       []Node             `json:"nodes"`
	Edges       []Edge             `json:"edges,omitempty"`
	Clusters    []Cluster          `json:"clusters,omitempty"`
	Bundles     map[string][]Point `json:"bundles,omitempty"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Cancelled   bool               `json:"cancelled,omitempty"`
}

// Graph returns the graph portion of the layout.
func (l *Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges, Clusters: l.Clusters}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// The embedded graph is sanitized like [ReadGraph].
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, rerrors.New(rerrors.ErrCodeInvalidBounds, "layout must have positive width and height")
	}

	g := l.Graph()
	if _, err := Sanitize(&g); err != nil {
		return Layout{}, err
	}
	l.Nodes, l.Edges, l.Clusters = g.Nodes, g.Edges, g.Clusters
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{}, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "layout file %s", path)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

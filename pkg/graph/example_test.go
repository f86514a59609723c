package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/relgraph/pkg/graph"
)

func ExampleReadGraph() {
	jsonData := `{
		"nodes": [
			{"id": "p1", "name": "Ada"},
			{"id": "p2", "name": "Bo"}
		],
		"edges": [
			{"id": "e1", "source": "p1", "target": "p2", "type": "referral", "weight": 0.7},
			{"id": "e2", "source": "p1", "target": "gone", "type": "referral", "weight": 0.7}
		]
	}`

	g, err := graph.ReadGraph(strings.NewReader(jsonData))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", len(g.Nodes))
	fmt.Println("Edges:", len(g.Edges))
	for _, e := range g.Edges {
		fmt.Printf("  %s -> %s (%s, %.1f)\n", e.Source, e.Target, e.Type, e.Weight)
	}
	// Output:
	// Nodes: 2
	// Edges: 1
	//   p1 -> p2 (referral, 0.7)
}

func ExampleGraph_Neighbors() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "c", Target: "a"},
		},
	}
	fmt.Println(g.Neighbors("a"))
	// Output:
	// [b c]
}

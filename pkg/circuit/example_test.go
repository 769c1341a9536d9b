package circuit_test

import (
	"fmt"

	"github.com/matzehuels/circuitgraph/pkg/circuit"
	"github.com/matzehuels/circuitgraph/pkg/grid"
)

func ExampleGraph() {
	// A voltage divider: two resistors in series across a source.
	g := circuit.New()
	_ = g.AddNode(circuit.Node{ID: 0, Points: []grid.Coord{{Row: 0, Col: 0}}})
	_ = g.AddNode(circuit.Node{ID: 1, Points: []grid.Coord{{Row: 0, Col: 2}}})
	_ = g.AddNode(circuit.Node{ID: 2, Points: []grid.Coord{{Row: 2, Col: 2}}})
	_ = g.AddEdge(circuit.Edge{ID: 0, From: 0, To: 1, Device: "R1"})
	_ = g.AddEdge(circuit.Edge{ID: 1, From: 1, To: 2, Device: "R2"})
	_ = g.AddEdge(circuit.Edge{ID: 2, From: 0, To: 2, Device: "V1"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Neighbors of 1:", g.Neighbors(1))
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 3
	// Neighbors of 1: [0 2]
	// Valid: true
}

func ExampleEdge_IsSelfLoop() {
	g := circuit.New()
	_ = g.AddNode(circuit.Node{ID: 0, Points: []grid.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}}})
	_ = g.AddEdge(circuit.Edge{ID: 0, From: 0, To: 0, Device: "SW1"})

	for _, e := range g.SelfLoops() {
		fmt.Println(e.Device, "is shorted")
	}
	// Output:
	// SW1 is shorted
}

package circuit

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/circuitgraph/pkg/grid"
)

func pt(r, c int) grid.Coord { return grid.Coord{Row: r, Col: c} }

// twoNodes builds 0 --e0-- 1 plus a self-loop e1 on node 1.
func twoNodes(t *testing.T) *Graph {
	t.Helper()
	g := New()
	must(t, g.AddNode(Node{ID: 0, Points: []grid.Coord{pt(0, 0), pt(0, 1)}}))
	must(t, g.AddNode(Node{ID: 1, Points: []grid.Coord{pt(1, 1)}}))
	must(t, g.AddEdge(Edge{ID: 0, From: 0, To: 1, Link: "d1", Device: "R1"}))
	must(t, g.AddEdge(Edge{ID: 1, From: 1, To: 1, Link: "d2", Device: "S1"}))
	return g
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{"Next", Node{ID: 2, Points: []grid.Coord{pt(3, 3)}}, nil},
		{"Gap", Node{ID: 3, Points: []grid.Coord{pt(3, 3)}}, ErrNonContiguousID},
		{"Reused", Node{ID: 1, Points: []grid.Coord{pt(3, 3)}}, ErrNonContiguousID},
		{"Empty", Node{ID: 2}, ErrEmptyNode},
		{"SharedPoint", Node{ID: 2, Points: []grid.Coord{pt(0, 1)}}, ErrSharedPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := twoNodes(t)
			err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"Next", Edge{ID: 2, From: 0, To: 1}, nil},
		{"Gap", Edge{ID: 5, From: 0, To: 1}, ErrNonContiguousID},
		{"UnknownFrom", Edge{ID: 2, From: -1, To: 1}, ErrUnknownNode},
		{"UnknownTo", Edge{ID: 2, From: 0, To: 9}, ErrUnknownNode},
		{"Reversed", Edge{ID: 2, From: 0, To: 1, Terminals: [2]int{1, 0}}, nil},
		{"StrayTerminal", Edge{ID: 2, From: 0, To: 1, Terminals: [2]int{1, 1}}, ErrTerminals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := twoNodes(t)
			err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeTerminalsDefault(t *testing.T) {
	g := twoNodes(t)
	e, _ := g.GetEdge(0)
	if e.Terminals != [2]int{0, 1} {
		t.Errorf("Terminals = %v, want [0 1]", e.Terminals)
	}
}

func TestIncidence(t *testing.T) {
	g := twoNodes(t)

	n0, _ := g.GetNode(0)
	n1, _ := g.GetNode(1)
	if !slices.Equal(n0.Edges, []int{0}) {
		t.Errorf("node 0 edges = %v, want [0]", n0.Edges)
	}
	if !slices.Equal(n1.Edges, []int{0, 1}) {
		t.Errorf("node 1 edges = %v, want [0 1]", n1.Edges)
	}
	if n1.Degree() != 2 {
		t.Errorf("node 1 degree = %d, want 2", n1.Degree())
	}
	if got := g.Neighbors(1); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Neighbors(1) = %v, want [0 1]", got)
	}
	if got := g.EdgesBetween(0, 1); !slices.Equal(got, []int{0}) {
		t.Errorf("EdgesBetween(0, 1) = %v, want [0]", got)
	}
	if got := g.SelfLoops(); len(got) != 1 || got[0].Device != "S1" {
		t.Errorf("SelfLoops() = %v, want S1 only", got)
	}
}

func TestLookup(t *testing.T) {
	g := twoNodes(t)

	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.GetNode(2); ok {
		t.Error("GetNode(2) found a node")
	}
	if _, ok := g.GetEdge(-1); ok {
		t.Error("GetEdge(-1) found an edge")
	}
	e, ok := g.GetEdge(0)
	if !ok || e.Device != "R1" {
		t.Fatalf("GetEdge(0) = %v, %v", e, ok)
	}
	if id, ok := g.NodeAt(pt(0, 1)); !ok || id != 0 {
		t.Errorf("NodeAt(0,1) = %d, %v, want 0, true", id, ok)
	}
	if _, ok := g.NodeAt(pt(9, 9)); ok {
		t.Error("NodeAt(9,9) found a node")
	}
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{From: 3, To: 1}
	if a, b := e.Endpoints(); a != 1 || b != 3 {
		t.Errorf("Endpoints() = %d, %d", a, b)
	}
	if e.Other(3) != 1 || e.Other(1) != 3 || e.Other(7) != -1 {
		t.Errorf("Other() mismatch")
	}
	if e.IsSelfLoop() {
		t.Error("IsSelfLoop() = true")
	}
	loop := Edge{From: 2, To: 2}
	if !loop.IsSelfLoop() || loop.Other(2) != 2 {
		t.Error("self-loop helpers mismatch")
	}
}

func TestComponents(t *testing.T) {
	g := New()
	for i := range 5 {
		must(t, g.AddNode(Node{ID: i, Points: []grid.Coord{pt(i, 0)}}))
	}
	must(t, g.AddEdge(Edge{ID: 0, From: 0, To: 3}))
	must(t, g.AddEdge(Edge{ID: 1, From: 4, To: 1}))

	got := g.Components()
	want := [][]int{{0, 3}, {1, 4}, {2}}
	if len(got) != len(want) {
		t.Fatalf("Components() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		if err := twoNodes(t).Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
	})
	t.Run("SharedPoint", func(t *testing.T) {
		g := twoNodes(t)
		g.nodes[1].Points = append(g.nodes[1].Points, pt(0, 0))
		if err := g.Validate(); !errors.Is(err, ErrSharedPoint) {
			t.Fatalf("Validate() = %v, want ErrSharedPoint", err)
		}
	})
	t.Run("EmptyNode", func(t *testing.T) {
		g := twoNodes(t)
		g.nodes[0].Points = nil
		if err := g.Validate(); !errors.Is(err, ErrEmptyNode) {
			t.Fatalf("Validate() = %v, want ErrEmptyNode", err)
		}
	})
	t.Run("Incidence", func(t *testing.T) {
		g := twoNodes(t)
		g.nodes[0].Edges = nil
		if err := g.Validate(); !errors.Is(err, ErrIncidence) {
			t.Fatalf("Validate() = %v, want ErrIncidence", err)
		}
	})
}

func TestCopiesAreIndependent(t *testing.T) {
	g := twoNodes(t)
	edges := g.Edges()
	edges[0].Device = "changed"
	if e, _ := g.GetEdge(0); e.Device != "R1" {
		t.Errorf("Edges() aliases graph storage")
	}
	pts := []grid.Coord{pt(7, 7)}
	must(t, g.AddNode(Node{ID: 2, Points: pts}))
	pts[0] = pt(8, 8)
	if _, ok := g.NodeAt(pt(7, 7)); !ok {
		t.Errorf("AddNode() aliases caller points")
	}
}

package circuit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/circuitgraph/pkg/grid"
)

var (
	// ErrNonContiguousID is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when the element does not carry the next free ID.
	ErrNonContiguousID = errors.New("IDs must be contiguous")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does not
	// name an existing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrEmptyNode is returned by [Graph.AddNode] and [Graph.Validate] for a
	// node without member points.
	ErrEmptyNode = errors.New("node has no grid points")

	// ErrSharedPoint is returned by [Graph.AddNode] and [Graph.Validate] when
	// a grid point belongs to more than one node.
	ErrSharedPoint = errors.New("grid point belongs to more than one node")

	// ErrIncidence is returned by [Graph.Validate] when a node's incident
	// edge list disagrees with the edge endpoints.
	ErrIncidence = errors.New("inconsistent edge incidence")

	// ErrTerminals is returned by [Graph.AddEdge] when an edge's terminals
	// are not its two endpoints.
	ErrTerminals = errors.New("terminals do not match endpoints")
)

// Node is one electrical node: a set of grid points at the same potential.
type Node struct {
	ID     int          // Position in 0..N-1
	Points []grid.Coord // Member grid points, never empty
	Edges  []int        // Incident edge IDs in ascending order (maintained by AddEdge)
}

// Degree returns the number of incident edges. A self-loop counts once.
func (n Node) Degree() int { return len(n.Edges) }

// Edge is one device between two electrical nodes.
type Edge struct {
	ID        int         // Position in 0..M-1
	From      int         // Endpoint node ID
	To        int         // Endpoint node ID, equal to From for a shorted device
	Terminals [2]int      // Node IDs under terminal 0 and terminal 1
	Link      grid.LinkID // Link the device was placed as
	Device    grid.Handle // Caller's device reference
}

// IsSelfLoop reports whether both terminals sit on the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Endpoints returns the two endpoint node IDs, lowest first.
func (e Edge) Endpoints() (int, int) {
	if e.From <= e.To {
		return e.From, e.To
	}
	return e.To, e.From
}

// Other returns the endpoint opposite node, or -1 if node is not an endpoint.
// For a self-loop it returns node itself.
func (e Edge) Other(node int) int {
	switch node {
	case e.From:
		return e.To
	case e.To:
		return e.From
	}
	return -1
}

// Graph is the reduced node/edge graph of a circuit.
// The zero value is not usable - use New.
type Graph struct {
	nodes   []*Node
	edges   []Edge
	pointOf map[grid.Coord]int // grid point -> node ID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		pointOf: make(map[grid.Coord]int),
	}
}

// AddNode appends a node. n.ID must equal NodeCount(), n.Points must be
// non-empty and none of them may already belong to another node. Incident
// edges are tracked by AddEdge, so n.Edges is ignored.
func (g *Graph) AddNode(n Node) error {
	if n.ID != len(g.nodes) {
		return fmt.Errorf("%w: node %d, want %d", ErrNonContiguousID, n.ID, len(g.nodes))
	}
	if len(n.Points) == 0 {
		return fmt.Errorf("%w: node %d", ErrEmptyNode, n.ID)
	}
	for _, p := range n.Points {
		if other, ok := g.pointOf[p]; ok {
			return fmt.Errorf("%w: %s in nodes %d and %d", ErrSharedPoint, p, other, n.ID)
		}
	}
	node := &Node{ID: n.ID, Points: slices.Clone(n.Points)}
	for _, p := range node.Points {
		g.pointOf[p] = node.ID
	}
	g.nodes = append(g.nodes, node)
	return nil
}

// AddEdge appends an edge. e.ID must equal EdgeCount() and both endpoints
// must exist. Zero Terminals default to {From, To}; otherwise they must be
// the endpoints in either order. The edge is registered as incident to both
// endpoints (once for a self-loop).
func (g *Graph) AddEdge(e Edge) error {
	if e.ID != len(g.edges) {
		return fmt.Errorf("%w: edge %d, want %d", ErrNonContiguousID, e.ID, len(g.edges))
	}
	if !g.hasNode(e.From) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, e.From)
	}
	if !g.hasNode(e.To) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, e.To)
	}
	switch e.Terminals {
	case [2]int{}:
		e.Terminals = [2]int{e.From, e.To}
	case [2]int{e.From, e.To}, [2]int{e.To, e.From}:
	default:
		return fmt.Errorf("%w: edge %d has %v, endpoints %d-%d", ErrTerminals, e.ID, e.Terminals, e.From, e.To)
	}
	g.edges = append(g.edges, e)
	g.nodes[e.From].Edges = append(g.nodes[e.From].Edges, e.ID)
	if e.To != e.From {
		g.nodes[e.To].Edges = append(g.nodes[e.To].Edges, e.ID)
	}
	return nil
}

func (g *Graph) hasNode(id int) bool { return id >= 0 && id < len(g.nodes) }

// NodeCount returns the number of electrical nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of electrical edges (placed devices).
func (g *Graph) EdgeCount() int { return len(g.edges) }

// GetNode returns the node with the given ID. The pointer refers to the
// graph's node; callers must not modify it.
func (g *Graph) GetNode(id int) (*Node, bool) {
	if !g.hasNode(id) {
		return nil, false
	}
	return g.nodes[id], true
}

// GetEdge returns the edge with the given ID.
func (g *Graph) GetEdge(id int) (*Edge, bool) {
	if id < 0 || id >= len(g.edges) {
		return nil, false
	}
	return &g.edges[id], true
}

// Nodes returns all nodes in ID order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in ID order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeAt returns the ID of the node containing grid point c.
// Isolated points belong to no node.
func (g *Graph) NodeAt(c grid.Coord) (int, bool) {
	id, ok := g.pointOf[c]
	return id, ok
}

// Neighbors returns the distinct node IDs joined to id by at least one edge,
// in ascending order. A self-loop contributes id itself.
func (g *Graph) Neighbors(id int) []int {
	n, ok := g.GetNode(id)
	if !ok {
		return nil
	}
	var out []int
	for _, eid := range n.Edges {
		out = append(out, g.edges[eid].Other(id))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// EdgesBetween returns the IDs of all edges joining a and b, in ID order.
func (g *Graph) EdgesBetween(a, b int) []int {
	n, ok := g.GetNode(a)
	if !ok {
		return nil
	}
	var out []int
	for _, eid := range n.Edges {
		if g.edges[eid].Other(a) == b {
			out = append(out, eid)
		}
	}
	return out
}

// SelfLoops returns the edges whose two terminals share a node.
func (g *Graph) SelfLoops() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.IsSelfLoop() {
			out = append(out, e)
		}
	}
	return out
}

// Components returns the connected sub-circuits as lists of node IDs. Each
// list is ascending and the lists are ordered by their smallest member.
func (g *Graph) Components() [][]int {
	seen := make([]bool, len(g.nodes))
	var comps [][]int
	for start := range g.nodes {
		if seen[start] {
			continue
		}
		stack := []int{start}
		seen[start] = true
		var comp []int
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, u)
			for _, v := range g.Neighbors(u) {
				if !seen[v] {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}

// Validate checks graph integrity and returns nil if valid:
//
//  1. Every node has at least one grid point and no point is shared.
//  2. Every edge endpoint exists.
//  3. Each node's incident list is exactly the set of edges touching it.
func (g *Graph) Validate() error {
	owner := make(map[grid.Coord]int)
	for _, n := range g.nodes {
		if len(n.Points) == 0 {
			return fmt.Errorf("%w: node %d", ErrEmptyNode, n.ID)
		}
		for _, p := range n.Points {
			if other, ok := owner[p]; ok {
				return fmt.Errorf("%w: %s in nodes %d and %d", ErrSharedPoint, p, other, n.ID)
			}
			owner[p] = n.ID
		}
	}

	want := make([][]int, len(g.nodes))
	for _, e := range g.edges {
		if !g.hasNode(e.From) || !g.hasNode(e.To) {
			return fmt.Errorf("%w: edge %d references %d-%d", ErrUnknownNode, e.ID, e.From, e.To)
		}
		want[e.From] = append(want[e.From], e.ID)
		if e.To != e.From {
			want[e.To] = append(want[e.To], e.ID)
		}
	}
	for _, n := range g.nodes {
		got := slices.Sorted(slices.Values(n.Edges))
		if !slices.Equal(got, want[n.ID]) {
			return fmt.Errorf("%w: node %d has %v, want %v", ErrIncidence, n.ID, got, want[n.ID])
		}
	}
	return nil
}

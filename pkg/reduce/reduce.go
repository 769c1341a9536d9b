package reduce

import (
	"errors"
	"fmt"

	"github.com/matzehuels/circuitgraph/pkg/circuit"
	"github.com/matzehuels/circuitgraph/pkg/grid"
)

// Result is the outcome of a reduction.
type Result struct {
	// Graph is the reduced circuit, built from every eligible link.
	Graph *circuit.Graph
	// Faults lists excluded links: touched links in order of first
	// appearance, then declared links that touch nothing.
	Faults []*DegenerateLinkError
	// Shorted lists the IDs of self-loop edges in ascending order.
	Shorted []int
}

// OK reports whether no link was excluded.
func (r *Result) OK() bool { return len(r.Faults) == 0 }

// Err joins all faults into one error, or returns nil if there are none.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Faults))
	for i, f := range r.Faults {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Stats summarises a result for logging.
type Stats struct {
	Nodes, Edges, Faults, Shorted, Components int
}

// Stats returns the counts of r.
func (r *Result) Stats() Stats {
	return Stats{
		Nodes:      r.Graph.NodeCount(),
		Edges:      r.Graph.EdgeCount(),
		Faults:     len(r.Faults),
		Shorted:    len(r.Shorted),
		Components: len(r.Graph.Components()),
	}
}

// BuildGraph reduces a grid snapshot to its electrical graph.
//
// Per-link problems never abort the reduction; the offending links are
// skipped and listed in [Result.Faults]. An error is returned only for a nil
// or structurally invalid snapshot ([ErrInvalidSnapshot]) or when the
// produced graph fails validation ([InvariantError]); the result is nil in
// both cases.
func BuildGraph(s *grid.Snapshot) (*Result, error) {
	if s == nil {
		return nil, ErrNilSnapshot
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	c := classify(s)
	nodes, nodeOf := merge(c)
	edges := buildEdges(c, nodes, nodeOf)
	ids := numberNodes(nodes, edges)
	order := numberEdges(edges, ids)

	g, shorted, err := assemble(c, nodes, edges, ids, order)
	if err != nil {
		return nil, &InvariantError{Err: err}
	}
	if err := g.Validate(); err != nil {
		return nil, &InvariantError{Err: err}
	}
	return &Result{Graph: g, Faults: c.faults, Shorted: shorted}, nil
}

func assemble(c *classification, nodes []workingNode, edges []workingEdge, ids []int, order []numbered) (*circuit.Graph, []int, error) {
	byID := make([]int, len(nodes))
	for w, id := range ids {
		byID[id] = w
	}

	g := circuit.New()
	for id, w := range byID {
		pts := make([]grid.Coord, len(nodes[w].points))
		for i, p := range nodes[w].points {
			pts[i] = c.points[p]
		}
		if err := g.AddNode(circuit.Node{ID: id, Points: pts}); err != nil {
			return nil, nil, err
		}
	}

	var shorted []int
	for id, n := range order {
		w := edges[n.work]
		e := circuit.Edge{
			ID:        id,
			From:      n.from,
			To:        n.to,
			Terminals: [2]int{ids[w.ta], ids[w.tb]},
			Link:      w.dev.link.ID,
			Device:    w.dev.link.Device,
		}
		if err := g.AddEdge(e); err != nil {
			return nil, nil, err
		}
		if e.IsSelfLoop() {
			shorted = append(shorted, id)
		}
	}
	return g, shorted, nil
}

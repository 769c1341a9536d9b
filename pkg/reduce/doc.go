// Package reduce turns a grid snapshot into the electrical graph of a circuit.
//
// # Overview
//
// [BuildGraph] is the reduction engine. It takes a [grid.Snapshot], the
// value produced by the layout layer, and returns a [circuit.Graph] in four
// passes:
//
//  1. Classification: isolated points are dropped, every touching link is
//     resolved once into a wire or a device and checked to reach exactly two
//     distinct points with in-range directions.
//  2. Merge: the endpoints of every wire are united in a disjoint-set over
//     point indices. Each resulting class is one electrical node.
//  3. Edges: every device becomes one edge between the nodes of its two
//     anchors. A device whose anchors share a node becomes a self-loop.
//  4. Numbering: node IDs follow a depth-first traversal, edge IDs follow
//     the sorted endpoint IDs.
//
// # Faults
//
// A link that cannot take part in the reduction is excluded and reported as
// a [DegenerateLinkError] in [Result.Faults]; the rest of the circuit is
// still reduced. Callers decide whether faults block further processing:
//
//	res, err := reduce.BuildGraph(snap)
//	if err != nil {
//	    return err // invalid snapshot or internal invariant violation
//	}
//	for _, f := range res.Faults {
//	    fmt.Println("excluded:", f)
//	}
//
// Only structural problems with the snapshot itself and violations of the
// node partition abort a reduction. The latter is reported as an
// [InvariantError] and indicates a bug, not bad input.
//
// # Determinism
//
// For a given snapshot the produced IDs are fixed. Node 0 is the node of the
// first touched point in snapshot order; traversal follows incident edges in
// device order. Edges are sorted by the sum of their endpoint IDs, then by
// the difference, then by device order. Two snapshots describing the same
// drawing in the same order therefore yield identical graphs.
//
// # Concurrency
//
// BuildGraph is a pure function of its input. It performs no I/O, never
// retains the snapshot and may be called from multiple goroutines as long
// as the snapshot is not mutated during the call.
package reduce

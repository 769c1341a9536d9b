// Package circuit provides the reduced electrical graph of a drawn circuit.
//
// # Overview
//
// A [Graph] holds electrical nodes and electrical edges. A [Node] is a set of
// grid points that sit at the same potential because only wires join them;
// an [Edge] is one two-terminal device placed between two nodes. Graphs are
// produced by the reduction engine (package reduce) and consumed by a
// numeric solver or by overlays that print node and edge numbers.
//
// # Identifiers
//
// Node IDs form the contiguous range 0..N-1 and edge IDs the range 0..M-1.
// [Graph.AddNode] and [Graph.AddEdge] enforce contiguity by requiring each
// new element to carry the next free ID, so lookups by ID are plain slice
// indexing:
//
//	g := circuit.New()
//	_ = g.AddNode(circuit.Node{ID: 0, Points: []grid.Coord{{Row: 0, Col: 0}}})
//	_ = g.AddNode(circuit.Node{ID: 1, Points: []grid.Coord{{Row: 0, Col: 2}}})
//	_ = g.AddEdge(circuit.Edge{ID: 0, From: 0, To: 1, Device: "R1"})
//
// # Shorted Devices
//
// A device whose two anchors end up in the same electrical node is kept as a
// self-loop edge ([Edge.IsSelfLoop]). Whether such a device is meaningful
// (a closed switch) or a modelling error is left to the consumer.
//
// # Validation
//
// [Graph.Validate] checks the partition property (no grid point belongs to
// two nodes, no node is empty) and incidence consistency. The reduction
// engine runs it before returning a graph.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. A finished graph may
// be read from multiple goroutines.
package circuit

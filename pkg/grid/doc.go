// Package grid models the snapping grid a circuit is drawn on.
//
// # Overview
//
// A circuit drawing is a rectangular lattice of discrete snap locations
// ([Point]). Wires and devices ([Link]) attach to those locations, and every
// attachment is recorded on the point together with the compass [Direction]
// the link arrives from. The layout layer (see package board) owns the live
// lattice; this package only describes the value types it hands to the
// reduction engine.
//
// # Snapshots
//
// A [Snapshot] is a pure value: the list of points with their ordered touch
// lists, and the declaration of every link (its kind and, for devices, the
// opaque [Handle] used to look up electrical parameters later). Reductions
// never observe live editor state, only snapshots:
//
//	s := &grid.Snapshot{
//	    Points: []grid.Point{
//	        {At: grid.Coord{Row: 0, Col: 0}, Touches: []grid.Touch{{Link: "w1", Dir: grid.East}}},
//	        {At: grid.Coord{Row: 0, Col: 1}, Touches: []grid.Touch{{Link: "w1", Dir: grid.West}}},
//	    },
//	    Links: []grid.Link{grid.NewWire("w1")},
//	}
//
// # Link Kinds
//
// [Link] is a tagged union over [KindWire] and [KindDevice]. The kind is
// decided once, when the link is declared, so consumers switch on
// [Link.Kind] rather than inspecting dynamic types.
//
// # Concurrency
//
// Snapshots are not synchronized. Treat a snapshot as read-only once it has
// been handed to a reduction; use [Snapshot.Clone] to obtain an independent
// copy for further editing.
package grid

// Package io reads circuit description documents and reads and writes
// reduced graphs as JSON.
//
// # Description Documents
//
// A description document lists the board size, the devices and the wires of
// a drawing. It can be written as TOML, JSON or HCL; [FormatFromPath] picks
// the decoder from the file extension.
//
//	name = "divider"
//	rows = 4
//	cols = 6
//
//	[[device]]
//	id = "V1"
//	kind = "voltage_source"
//	from = [0, 0]
//	to = [3, 0]
//	params = { voltage = "5V" }
//
//	[[device]]
//	id = "R1"
//	kind = "resistor"
//	from = [0, 0]
//	to = [0, 4]
//
//	[[wire]]
//	from = [0, 4]
//	to = [3, 4]
//
// The HCL form uses labelled device blocks and unlabelled wire blocks:
//
//	rows = 4
//	cols = 6
//	device "R1" {
//	  kind = "resistor"
//	  from = [0, 0]
//	  to   = [0, 4]
//	}
//	wire {
//	  from = [0, 4]
//	  to   = [3, 4]
//	}
//
// [Document.Board] places the document on a [board.Board]. Devices are
// placed first, then wires, each in document order. Wires without an id get
// generated IDs ("w1", "w2", ...) that never collide with explicit ones.
//
// Device kinds and params are not interpreted; they travel through the
// [DeviceTable] to exported graphs.
//
// # Graph Files
//
// [WriteGraph] encodes a [reduce.Result] as JSON:
//
//	{
//	  "nodes": [{"id": 0, "points": [[0, 0]], "edges": [0]}],
//	  "edges": [{"id": 0, "from": 0, "to": 1, "link": "R1", "device": "R1",
//	             "kind": "resistor"}],
//	  "faults": [{"link": "w3", "kind": "wire", "reason": "too-few-points"}]
//	}
//
// [ReadGraph] decodes the same format and [GraphFile.Result] rebuilds the
// result, which lets callers cache reductions.
package io

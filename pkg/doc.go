// Package pkg provides the core libraries for circuitgraph.
//
// # Overview
//
// circuitgraph reads circuit drawings made on a snap grid, where devices
// and wires run between grid points, and reduces them to electrical graphs:
// every set of points joined by wires becomes one node, every device
// becomes an edge between the nodes at its terminals. The pkg directory is
// organized into these areas:
//
//  1. [grid], [board] - The drawing model and the headless layout layer
//  2. [reduce], [circuit] - The reduction engine and the graph it produces
//  3. [io] - Description documents (TOML, JSON, HCL) and graph JSON
//  4. [render] - DOT, SVG, PNG and PDF output
//  5. [pipeline] - Orchestration (reduce → render) with caching
//  6. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Description document (.toml / .json / .hcl)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [board] package (place devices, route wires)
//	         ↓
//	    [grid] snapshot (points with their touches)
//	         ↓
//	    [reduce] package (classify, merge, build edges, number)
//	         ↓
//	    [circuit] graph
//	         ↓
//	    [render] / [io] (DOT, SVG, PNG, PDF, graph JSON)
//
// # Quick Start
//
// Reduce a document and render its graph:
//
//	import (
//	    "github.com/matzehuels/circuitgraph/pkg/io"
//	    "github.com/matzehuels/circuitgraph/pkg/reduce"
//	    "github.com/matzehuels/circuitgraph/pkg/render/nodelink"
//	)
//
//	// 1. Load the document and take its snapshot
//	doc, _ := io.LoadDocument("divider.toml")
//	snap, _ := doc.Snapshot()
//
//	// 2. Reduce
//	res, _ := reduce.BuildGraph(snap)
//
//	// 3. Render to SVG
//	dot := nodelink.ToDOT(res, nodelink.Options{Devices: doc.DeviceTable()})
//	svg, _ := nodelink.RenderSVG(dot)
//
// The [pipeline] package wraps these steps with caching, tracing and
// logging, and is what the CLI and the HTTP server use.
package pkg

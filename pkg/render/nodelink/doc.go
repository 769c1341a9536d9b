// Package nodelink renders reduced circuits as node-link diagrams.
//
// # Overview
//
// Every electrical node becomes a circle and every device edge an undirected
// line labelled with its device handle. Shorted devices (both terminals on
// the same node) are drawn as dashed red self-loops.
//
// # Usage
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Devices: table})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// With Options.Detailed set, node labels list their grid points and edge
// labels carry the device kind and parameters from the device table.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no system installation is needed.
package nodelink

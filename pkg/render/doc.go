// Package render turns reduced circuit graphs into visual artifacts.
//
// # Overview
//
// The [nodelink] subpackage converts a [reduce.Result] into Graphviz DOT and
// renders it in-process to SVG or PNG. This package holds format conversion
// shared by renderers:
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg).
//
// [reduce.Result]: github.com/matzehuels/circuitgraph/pkg/reduce.Result
// [nodelink]: github.com/matzehuels/circuitgraph/pkg/render/nodelink
package render

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/circuitgraph/pkg/circuit"
	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes grid points in node labels and device kind and
	// parameters in edge labels. When false, nodes show their ID and edges
	// their device handle.
	Detailed bool

	// Devices supplies device attributes for detailed labels. May be nil.
	Devices io.DeviceTable
}

// ToDOT converts a reduction result to Graphviz DOT.
// The resulting string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(res *reduce.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	g := res.Graph
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeName(n.ID), nodeLabel(n, opts.Detailed))
	}

	shorted := make(map[int]bool, len(res.Shorted))
	for _, id := range res.Shorted {
		shorted[id] = true
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e, edgeLabel(e, opts), shorted[e.ID])
		fmt.Fprintf(&buf, "  %s -- %s [%s];\n", nodeName(e.From), nodeName(e.To), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int) string { return "n" + strconv.Itoa(id) }

func nodeLabel(n *circuit.Node, detailed bool) string {
	label := strconv.Itoa(n.ID)
	if !detailed {
		return label
	}
	pts := make([]string, len(n.Points))
	for i, p := range n.Points {
		pts[i] = p.String()
	}
	return label + "\n" + strings.Join(pts, " ")
}

func edgeLabel(e circuit.Edge, opts Options) string {
	label := string(e.Device)
	if !opts.Detailed {
		return label
	}
	dev, ok := opts.Devices[e.Device]
	if !ok {
		return label
	}
	parts := []string{label}
	if dev.Kind != "" {
		parts = append(parts, dev.Kind)
	}
	for _, k := range slices.Sorted(maps.Keys(dev.Params)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, dev.Params[k]))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e circuit.Edge, label string, shorted bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if shorted {
		attrs = append(attrs, "style=dashed", "color=red", "fontcolor=red")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag with one carrying matching
// width, height and a zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

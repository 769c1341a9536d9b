// Package pipeline runs the reduce → render pipeline for circuitgraph.
//
// Both the CLI and the HTTP server go through a [Runner], so caching,
// tracing and logging behave identically at every entry point.
//
// # Stages
//
//  1. Reduce: place a description document on a board, snapshot it, and
//     reduce the snapshot to its circuit graph
//  2. Render: produce an artifact (DOT, SVG, PNG, PDF or graph JSON)
//
// Each stage consults the cache first. Reductions are keyed by the hash of
// the snapshot, so two documents that draw the same connections share an
// entry. Artifacts are keyed by that hash plus the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, cached, err := runner.Reduce(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	svg, _, err := runner.Render(ctx, res, pipeline.FormatSVG, pipeline.RenderOptions{})
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is the format rendered when none is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options controls the reduce stage.
type Options struct {
	// Refresh bypasses the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// RenderOptions controls the render stage.
type RenderOptions struct {
	// Detailed adds grid points and device attributes to diagram labels.
	Detailed bool `json:"detailed,omitempty"`
	// Refresh bypasses the cache lookup.
	Refresh bool `json:"refresh,omitempty"`
}

// Result is the output of the reduce stage.
type Result struct {
	// Name is the document name, if any.
	Name string

	// Reduction is the reduced circuit with its faults.
	Reduction *reduce.Result

	// Table holds the device attributes of the document.
	Table io.DeviceTable

	// SnapshotHash is the content hash of the reduced snapshot.
	SnapshotHash string

	// Stats contains counts and timing.
	Stats Stats
}

// Stats contains reduce stage statistics.
type Stats struct {
	reduce.Stats
	Points   int
	Links    int
	Duration time.Duration
}

// GraphFile returns the JSON form of the result.
func (r *Result) GraphFile() *io.GraphFile {
	f := io.NewGraphFile(r.Reduction, r.Table)
	f.Name = r.Name
	return f
}

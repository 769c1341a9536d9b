package pipeline

import (
	"bytes"
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/circuitgraph/pkg/cache"
	apperr "github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/observability"
	"github.com/matzehuels/circuitgraph/pkg/render"
	"github.com/matzehuels/circuitgraph/pkg/render/nodelink"
)

// Render produces the artifact for format. The boolean reports whether it
// came from the cache.
func (r *Runner) Render(ctx context.Context, res *Result, format string, opts RenderOptions) (_ []byte, hit bool, err error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "render")
	}

	ctx, span := tracer.Start(ctx, "pipeline.render", trace.WithAttributes(
		attribute.String("render.format", format),
		attribute.Bool("render.detailed", opts.Detailed),
	))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format, res.Reduction.Graph.NodeCount())

	attrs, err := res.attrsHash()
	if err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeInternal, err, "hash device table")
	}
	key := r.Keyer.ArtifactKey(res.SnapshotHash, cache.ArtifactKeyOpts{Format: format, Detailed: opts.Detailed, Attrs: attrs})
	if !opts.Refresh && res.SnapshotHash != "" {
		if data, ok := r.lookup(ctx, key); ok {
			hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), nil)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return data, true, nil
		}
	}

	data, err := Render(ctx, res, format, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, format, 0, time.Since(start), err)
		return nil, false, err
	}
	if res.SnapshotHash != "" {
		r.store(ctx, key, data, cache.TTLArtifact)
	}

	dur := time.Since(start)
	hooks.OnRenderComplete(ctx, format, len(data), dur, nil)
	r.Logger.Info("rendered output",
		"format", format,
		"bytes", len(data),
		"duration", dur)
	return data, false, nil
}

// attrsHash covers the parts of the output that do not come from the
// snapshot.
func (r *Result) attrsHash() (string, error) {
	return cache.HashJSON(struct {
		Name  string         `json:"name"`
		Table io.DeviceTable `json:"table"`
	}{r.Name, r.Table})
}

// RenderAll renders every format in turn and returns the artifacts keyed by
// format.
func (r *Runner) RenderAll(ctx context.Context, res *Result, formats []string, opts RenderOptions) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "render")
	}
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, _, err := r.Render(ctx, res, f, opts)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

// Render produces the artifact for format without touching a cache.
func Render(ctx context.Context, res *Result, format string, opts RenderOptions) ([]byte, error) {
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := res.GraphFile().Encode(&buf); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "encode graph")
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(res.Reduction, nodelink.Options{Detailed: opts.Detailed, Devices: res.Table})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return renderWith(nodelink.RenderSVG, dot)
	case FormatPNG:
		return renderWith(nodelink.RenderPNG, dot)
	case FormatPDF:
		svg, err := renderWith(nodelink.RenderSVG, dot)
		if err != nil {
			return nil, err
		}
		pdf, err := render.ToPDF(ctx, svg)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeUnsupported, err, "render pdf")
		}
		return pdf, nil
	}
	return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", format)
}

func renderWith(fn func(string) ([]byte, error), dot string) ([]byte, error) {
	data, err := fn(dot)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "graphviz")
	}
	return data, nil
}

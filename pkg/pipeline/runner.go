package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/circuitgraph/pkg/cache"
	apperr "github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/grid"
	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/observability"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

var tracer = otel.Tracer("github.com/matzehuels/circuitgraph/pkg/pipeline")

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached reductions; zero means cache.TTLReduce.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Reduce places doc, snapshots it and reduces the snapshot. The boolean
// reports whether the reduction came from the cache.
func (r *Runner) Reduce(ctx context.Context, doc *io.Document, opts Options) (*Result, bool, error) {
	if err := doc.Validate(); err != nil {
		return nil, false, err
	}
	snap, err := doc.Snapshot()
	if err != nil {
		return nil, false, err
	}
	return r.ReduceSnapshot(ctx, doc.Name, snap, doc.DeviceTable(), opts)
}

// ReduceSnapshot reduces a snapshot taken elsewhere. table may be nil.
func (r *Runner) ReduceSnapshot(ctx context.Context, name string, snap *grid.Snapshot, table io.DeviceTable, opts Options) (_ *Result, hit bool, err error) {
	if snap == nil {
		return nil, false, classify(reduce.ErrNilSnapshot)
	}
	ctx, span := tracer.Start(ctx, "pipeline.reduce", trace.WithAttributes(
		attribute.Int("circuit.points", len(snap.Points)),
		attribute.Int("circuit.links", len(snap.Links)),
	))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnReduceStart(ctx, len(snap.Points), len(snap.Links))

	snapData, err := json.Marshal(snap)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeInternal, err, "encode snapshot")
	}
	res := &Result{
		Name:         name,
		Table:        table,
		SnapshotHash: cache.Hash(snapData),
	}
	key := r.Keyer.ReduceKey(res.SnapshotHash)

	if !opts.Refresh {
		if red, ok := r.cachedReduction(ctx, key); ok {
			res.Reduction = red
			hit = true
		}
	}
	if res.Reduction == nil {
		red, err := reduce.BuildGraph(snap)
		if err != nil {
			hooks.OnReduceComplete(ctx, observability.ReduceEvent{}, time.Since(start), err)
			return nil, false, classify(err)
		}
		res.Reduction = red
		var buf bytes.Buffer
		if err := io.NewGraphFile(red, table).Encode(&buf); err == nil {
			r.store(ctx, key, buf.Bytes(), r.reduceTTL())
		}
	}

	res.Stats = Stats{
		Stats:    res.Reduction.Stats(),
		Points:   len(snap.Points),
		Links:    len(snap.Links),
		Duration: time.Since(start),
	}
	span.SetAttributes(
		attribute.Int("circuit.nodes", res.Stats.Nodes),
		attribute.Int("circuit.edges", res.Stats.Edges),
		attribute.Int("circuit.faults", res.Stats.Faults),
		attribute.Bool("cache.hit", hit),
	)
	hooks.OnReduceComplete(ctx, observability.ReduceEvent{
		Nodes:   res.Stats.Nodes,
		Edges:   res.Stats.Edges,
		Faults:  res.Stats.Faults,
		Shorted: res.Stats.Shorted,
		Cached:  hit,
	}, res.Stats.Duration, nil)

	r.Logger.Info("reduced circuit",
		"nodes", res.Stats.Nodes,
		"edges", res.Stats.Edges,
		"faults", res.Stats.Faults,
		"cached", hit,
		"duration", res.Stats.Duration)
	for _, f := range res.Reduction.Faults {
		r.Logger.Warn("excluded link", "link", f.Link, "reason", f.Reason)
	}
	return res, hit, nil
}

func (r *Runner) cachedReduction(ctx context.Context, key string) (*reduce.Result, bool) {
	data, ok := r.lookup(ctx, key)
	if !ok {
		return nil, false
	}
	f, err := io.ReadGraph(bytes.NewReader(data))
	if err == nil {
		var red *reduce.Result
		if red, err = f.Result(); err == nil {
			return red, true
		}
	}
	r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
	return nil, false
}

// lookup reads key from the cache. Cache failures count as misses.
func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

// store writes data to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

func (r *Runner) reduceTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLReduce
}

// classify maps reduction errors onto error codes.
func classify(err error) error {
	var inv *reduce.InvariantError
	switch {
	case errors.Is(err, reduce.ErrNilSnapshot), errors.Is(err, reduce.ErrInvalidSnapshot):
		return apperr.Wrap(apperr.ErrCodeInvalidCircuit, err, "reduce")
	case errors.As(err, &inv):
		return apperr.Wrap(apperr.ErrCodeInternal, err, "reduce")
	}
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relgraph/pkg/assemble"
	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/layout"
	"github.com/matzehuels/relgraph/pkg/observability"
)

// Runner executes pipeline stages against one layout engine.
//
// The engine serializes its own runs, so a Runner may be shared between
// goroutines, but independent graphs are laid out in parallel only with
// one Runner per goroutine.
type Runner struct {
	Engine *layout.Engine
	Logger *log.Logger
}

// NewRunner creates a runner around engine.
// If engine is nil, an engine with [layout.DefaultConfig] is created.
// If logger is nil, logging is discarded.
func NewRunner(engine *layout.Engine, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if engine == nil {
		engine = layout.New(layout.DefaultConfig(), layout.WithLogger(logger))
	}
	return &Runner{
		Engine: engine,
		Logger: logger,
	}
}

// Execute runs assemble → layout → bundle.
func (r *Runner) Execute(ctx context.Context, in assemble.Input, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Assemble
	start := time.Now()
	g, stats := r.Assemble(ctx, in)
	result.Graph = g
	result.Stats.Assembly = stats
	result.Stats.AssembleTime = time.Since(start)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	// Stage 2: Layout
	start = time.Now()
	l := r.positions(ctx, g, opts)
	result.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"fingerprint", l.Fingerprint,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Bundle
	if opts.Bundle && !l.Cancelled {
		start = time.Now()
		r.bundle(ctx, &l, opts.BundleOptions)
		result.Stats.BundleTime = time.Since(start)
		r.Logger.Info("bundled edges",
			"edges", len(l.Bundles),
			"duration", result.Stats.BundleTime)
	}

	result.Layout = l
	result.Cancelled = l.Cancelled
	return result, nil
}

// Assemble builds the relationship graph and reports it to the assemble hooks.
func (r *Runner) Assemble(ctx context.Context, in assemble.Input) (graph.Graph, assemble.Stats) {
	start := time.Now()
	g, stats := assemble.Build(in)
	d := time.Since(start)

	r.Logger.Info("assembled graph",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"ghosts", stats.Ghosts,
		"dropped", stats.Dropped,
		"duration", d)
	observability.Assemble().OnAssembleComplete(ctx, stats.Nodes, stats.Edges, stats.Dropped, d)
	return g, stats
}

// Layout positions g on the canvas described by opts and bundles its edges
// if requested.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, err
	}
	l := r.positions(ctx, g, opts)
	if opts.Bundle && !l.Cancelled {
		r.bundle(ctx, &l, opts.BundleOptions)
	}
	return l, nil
}

// Relayout re-optimizes the neighborhood of changedID in an existing
// layout. The canvas is taken from the layout itself; only the bundling
// fields of opts are used. Bundles of the input are recomputed when
// opts.Bundle is set and dropped otherwise, since they no longer match the
// moved nodes.
func (r *Runner) Relayout(ctx context.Context, l graph.Layout, changedID string, opts Options) (graph.Layout, error) {
	if err := rerrors.ValidateNodeID(changedID); err != nil {
		return graph.Layout{}, err
	}
	g := l.Graph()
	if _, ok := g.Node(changedID); !ok {
		return graph.Layout{}, rerrors.New(rerrors.ErrCodeNodeNotFound, "node %q not in layout", changedID)
	}
	opts.Width, opts.Height = l.Width, l.Height
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, err
	}

	start := time.Now()
	nodes := r.Engine.Incremental(ctx, g, changedID, opts.Bounds())
	out := newLayout(g, nodes, opts)
	out.Cancelled = ctx.Err() != nil
	r.Logger.Info("relaid out neighborhood",
		"changed", changedID,
		"fingerprint", out.Fingerprint,
		"duration", time.Since(start))

	if opts.Bundle && !out.Cancelled {
		r.bundle(ctx, &out, opts.BundleOptions)
	}
	return out, nil
}

// Bundle computes edge bundles for an existing layout and returns a copy
// with Bundles set.
func (r *Runner) Bundle(ctx context.Context, l graph.Layout, opts layout.BundleOptions) (graph.Layout, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, err
	}
	r.bundle(ctx, &l, opts)
	return l, nil
}

func (r *Runner) positions(ctx context.Context, g graph.Graph, opts Options) graph.Layout {
	nodes := r.Engine.Layout(ctx, g, opts.Bounds())
	l := newLayout(g, nodes, opts)
	l.Cancelled = ctx.Err() != nil
	return l
}

func (r *Runner) bundle(ctx context.Context, l *graph.Layout, opts layout.BundleOptions) {
	l.Bundles = r.Engine.Bundle(ctx, l.Nodes, l.Edges, opts)
	if ctx.Err() != nil {
		l.Cancelled = true
	}
}

func newLayout(g graph.Graph, nodes []graph.Node, opts Options) graph.Layout {
	return graph.Layout{
		Width:       opts.Width,
		Height:      opts.Height,
		Nodes:       nodes,
		Edges:       g.Edges,
		Clusters:    g.Clusters,
		Fingerprint: graph.Fingerprint(nodes),
	}
}

package layout

import (
	"context"
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/observability"
)

// Layout modes reported to hooks.
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

// Phase names reported to hooks and logs.
const (
	PhaseSeed     = "seed"
	PhaseStress   = "stress"
	PhaseForce    = "force"
	PhaseCrossing = "crossing"
	PhaseSettle   = "settle"
	PhaseBundle   = "bundle"
)

// Bounds is the canvas a layout is computed for.
type Bounds struct {
	Width  float64
	Height float64
}

// Valid reports whether both sides are finite and positive.
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0 &&
		!math.IsInf(b.Width, 0) && !math.IsInf(b.Height, 0)
}

// Center returns the canvas center.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}

func (b Bounds) minSide() float64 {
	return math.Min(b.Width, b.Height)
}

// =============================================================================
// Engine
// =============================================================================

// Engine computes node positions for relationship graphs.
//
// An Engine serializes its own runs: concurrent calls on one Engine wait
// for each other. Inputs are copied at call time, so callers may reuse or
// mutate their graph while a run is in flight. Use one Engine per goroutine
// to lay out independent graphs in parallel.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for phase timings and warnings.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine with the given configuration.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Layout runs the full four-phase pipeline and returns the positioned nodes
// in input order.
//
// Pinned nodes keep their positions throughout. An empty graph or invalid
// bounds return the input unchanged. If ctx is cancelled the partially
// updated nodes are returned; every returned position is valid.
func (e *Engine) Layout(ctx context.Context, g graph.Graph, bounds Bounds) []graph.Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := copyNodes(g.Nodes)
	if len(nodes) == 0 {
		return nodes
	}
	if !bounds.Valid() {
		e.logger.Warn("invalid bounds, skipping layout", "width", bounds.Width, "height", bounds.Height)
		return nodes
	}

	start := time.Now()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, ModeFull, len(nodes))

	s := newState(&e.cfg, bounds, nodes, g.Edges)
	cancelled := e.runPhases(ctx, []phase{
		{PhaseSeed, func(context.Context) (int, bool) {
			s.seed(g.Clusters)
			return 1, true
		}},
		{PhaseStress, s.stress},
		{PhaseForce, func(ctx context.Context) (int, bool) {
			return s.force(ctx, e.cfg.Force.Iterations)
		}},
		{PhaseCrossing, s.crossing},
		{PhaseSettle, func(context.Context) (int, bool) {
			return s.settle(), true
		}},
	})

	out := s.result()
	d := time.Since(start)
	if cancelled {
		e.logger.Warn("layout cancelled, returning partial positions", "nodes", len(out), "duration", d)
	} else {
		e.logger.Debug("layout complete", "nodes", len(out), "edges", len(s.pairs), "duration", d)
	}
	hooks.OnLayoutComplete(ctx, ModeFull, d, cancelled)
	return out
}

// Incremental re-optimizes the neighborhood of changedID and returns all
// nodes in input order.
//
// The changed node and its 1-hop neighbors form the hot set; every other
// node is pinned for the duration of the call. Nodes that were pinned on
// entry stay pinned even inside the hot set, and every node leaves with
// the pinned flag it came in with. An unknown changedID returns the input
// unchanged.
func (e *Engine) Incremental(ctx context.Context, g graph.Graph, changedID string, bounds Bounds) []graph.Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := copyNodes(g.Nodes)
	if len(nodes) == 0 || !bounds.Valid() {
		return nodes
	}

	s := newState(&e.cfg, bounds, nodes, g.Edges)
	changed, ok := s.index[changedID]
	if !ok {
		e.logger.Warn("changed node not found, skipping incremental layout", "id", changedID)
		return nodes
	}

	start := time.Now()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, ModeIncremental, len(nodes))

	hot := s.hotSet(changed)
	for i := range s.pinned {
		if !hot[i] {
			s.pinned[i] = true
		}
	}
	for i := range hot {
		if !s.pinned[i] {
			s.vel[i] = r2.Vec{}
		}
	}
	s.placeNew(changed)

	cancelled := e.runPhases(ctx, []phase{
		{PhaseForce, func(ctx context.Context) (int, bool) {
			return s.force(ctx, e.cfg.Incremental.Iterations)
		}},
	})

	out := s.result()
	d := time.Since(start)
	e.logger.Debug("incremental layout complete", "changed", changedID, "hot", len(hot), "duration", d, "cancelled", cancelled)
	hooks.OnLayoutComplete(ctx, ModeIncremental, d, cancelled)
	return out
}

// =============================================================================
// Phase Runner
// =============================================================================

// phase is one step of a layout run. run returns the number of iterations
// performed and false if it stopped early because ctx was cancelled.
type phase struct {
	name string
	run  func(ctx context.Context) (int, bool)
}

// runPhases executes phases in order, checking ctx between them. It reports
// whether the run was cancelled.
func (e *Engine) runPhases(ctx context.Context, phases []phase) bool {
	hooks := observability.Layout()
	for _, p := range phases {
		if ctx.Err() != nil {
			return true
		}
		start := time.Now()
		n, ok := p.run(ctx)
		d := time.Since(start)
		e.logger.Debug("phase complete", "phase", p.name, "iterations", n, "duration", d)
		hooks.OnPhaseComplete(ctx, p.name, n, d)
		if !ok {
			return true
		}
	}
	return false
}

// checkpoint yields to the scheduler after every `every` iterations and
// reports whether the loop may continue.
func checkpoint(ctx context.Context, i, every int) bool {
	if every <= 0 || (i+1)%every != 0 {
		return true
	}
	runtime.Gosched()
	return ctx.Err() == nil
}

func copyNodes(nodes []graph.Node) []graph.Node {
	out := make([]graph.Node, len(nodes))
	copy(out, nodes)
	return out
}

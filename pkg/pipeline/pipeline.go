// Package pipeline runs relgraph end to end: assemble → layout → bundle.
//
// This package is the single entry point the CLI uses to turn signal
// bundles into positioned graphs. Each stage can be run on its own or as
// part of [Runner.Execute].
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Assemble: Merge relationship signals into a weighted graph
//  2. Layout: Compute node positions with the layout engine
//  3. Bundle: Optionally compute curved-edge control points
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    Width:  1200,
//	    Height: 900,
//	    Bundle: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = graph.WriteLayoutFile(result.Layout, "out.layout.json")
//
// Run individual stages:
//
//	g, stats := runner.Assemble(ctx, input)
//	l, err := runner.Layout(ctx, g, opts)
//	l, err = runner.Relayout(ctx, l, "person-42", opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/relgraph/pkg/assemble"
	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in layout units.
	DefaultWidth = 1000.0

	// DefaultHeight is the default canvas height in layout units.
	DefaultHeight = 800.0
)

// =============================================================================
// Options - Per-Run Settings
// =============================================================================

// Options holds per-run settings. Engine tunables live in [layout.Config]
// and are fixed when the Runner is created.
type Options struct {
	Width  float64
	Height float64

	// Bundle enables force-directed edge bundling after layout.
	Bundle        bool
	BundleOptions layout.BundleOptions
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.BundleOptions == (layout.BundleOptions{}) {
		o.BundleOptions = layout.DefaultBundleOptions()
	}
}

// Validate applies defaults and checks the canvas and bundling options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := rerrors.ValidateBounds(o.Width, o.Height); err != nil {
		return err
	}
	if o.Bundle {
		return o.BundleOptions.Validate()
	}
	return nil
}

// Bounds returns the canvas as layout bounds.
func (o *Options) Bounds() layout.Bounds {
	return layout.Bounds{Width: o.Width, Height: o.Height}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the assembled relationship graph before layout.
	Graph graph.Graph

	// Layout is the positioned graph, with bundles if requested.
	Layout graph.Layout

	// Stats contains sizes and timings.
	Stats Stats

	// Cancelled is set when ctx was cancelled during layout or bundling.
	// Layout then holds the partial positions reached so far.
	Cancelled bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int
	EdgeCount int

	// Assembly holds the assembler's own counters.
	Assembly assemble.Stats

	AssembleTime time.Duration
	LayoutTime   time.Duration
	BundleTime   time.Duration
}

// Package layout computes 2D positions for relationship graphs.
//
// An [Engine] runs a four-phase pipeline over a [graph.Graph] and a canvas
// size:
//
//  1. Seed: deterministic placement. Business-context clusters sit on a
//     ring around the canvas center; unclustered nodes follow a
//     golden-angle spiral. No randomness anywhere, so identical input
//     always yields identical output.
//  2. Stress: stress majorization over breadth-first hop distances, so
//     Euclidean distance approximates graph distance.
//  3. Force: force-directed refinement (repulsion, Hooke attraction,
//     gravity, damping) under a cooling temperature, with a hard minimum
//     spacing between nodes. Above BarnesHutThreshold nodes, repulsion is
//     approximated with a Barnes–Hut quadtree.
//  4. Crossing: PrEd-style nudging of nodes away from edges they do not
//     belong to.
//
// [Engine.Incremental] re-runs only the force phase on the neighborhood of
// a changed node, and [Engine.Bundle] computes curved-edge control points.
//
// # Cancellation
//
// The engine checks its context between phases and at a fixed cadence
// inside every loop (see [StressConfig], [ForceConfig], [CrossingConfig]),
// yielding to the Go scheduler at the same points. A cancelled run returns
// the positions reached so far; they are always valid, just less refined.
// There is no error path.
//
// # Tuning
//
// Every physics constant lives in [Config]. [DefaultConfig] matches a
// canvas of about 1000×800 units.
//
//	eng := layout.New(layout.DefaultConfig(), layout.WithLogger(logger))
//	nodes := eng.Layout(ctx, g, layout.Bounds{Width: 1200, Height: 800})
package layout

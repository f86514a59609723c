// Package cli implements the relgraph command-line interface.
//
// This package provides commands for assembling relationship graphs from
// signal bundles, laying them out, re-laying out a changed neighborhood and
// bundling edges. The CLI is built using cobra and logs through the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - assemble: Build a graph.json from a signals.json bundle
//   - layout: Compute node positions for one or more graphs
//   - relayout: Re-optimize the neighborhood of one changed node
//   - bundle: Add bundled edge polylines to a layout
//   - config: Print or initialize the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes per-phase engine timings. Without it the level comes from the
// [log] table of the configuration file.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Laid out team.json (412ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// labelKey is the context key for the input a layout run belongs to.
const labelKey ctxKey = 0

// withLabel tags ctx with the name of the input being processed so hook
// events from concurrent runs can be told apart.
func withLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, labelKey, label)
}

// labelFromContext returns the label attached by withLabel, or "".
func labelFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(labelKey).(string); ok {
		return l
	}
	return ""
}

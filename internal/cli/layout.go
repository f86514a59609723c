package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning graphs.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		jobs     int
		progress bool
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json...]",
		Short: "Compute node positions for relationship graphs",
		Long: `Compute node positions for relationship graphs.

The layout command takes one or more graph.json files (produced by 'assemble')
and runs the layout engine on each: deterministic seeding, stress
majorization, force-directed refinement and edge-crossing reduction. Each
result is written next to its input as <name>.layout.json.

Several inputs are laid out concurrently, each with its own engine; -j
bounds how many run at once. Nodes marked "pinned" keep their positions.

An interrupted run writes no layout file for inputs that did not finish.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return rerrors.New(rerrors.ErrCodeInvalidInput, "--output needs exactly one input, got %d", len(args))
			}
			return c.runLayout(cmd.Context(), args, output, jobs, progress, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of graphs laid out concurrently")
	cmd.Flags().BoolVar(&progress, "progress", false, "show live phase progress")
	flags.register(cmd)

	return cmd
}

// layoutJob is one input of a layout run.
type layoutJob struct {
	input  string
	output string
	label  string
	result graph.Layout
	nodes  int
	edges  int
}

// runLayout lays out every input and writes the results.
func (c *CLI) runLayout(ctx context.Context, inputs []string, output string, jobs int, progress bool, flags layoutFlags) error {
	opts := c.options(flags)
	if err := opts.Validate(); err != nil {
		return err
	}

	work := make([]*layoutJob, len(inputs))
	labels := make([]string, len(inputs))
	for i, in := range inputs {
		if err := rerrors.ValidatePath(in); err != nil {
			return err
		}
		out := output
		if out == "" {
			out = derivedPath(in, layoutSuffix)
		}
		work[i] = &layoutJob{input: in, output: out, label: in}
		labels[i] = in
	}

	var view *progressView
	if progress {
		view = startProgress(ctx, os.Stderr, labels)
	}

	p := newProgress(c.Logger)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))
	for _, job := range work {
		g.Go(func() error {
			return c.layoutOne(withLabel(gctx, job.label), job, opts)
		})
	}
	err := g.Wait()

	if view != nil {
		view.stop()
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.done(fmt.Sprintf("Laid out %d graph(s)", len(work)))

	for _, job := range work {
		printSuccess("Layout complete: %s", filepath.Base(job.input))
		printFile(job.output)
		printStats(stat{"nodes", job.nodes}, stat{"edges", job.edges})
		printDetail("fingerprint %s", job.result.Fingerprint)
	}
	if len(work) == 1 && !opts.Bundle {
		printNewline()
		printNextStep("Bundle edges", appName+" bundle "+work[0].output)
	}
	return nil
}

// layoutOne lays out a single input with its own runner and engine.
func (c *CLI) layoutOne(ctx context.Context, job *layoutJob, opts pipeline.Options) error {
	g, err := graph.ReadGraphFile(job.input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", job.input, err)
	}

	logger := c.Logger.With("file", filepath.Base(job.input))
	l, err := c.newRunner(logger).Layout(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("layout %s: %w", job.input, err)
	}
	if l.Cancelled {
		return ctx.Err()
	}

	if err := graph.WriteLayoutFile(l, job.output); err != nil {
		return fmt.Errorf("write output %s: %w", job.output, err)
	}
	job.result = l
	job.nodes, job.edges = len(l.Nodes), len(l.Edges)
	return nil
}

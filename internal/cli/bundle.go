package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
)

// bundleCommand creates the bundle command for curved-edge control points.
func (c *CLI) bundleCommand() *cobra.Command {
	var (
		output     string
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "bundle [layout.json]",
		Short: "Add bundled edge polylines to a layout",
		Long: `Add bundled edge polylines to a layout.

Edges that run in similar directions are pulled together into bundles by
force-directed edge bundling. Node positions are not changed. The result is
stored in the "bundles" field of the layout file, keyed by edge ID.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBundle(cmd.Context(), args[0], output, iterations)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "bundling iterations (default from config)")

	return cmd
}

func (c *CLI) runBundle(ctx context.Context, input, output string, iterations int) error {
	if err := rerrors.ValidatePath(input); err != nil {
		return err
	}
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts := c.config().Bundle
	if iterations != 0 {
		opts.Iterations = iterations
	}
	out, err := c.newRunner(nil).Bundle(ctx, l, opts)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = input
	}
	if err := graph.WriteLayoutFile(out, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Edges bundled")
	printFile(output)
	printStats(stat{"edges", len(out.Bundles)}, stat{"control points each", opts.Subdivisions + 1})
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
)

// relayoutCommand creates the relayout command for incremental updates.
func (c *CLI) relayoutCommand() *cobra.Command {
	var (
		output  string
		changed string
		bundle  bool
	)

	cmd := &cobra.Command{
		Use:   "relayout [layout.json]",
		Short: "Re-optimize the neighborhood of a changed node",
		Long: `Re-optimize the neighborhood of a changed node.

Only the changed node and its direct neighbors move; every other node keeps
its position. A changed node that was never placed is put next to its
neighbors first. The layout file is updated in place unless --output is
given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRelayout(cmd.Context(), args[0], changed, output, bundle)
		},
	}

	cmd.Flags().StringVar(&changed, "changed", "", "ID of the changed node (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&bundle, "bundle", false, "recompute edge bundles")
	_ = cmd.MarkFlagRequired("changed")

	return cmd
}

func (c *CLI) runRelayout(ctx context.Context, input, changed, output string, bundle bool) error {
	if err := rerrors.ValidatePath(input); err != nil {
		return err
	}
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts := c.options(layoutFlags{bundle: bundle})
	out, err := c.newRunner(nil).Relayout(ctx, l, changed, opts)
	if err != nil {
		return err
	}
	if out.Cancelled {
		return ctx.Err()
	}

	if output == "" {
		output = input
	}
	if err := graph.WriteLayoutFile(out, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Relayout complete around %s", changed)
	printFile(output)
	g := out.Graph()
	printStats(stat{"neighbors", len(g.Neighbors(changed))})
	printDetail("fingerprint %s → %s", l.Fingerprint, out.Fingerprint)
	return nil
}

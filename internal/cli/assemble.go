package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relgraph/pkg/assemble"
	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
)

// assembleCommand creates the assemble command for building graphs from signals.
func (c *CLI) assembleCommand() *cobra.Command {
	var (
		output   string
		doLayout bool
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "assemble [signals.json]",
		Short: "Build a relationship graph from a signal bundle",
		Long: `Build a relationship graph from a signal bundle.

The input is a JSON object with one array per signal collection (people,
contexts, referrals, recruits, co_attendance, communications, co_mentions,
ghost_mentions, family, roles). Links that reference unknown people are
skipped; people mentioned by name only become ghost nodes.

The output is a graph.json file that the 'layout' command positions. With
--layout the graph is laid out right away and a layout.json is written too.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssemble(cmd.Context(), args[0], output, doLayout, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&doLayout, "layout", false, "also compute the layout")
	flags.register(cmd)

	return cmd
}

// runAssemble reads the signal bundle, assembles it and writes the graph.
func (c *CLI) runAssemble(ctx context.Context, input, output string, doLayout bool, flags layoutFlags) error {
	if err := rerrors.ValidatePath(input); err != nil {
		return err
	}
	in, err := assemble.ReadInputFile(input)
	if err != nil {
		return fmt.Errorf("load signals %s: %w", input, err)
	}

	if output == "" {
		output = derivedPath(input, graphSuffix)
	}
	runner := c.newRunner(nil)

	if !doLayout {
		g, stats := runner.Assemble(ctx, in)
		if err := graph.WriteGraphFile(g, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printAssembled(output, stats)
		printNewline()
		printNextStep("Lay out", appName+" layout "+output)
		return nil
	}

	res, err := runner.Execute(ctx, in, c.options(flags))
	if err != nil {
		return err
	}
	if res.Cancelled {
		return ctx.Err()
	}
	if err := graph.WriteGraphFile(res.Graph, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	layoutPath := derivedPath(input, layoutSuffix)
	if err := graph.WriteLayoutFile(res.Layout, layoutPath); err != nil {
		return fmt.Errorf("write output %s: %w", layoutPath, err)
	}

	printAssembled(output, res.Stats.Assembly)
	printSuccess("Layout complete")
	printFile(layoutPath)
	printDetail("fingerprint %s", res.Layout.Fingerprint)
	return nil
}

func printAssembled(path string, stats assemble.Stats) {
	printSuccess("Graph assembled")
	printFile(path)
	printStats(
		stat{"nodes", stats.Nodes},
		stat{"edges", stats.Edges},
		stat{"clusters", stats.Clusters},
		stat{"ghosts", stats.Ghosts},
		stat{"orphaned", stats.Orphaned},
	)
	if stats.Dropped > 0 {
		printWarning("%d links skipped (unknown or duplicate people)", stats.Dropped)
	}
	if stats.Edges > 0 {
		printEdgeTable(stats.ByType)
	}
}

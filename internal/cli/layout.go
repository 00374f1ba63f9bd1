package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output         string
		noCache        bool
		refresh        bool
		resetPositions bool
		gf             graphFlags
		lf             layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [root]",
		Short: "Compute node positions for a document tree",
		Long: `Compute node positions for a document tree.

Three engines are available:
  force         spring simulation; positions persist between runs
  hierarchical  layered layout following link direction
  radial        mind map around one center document

The output is the layout JSON (same format as 'render -f json').
Hierarchical and radial results are cached; force layouts resume from
their saved positions unless --reset-positions is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, &lf)
			opts.Refresh = refresh
			opts.ResetPositions = resetPositions
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&resetPositions, "reset-positions", false, "discard saved force positions")
	gf.register(cmd)
	lf.register(cmd)

	return cmd
}

// runLayout builds the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := c.buildWithSpinner(ctx, runner, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Engine))
	spinner.Start()

	start := time.Now()
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.Fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := pipeline.MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(statsOfLayout(l.Nodes, l.Edges), time.Since(start), cacheHit)
	printNewline()
	printNextStep("Render", "docgraph render -e "+opts.Engine+" "+opts.RootPath)

	return nil
}

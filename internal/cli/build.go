package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// buildCommand creates the build command for scanning a document tree.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output string
		gf     graphFlags
	)

	cmd := &cobra.Command{
		Use:   "build [root]",
		Short: "Scan a folder of Markdown documents and write its link graph",
		Long: `Scan a folder of Markdown documents and write its link graph.

Every .md and .markdown file under root becomes a node. Wiki links
([[note]]) and relative Markdown links become internal edges; links to
other sites are grouped by domain into external nodes. Hidden directories
and common build folders (node_modules, vendor, ...) are skipped.

The result is written as graph.json, which 'layout' and 'render' accept
in place of a root folder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, nil)
			return c.runBuild(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	gf.register(cmd)

	return cmd
}

// runBuild scans the tree and writes the graph file.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := c.buildWithSpinner(ctx, runner, opts)
	if err != nil {
		return err
	}

	if err := graph.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Graph built")
	printFile(output)
	printStats(statsOfGraph(g), g.Duration, false)
	if g.HasMore {
		printDetail("Loaded %d of %d documents; use --offset %d for the next page",
			g.LoadedDocuments, g.TotalDocuments, opts.Offset+g.LoadedDocuments)
	}
	printNewline()
	printNextStep("Render", "docgraph render "+opts.RootPath)

	return nil
}

// buildWithSpinner runs a build while reporting scan and parse progress.
func (c *CLI) buildWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*graph.Graph, error) {
	spinner := newSpinner(ctx, "Scanning "+opts.RootPath+"...")
	opts.OnProgress = spinner.Report
	spinner.Start()

	g, err := runner.Build(ctx, opts)
	if err != nil {
		spinner.Fail("Build failed")
		return nil, fmt.Errorf("build graph: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return g, nil
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/radial"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// exploreCommand creates the interactive mind-map explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		gf graphFlags
		lf layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [root]",
		Short: "Browse the document graph as an interactive mind map",
		Long: `Browse the document graph as an interactive mind map.

The center document sits in the middle; documents one link away form the
first columns to its left and right, and so on out to --depth. Move with
the arrow keys (or hjkl), press enter twice on a document to make it the
new center, and backspace to go back. Press o (or click the ↗ marker) to
quit and print the document's path, for example:

  $EDITOR "$(docgraph explore ~/notes)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, &lf)
			opts.Engine = layout.EngineRadial
			return c.runExplore(cmd.Context(), opts)
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVar(&lf.center, "center", "", "center document (default: index.md or README.md)")
	cmd.Flags().IntVar(&lf.depth, "depth", 0, "maximum link distance from the center")

	return cmd
}

// runExplore builds the graph and runs the explorer until the user quits.
func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := c.buildWithSpinner(ctx, runner, opts)
	if err != nil {
		return err
	}
	if len(g.Nodes) == 0 {
		printWarning("No documents found in %s", opts.RootPath)
		return nil
	}

	center := opts.Center
	if center == "" {
		center = pipeline.DefaultCenter(g)
	}
	model := NewExploreModel(opts.RootPath, g, radial.Options{
		Center:       center,
		MaxDepth:     opts.MaxDepth,
		ShowExternal: opts.IncludeExternal,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("explorer: %w", err)
	}
	if m, ok := final.(ExploreModel); ok && m.Opened != "" {
		fmt.Println(m.Opened)
	}
	return nil
}

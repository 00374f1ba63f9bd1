package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/watch"
)

// watchCommand creates the watch command, which re-renders on change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		gf         graphFlags
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-render the document graph whenever documents change",
		Long: `Re-render the document graph whenever documents change.

Renders once on start, then watches root and every directory below it.
Changes are batched until the tree has been quiet for half a second.
Force layouts resume from the previous run's positions, so the map only
moves where documents were added or removed. Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, &lf)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			return c.runWatch(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show word counts, sizes and link counts in node labels")
	gf.register(cmd)
	lf.register(cmd)

	return cmd
}

// runWatch renders once, then again after every batch of changes.
func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	paths := outputPaths(output, opts.RootPath, opts.Formats)
	rerender := func(ctx context.Context) error {
		prog := newProgress(c.Logger)
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		written, err := writeArtifacts(result.Artifacts, paths)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %d documents to %s", result.Graph.LoadedDocuments, strings.Join(written, ", ")))
		return nil
	}

	if err := rerender(ctx); err != nil {
		return err
	}

	w := watch.New(opts.RootPath, func(ctx context.Context, changed []string) {
		c.Logger.Info("documents changed", "count", len(changed), "paths", changed)
		if err := rerender(ctx); err != nil {
			c.Logger.Error("re-render failed", "err", err)
		}
	}, c.Logger)

	printInfo("Watching %s (Ctrl-C to stop)", opts.RootPath)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

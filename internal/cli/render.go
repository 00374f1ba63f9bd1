package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		detailed   bool
		gf         graphFlags
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [root]",
		Short: "Render the document graph to SVG, PNG, PDF, DOT or JSON",
		Long: `Render the document graph to SVG, PNG, PDF, DOT or JSON.

The graph is built from root, laid out with the chosen engine and drawn
by Graphviz at the computed positions. PNG and PDF output require
rsvg-convert (librsvg) on PATH.

With a single format, --output names the file. With several formats it
is the base path and each format gets its own extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, &lf)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show word counts, sizes and link counts in node labels")
	gf.register(cmd)
	lf.register(cmd)

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.RootPath))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Fail("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, opts.RootPath, opts.Formats)
	written, err := writeArtifacts(result.Artifacts, paths)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s layout", result.Layout.Engine)
	for _, p := range written {
		printFile(p)
	}
	stats := result.Stats
	printStats(statsOfLayout(result.Layout.Nodes, result.Layout.Edges),
		stats.BuildTime+stats.LayoutTime+stats.RenderTime,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if result.Graph.HasMore {
		printWarning("Only %d of %d documents loaded", result.Graph.LoadedDocuments, result.Graph.TotalDocuments)
	}

	return nil
}

// writeArtifacts writes each artifact to its path and returns the written
// paths in sorted order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) ([]string, error) {
	var written []string
	for format, data := range artifacts {
		path, ok := paths[format]
		if !ok {
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}
	sort.Strings(written)
	return written, nil
}

// outputPaths maps each format to its output file.
func outputPaths(output, root string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, root)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. An empty output uses the name of
// the root directory. A known format extension on output is stripped.
func basePath(output, root string) string {
	if output == "" {
		name := filepath.Base(root)
		if abs, err := filepath.Abs(root); err == nil {
			name = filepath.Base(abs)
		}
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = appName
		}
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

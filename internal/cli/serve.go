package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/server"
	"github.com/matzehuels/docgraph/pkg/watch"
)

// serveCommand creates the serve command exposing the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watchFS bool
		noCache bool
		gf      graphFlags
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Serve the document graph and its layouts over HTTP",
		Long: `Serve the document graph and its layouts over HTTP.

Endpoints:
  GET    /healthz
  GET    /api/graph?max_nodes=&offset=&external=
  GET    /api/layout/{force|hierarchical|radial}?center=&max_depth=&format=
  GET    /api/positions/{key}
  PUT    /api/positions/{key}
  DELETE /api/positions/{key}

With --watch the graph is rebuilt after documents change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, rootArg(args), &gf, &lf)
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), opts, addr, watchFS, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&watchFS, "watch", false, "rebuild the graph when documents change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	gf.register(cmd)
	lf.register(cmd)

	return cmd
}

// runServe starts the server and, optionally, a watcher that invalidates it.
func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, watchFS, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, opts, c.Logger)

	if watchFS {
		w := watch.New(opts.RootPath, func(_ context.Context, changed []string) {
			c.Logger.Info("documents changed, rebuilding on next request", "count", len(changed))
			srv.Invalidate()
		}, c.Logger)
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.Logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	printSuccess("Serving %s", opts.RootPath)
	printKeyValue("Address", "http://"+addr)
	printNewline()
	printNextStep("Try", "curl http://"+addr+"/api/layout/radial?format=svg")

	return srv.ListenAndServe(ctx, addr)
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/buildinfo"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/config"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "docgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "docgraph maps the links between your Markdown notes",
		Long: `docgraph scans a folder of Markdown documents, builds the graph of links
between them (and out to external sites), and lays it out as a force-directed
map, a layered hierarchy, or a mind map centered on one document.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/docgraph/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// loadConfig reads the config file and registers debug hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Backend == config.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	runner := pipeline.NewRunner(cch, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:  c.Config.Cache.RedisAddr,
			Retry: cache.Backoff{Attempts: c.Config.Cache.RedisAttempts},
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/docgraph/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// graphFlags are the build flags shared by every command that scans a tree.
type graphFlags struct {
	external bool
	maxNodes int
	offset   int
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.external, "external", false, "include external-link nodes (default from config)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "parse at most this many documents (0 = all)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "index of the first document to parse (with --max-nodes)")
}

// layoutFlags are the engine flags shared by layout, render, explore and serve.
type layoutFlags struct {
	engine  string
	center  string
	depth   int
	rankDir string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", "layout engine: force, hierarchical, radial (default from config)")
	cmd.Flags().StringVar(&f.center, "center", "", "center document for the radial engine (default: index.md or README.md)")
	cmd.Flags().IntVar(&f.depth, "depth", 0, "maximum link distance from the center (radial)")
	cmd.Flags().StringVar(&f.rankDir, "rank-dir", "", "rank direction for the hierarchical engine: TB or LR")
}

// pipelineOptions merges config values with flags; set flags win.
func (c *CLI) pipelineOptions(cmd *cobra.Command, root string, g *graphFlags, l *layoutFlags) pipeline.Options {
	cfg := c.Config
	opts := pipeline.Options{
		RootPath:        root,
		IncludeExternal: cfg.IncludeExternal(),
		MaxNodes:        cfg.Build.MaxNodes,
		Engine:          cfg.Layout.Engine,
		MaxDepth:        cfg.Layout.MaxDepth,
		RankDir:         cfg.Layout.RankDir,
		Logger:          c.Logger,
	}
	if g != nil {
		if cmd.Flags().Changed("external") {
			opts.IncludeExternal = g.external
		}
		if cmd.Flags().Changed("max-nodes") {
			opts.MaxNodes = g.maxNodes
		}
		opts.Offset = g.offset
	}
	if l != nil {
		if l.engine != "" {
			opts.Engine = l.engine
		}
		if l.depth > 0 {
			opts.MaxDepth = l.depth
		}
		if l.rankDir != "" {
			opts.RankDir = l.rankDir
		}
		opts.Center = l.center
	}
	return opts
}

// rootArg returns the document root argument, defaulting to the working
// directory.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

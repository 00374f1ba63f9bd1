package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/config"
)

// cacheCommand groups commands acting on the configured layout cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and rendered artifacts",
		Long: `Manage cached layouts and rendered artifacts.

Radial and hierarchical layouts, and everything rendered from them, are
cached by graph content, so editing a document invalidates its entries on
the next run. Force layouts are never cached; their node positions live in
memory for the lifetime of 'explore' or 'serve'.

The backend is chosen by [cache] backend in the config file: file (default),
redis, or none.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand empties whichever backend is configured.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, where, err := c.clearCache(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
			} else {
				printSuccess("Cleared %d cached entries", n)
			}
			if where != "" {
				printDetail("%s", where)
			}
			return nil
		},
	}
}

// clearCache removes this application's entries from the configured backend
// and describes where they lived.
func (c *CLI) clearCache(ctx context.Context) (int, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return 0, "Caching is disabled", nil

	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:  c.Config.Cache.RedisAddr,
			Retry: cache.Backoff{Attempts: c.Config.Cache.RedisAttempts},
		})
		if err != nil {
			return 0, "", fmt.Errorf("connect to cache: %w", err)
		}
		defer rc.Close()
		n, err := rc.DeletePrefix(ctx, appName+":")
		if err != nil {
			return n, "", fmt.Errorf("clear redis cache: %w", err)
		}
		return n, "Redis: " + c.Config.Cache.RedisAddr, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		return 0, "", fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, "", err
	}
	n, err := fc.Clear(ctx)
	if err != nil {
		return n, "", fmt.Errorf("clear %s: %w", dir, err)
	}
	return n, "Directory: " + dir, nil
}

// cachePathCommand prints where the configured backend keeps its entries.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached entries are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation is the file cache directory, a redis URL with the key
// prefix, or "none".
func (c *CLI) cacheLocation() (string, error) {
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return config.BackendNone, nil
	case config.BackendRedis:
		return "redis://" + c.Config.Cache.RedisAddr + "/" + appName + ":*", nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

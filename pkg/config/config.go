// Package config loads docgraph settings from a TOML file.
//
// Lookup order: an explicit path (the --config flag), then
// $XDG_CONFIG_HOME/docgraph/config.toml (falling back to ~/.config), then
// built-in defaults. Command-line flags override whatever is loaded.
//
//	[build]
//	include_external = true
//	max_nodes = 500
//
//	[layout]
//	engine = "radial"
//	max_depth = 3
//	rank_dir = "LR"
//	show_external = true
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = "127.0.0.1:8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/radial"
)

const appName = "docgraph"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults.
const (
	DefaultEngine   = layout.EngineForce
	DefaultMaxDepth = 2
	DefaultRankDir  = "TB"
	DefaultBackend  = BackendFile
	DefaultTTL      = 7 * 24 * time.Hour
	DefaultAddr     = "127.0.0.1:8080"
)

// Config is the full settings file.
type Config struct {
	Build  Build  `toml:"build"`
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Build controls graph construction.
type Build struct {
	IncludeExternal bool `toml:"include_external"`
	MaxNodes        int  `toml:"max_nodes"`
}

// Layout controls the default engine and its options.
type Layout struct {
	Engine       string `toml:"engine"`
	MaxDepth     int    `toml:"max_depth"`
	RankDir      string `toml:"rank_dir"`
	ShowExternal bool   `toml:"show_external"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`

	// RedisAttempts bounds tries per redis call. Zero means the cache
	// package default.
	RedisAttempts int `toml:"redis_attempts"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: Layout{Engine: DefaultEngine, MaxDepth: DefaultMaxDepth, RankDir: DefaultRankDir},
		Cache:  Cache{Backend: DefaultBackend, TTL: DefaultTTL},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docgraph/config.toml, or the
// ~/.config equivalent.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Load reads the config at path. An empty path tries [DefaultPath] and
// quietly returns defaults when no file is there; an explicit path must
// exist. Keys not in the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and fills zero fields with defaults.
func (c *Config) Validate() error {
	if c.Build.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "build.max_nodes must not be negative")
	}

	if c.Layout.Engine == "" {
		c.Layout.Engine = DefaultEngine
	}
	c.Layout.Engine = strings.ToLower(c.Layout.Engine)
	if !slices.Contains(layout.Engines, c.Layout.Engine) {
		return errors.New(errors.ErrCodeInvalidEngine, "layout.engine %q is not one of %s",
			c.Layout.Engine, strings.Join(layout.Engines, ", "))
	}
	if c.Layout.MaxDepth <= 0 {
		c.Layout.MaxDepth = DefaultMaxDepth
	}
	if c.Layout.MaxDepth > radial.DepthLimit {
		return errors.New(errors.ErrCodeInvalidInput, "layout.max_depth must be at most %d", radial.DepthLimit)
	}
	if c.Layout.RankDir == "" {
		c.Layout.RankDir = DefaultRankDir
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = DefaultBackend
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q is not one of file, redis, none", c.Cache.Backend)
	}
	if c.Cache.RedisAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_attempts must not be negative")
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultTTL
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	return nil
}

// IncludeExternal reports whether external-link nodes should be built and
// laid out. Either section may turn them on.
func (c Config) IncludeExternal() bool {
	return c.Build.IncludeExternal || c.Layout.ShowExternal
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name      string
		xdg       string
		configDir string
		want      string
	}{
		{"home default", "", "", filepath.Join(home, ".cache", appName)},
		{"xdg cache home", "/tmp/xdg-cache", "", filepath.Join("/tmp/xdg-cache", appName)},
		{"config wins", "/tmp/xdg-cache", "/srv/docgraph-cache", "/srv/docgraph-cache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			c := newTestCLI(t)
			c.Config.Cache.Dir = tt.configDir

			got, err := c.cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    string
	}{
		{"file", config.BackendFile, "/var/cache/notes"},
		{"redis", config.BackendRedis, "redis://cache.local:6379/docgraph:*"},
		{"none", config.BackendNone, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			c.Config.Cache = config.Cache{Backend: tt.backend, Dir: "/var/cache/notes", RedisAddr: "cache.local:6379"}

			got, err := c.cacheLocation()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePathPrintsLocation(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Dir = "/var/cache/notes"

	var out bytes.Buffer
	cmd := c.cachePathCommand()
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "/var/cache/notes" {
		t.Errorf("cache path printed %q", got)
	}
}

func TestClearCacheCountsLayoutEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewDefaultKeyer()
	for _, engine := range []string{"radial", "hierarchical"} {
		key := keyer.LayoutKey("graph-hash", cache.LayoutKeyOpts{Engine: engine})
		if err := fc.Set(ctx, key, []byte(`{}`), 0); err != nil {
			t.Fatal(err)
		}
	}

	c := newTestCLI(t)
	c.Config.Cache.Dir = dir

	n, where, err := c.clearCache(ctx)
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d entries, want 2", n)
	}
	if where != "Directory: "+dir {
		t.Errorf("where = %q", where)
	}
	if _, hit, _ := fc.Get(ctx, keyer.LayoutKey("graph-hash", cache.LayoutKeyOpts{Engine: "radial"})); hit {
		t.Error("radial layout still cached after clear")
	}
}

func TestClearCacheDisabled(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	n, where, err := c.clearCache(context.Background())
	if err != nil || n != 0 || where != "Caching is disabled" {
		t.Errorf("clearCache() = %d, %q, %v", n, where, err)
	}
}

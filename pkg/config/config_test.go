package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docgraph/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[build]
include_external = true
max_nodes = 50

[layout]
engine = "Radial"
max_depth = 3

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_attempts = 5
ttl = "24h"

[server]
addr = ":9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Build.IncludeExternal)
	assert.Equal(t, 50, cfg.Build.MaxNodes)
	assert.Equal(t, "radial", cfg.Layout.Engine)
	assert.Equal(t, 3, cfg.Layout.MaxDepth)
	assert.Equal(t, DefaultRankDir, cfg.Layout.RankDir)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Cache.RedisAttempts)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.IncludeExternal())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[layout]\nrank_dir = \"LR\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "LR", cfg.Layout.RankDir)
	assert.Equal(t, DefaultEngine, cfg.Layout.Engine)
	assert.Equal(t, DefaultBackend, cfg.Cache.Backend)
	assert.Equal(t, DefaultTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.False(t, cfg.IncludeExternal())
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultPathPresent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docgraph"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docgraph", "config.toml"), []byte("[server]\naddr = \":1234\"\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, "docgraph", "config.toml"), DefaultPath())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[build\n", errors.ErrCodeInvalidInput},
		{"unknown key", "[build]\ncolour = 1\n", errors.ErrCodeInvalidInput},
		{"bad engine", "[layout]\nengine = \"spiral\"\n", errors.ErrCodeInvalidEngine},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
		{"negative max nodes", "[build]\nmax_nodes = -1\n", errors.ErrCodeInvalidInput},
		{"max depth over limit", "[layout]\nmax_depth = 1000\n", errors.ErrCodeInvalidInput},
		{"negative redis attempts", "[cache]\nredis_attempts = -1\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

package scan

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dgerrors "github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/source"
)

func TestScanOS(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	files := map[string]string{
		"a.md":                     "# A",
		"notes/b.md":               "# B",
		"notes/deep/c.MD":          "# C",
		"notes/image.png":          "binary",
		"README.txt":               "not a doc",
		".hidden.md":               "hidden",
		".obsidian/config.md":      "hidden dir",
		"node_modules/pkg/x.md":    "skipped",
		"build/out.md":             "skipped",
		"notes/__pycache__/y.md":   "skipped",
		"notes/deep/deeper/end.md": "# End",
	}
	for p, content := range files {
		full := filepath.Join(tmpDir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	got, err := New(source.NewOS(), nil).Scan(tmpDir)
	require.NoError(t, err)

	sort.Strings(got)
	assert.Equal(t, []string{"a.md", "notes/b.md", "notes/deep/c.MD", "notes/deep/deeper/end.md"}, got)
}

func TestScanDepthFirstListingOrder(t *testing.T) {
	t.Parallel()

	fsys := source.NewMemory(map[string]string{
		"/r/z.md":     "",
		"/r/sub/y.md": "",
		"/r/a.md":     "",
	})
	fsys.SetOrder("/r", "z.md", "sub", "a.md")

	got, err := New(fsys, nil).Scan("/r")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.md", "sub/y.md", "a.md"}, got)
}

func TestScanRootFailureIsFatal(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	fsys := source.NewMemory(map[string]string{"/r/a.md": ""})
	fsys.FailDir("/r", cause)

	_, err := New(fsys, nil).Scan("/r")
	require.Error(t, err)
	assert.True(t, dgerrors.Is(err, dgerrors.ErrCodeRootUnreadable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/r")
}

func TestScanSubdirectoryFailureIsSkipped(t *testing.T) {
	t.Parallel()

	fsys := source.NewMemory(map[string]string{
		"/r/a.md":        "",
		"/r/locked/b.md": "",
		"/r/open/c.md":   "",
	})
	fsys.FailDir("/r/locked", errors.New("permission denied"))

	got, err := New(fsys, nil).Scan("/r")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "open/c.md"}, got)
}

func TestScanReportsDirectories(t *testing.T) {
	t.Parallel()

	fsys := source.NewMemory(map[string]string{
		"/r/a.md":       "",
		"/r/one/b.md":   "",
		"/r/one/two/c":  "",
		"/r/three/d.md": "",
	})

	var counts []int
	s := New(fsys, nil)
	s.OnDirectory = func(visited int, _ string) { counts = append(counts, visited) }

	_, err := s.Scan("/r")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, counts)
}

func TestIsDocument(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDocument("a.md"))
	assert.True(t, IsDocument("A.MD"))
	assert.False(t, IsDocument("a.markdown"))
	assert.False(t, IsDocument(".md"))
	assert.False(t, IsDocument("md"))
}

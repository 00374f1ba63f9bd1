package builder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dgerrors "github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/source"
)

const root = "/vault"

// fourDocs is A -> B -> sub/C with an isolated D.
func fourDocs() *source.Memory {
	return source.NewMemory(map[string]string{
		root + "/A.md":     "# Alpha\nSee [[B]] for more.",
		root + "/B.md":     "# Beta\nContinue with [C](sub/C.md).",
		root + "/sub/C.md": "# Gamma\nLeaf.",
		root + "/D.md":     "# Delta\nNo links here.",
	})
}

func noYield() Yielder { return YieldFunc(func() {}) }

func build(t *testing.T, fsys source.FileSystem, opts Options) *graph.Graph {
	t.Helper()
	opts.RootPath = root
	if opts.Yielder == nil {
		opts.Yielder = noYield()
	}
	g, err := Build(context.Background(), fsys, opts)
	require.NoError(t, err)
	return g
}

func edgeSet(g *graph.Graph) map[string]bool {
	out := map[string]bool{}
	for _, e := range g.Edges {
		out[e.Source+"->"+e.Target] = true
	}
	return out
}

func assertNoDanglingEdges(t *testing.T, g *graph.Graph) {
	t.Helper()
	ids := map[string]bool{}
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		assert.True(t, ids[e.Source], "edge source %s not loaded", e.Source)
		assert.True(t, ids[e.Target], "edge target %s not loaded", e.Target)
	}
}

func TestBuildFourDocuments(t *testing.T) {
	t.Parallel()

	g := build(t, fourDocs(), Options{})

	assert.Len(t, g.DocumentNodes(), 4)
	assert.Equal(t, 4, g.TotalDocuments)
	assert.Equal(t, 4, g.LoadedDocuments)
	assert.False(t, g.HasMore)
	assert.NotEmpty(t, g.BuildID)

	edges := edgeSet(g)
	assert.True(t, edges["A.md->B.md"], "missing A->B")
	assert.True(t, edges["B.md->sub/C.md"], "missing B->C")
	for _, e := range g.Edges {
		assert.NotEqual(t, "D.md", e.Source)
		assert.NotEqual(t, "D.md", e.Target)
	}

	a, ok := g.NodeByID("A.md")
	require.True(t, ok)
	assert.Equal(t, "Alpha", a.Document.Title)
	assert.Equal(t, "A.md", a.Document.Path)
	assert.Empty(t, a.Document.BrokenLinks)
	assertNoDanglingEdges(t, g)
}

func TestBuildMaxNodesDropsEdgesToUnloaded(t *testing.T) {
	t.Parallel()

	fsys := fourDocs()
	fsys.SetOrder(root, "sub", "D.md", "A.md", "B.md")

	g := build(t, fsys, Options{MaxNodes: 2})

	assert.Equal(t, 2, g.LoadedDocuments)
	assert.Len(t, g.DocumentNodes(), 2)
	assert.Equal(t, 4, g.TotalDocuments)
	assert.True(t, g.HasMore)
	assert.Empty(t, g.Edges)
}

func TestBuildKnownButUnloadedIsNotBroken(t *testing.T) {
	t.Parallel()

	// Default listing order is A.md, B.md, D.md, sub/C.md.
	g := build(t, fourDocs(), Options{MaxNodes: 1, Offset: 1})

	require.Len(t, g.Nodes, 1)
	b := g.Nodes[0]
	assert.Equal(t, "B.md", b.ID)
	assert.Empty(t, b.Document.BrokenLinks, "sub/C.md exists, so the link is not broken")
	assert.Empty(t, g.Edges, "sub/C.md is not loaded, so no edge")
	assert.True(t, g.HasMore)
}

func TestBuildPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		maxNodes   int
		offset     int
		wantLoaded int
		wantMore   bool
	}{
		{"NoLimit", 0, 0, 4, false},
		{"NoLimitIgnoresOffset", 0, 3, 4, false},
		{"FirstPage", 3, 0, 3, true},
		{"LastPage", 3, 3, 1, false},
		{"ExactFit", 4, 0, 4, false},
		{"OffsetPastEnd", 2, 10, 0, false},
		{"LimitLargerThanTree", 100, 1, 3, false},
		{"MaxIntLimitWithOffset", math.MaxInt, 1, 3, false},
		{"MaxIntOffset", 2, math.MaxInt, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, fourDocs(), Options{MaxNodes: tt.maxNodes, Offset: tt.offset})

			assert.Equal(t, tt.wantLoaded, g.LoadedDocuments)
			assert.Equal(t, tt.wantMore, g.HasMore)
			assert.LessOrEqual(t, g.LoadedDocuments, g.TotalDocuments)
			if tt.maxNodes > 0 {
				want := max(0, min(tt.maxNodes, g.TotalDocuments-tt.offset))
				assert.Len(t, g.DocumentNodes(), want)
				assert.Equal(t, tt.offset+g.LoadedDocuments < g.TotalDocuments, g.HasMore)
			}
			assertNoDanglingEdges(t, g)
		})
	}
}

func TestBuildBrokenLink(t *testing.T) {
	t.Parallel()

	fsys := source.NewMemory(map[string]string{
		root + "/index.md": "Go to [[missing-page]] or [[other]].",
		root + "/other.md": "# Other",
	})
	g := build(t, fsys, Options{})

	idx, ok := g.NodeByID("index.md")
	require.True(t, ok)
	assert.Equal(t, []string{"missing-page.md"}, idx.Document.BrokenLinks)
	assert.Equal(t, map[string]bool{"index.md->other.md": true}, edgeSet(g))
}

func TestBuildDottedWikiNames(t *testing.T) {
	t.Parallel()

	fsys := source.NewMemory(map[string]string{
		root + "/index.md":       "Read [[Release 1.0]] and [[v2.3 notes]].",
		root + "/Release 1.0.md": "# Release 1.0",
	})
	g := build(t, fsys, Options{})

	idx, ok := g.NodeByID("index.md")
	require.True(t, ok)
	assert.Equal(t, []string{"v2.3 notes.md"}, idx.Document.BrokenLinks)
	assert.Equal(t, map[string]bool{"index.md->Release 1.0.md": true}, edgeSet(g))
}

func TestBuildLargeFileTruncation(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("# Big Title\n")
	for sb.Len() < ParseLimit+1024 {
		sb.WriteString("filler words on a line\n")
	}
	sb.WriteString("[[late]]\n")

	fsys := source.NewMemory(map[string]string{
		root + "/big.md":  sb.String(),
		root + "/late.md": "# Late",
	})
	fsys.SetSize(root+"/big.md", 2<<20)

	g := build(t, fsys, Options{})

	big, ok := g.NodeByID("big.md")
	require.True(t, ok)
	assert.True(t, big.Document.LargeFile)
	assert.Equal(t, "Big Title", big.Document.Title)
	assert.Equal(t, "2.0 MB", big.Document.Size)
	assert.Empty(t, g.Edges, "link past the parse limit must be missed")

	late, ok := g.NodeByID("late.md")
	require.True(t, ok)
	assert.False(t, late.Document.LargeFile)
}

func TestBuildSkipsUnreadableFiles(t *testing.T) {
	t.Parallel()

	fsys := fourDocs()
	fsys.FailRead(root+"/B.md", source.ErrNoContent)
	fsys.FailStat(root+"/D.md", errors.New("stat failed"))

	var parsing []Progress
	g := build(t, fsys, Options{OnProgress: func(p Progress) {
		if p.Phase == PhaseParsing {
			parsing = append(parsing, p)
		}
	}})

	assert.Equal(t, 4, g.TotalDocuments)
	assert.Equal(t, 2, g.LoadedDocuments)
	_, ok := g.NodeByID("B.md")
	assert.False(t, ok)

	a, _ := g.NodeByID("A.md")
	assert.Empty(t, a.Document.BrokenLinks, "B.md was discovered, so the link is not broken")
	assert.Empty(t, g.Edges)

	// Every attempted file reports progress, skipped or not.
	require.Len(t, parsing, 4)
	for i, p := range parsing {
		assert.Equal(t, i+1, p.Current)
		assert.Equal(t, 4, p.Total)
	}
}

func TestBuildExternalLinks(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		root + "/A.md": "[docs](https://go.dev/doc) [blog](https://www.go.dev/blog) [again](https://go.dev/doc) [mail](mailto:x@y.z)",
		root + "/B.md": "[docs](https://go.dev/doc) [gh](http://github.com/x)",
	}

	t.Run("Hidden", func(t *testing.T) {
		g := build(t, source.NewMemory(files), Options{})

		assert.Len(t, g.Nodes, 2)
		assert.Empty(t, g.Edges)
		assert.Equal(t, 2, g.External.DomainCount)
		assert.Equal(t, 4, g.External.LinkCount)
		require.Len(t, g.External.Nodes, 2)

		goDev := g.External.Nodes[0]
		assert.Equal(t, "external:go.dev", goDev.ID)
		assert.Equal(t, 3, goDev.External.LinkCount)
		assert.Equal(t, []string{"https://go.dev/doc", "https://www.go.dev/blog"}, goDev.External.URLs)
		assert.Len(t, g.External.Edges, 3)
	})

	t.Run("Shown", func(t *testing.T) {
		g := build(t, source.NewMemory(files), Options{IncludeExternalLinks: true})

		assert.Len(t, g.Nodes, 4)
		assert.Equal(t, map[string]bool{
			"A.md->external:go.dev":     true,
			"B.md->external:go.dev":     true,
			"B.md->external:github.com": true,
		}, edgeSet(g))
		for _, e := range g.Edges {
			assert.Equal(t, graph.EdgeExternal, e.Type)
		}
		assertNoDanglingEdges(t, g)
	})

	t.Run("ToggleMatchesRebuild", func(t *testing.T) {
		hidden := build(t, source.NewMemory(files), Options{})
		shown := hidden.WithExternal(true)
		assert.Len(t, shown.Nodes, 4)
		assert.Len(t, shown.Edges, 3)
	})
}

func TestBuildProgressScanning(t *testing.T) {
	t.Parallel()

	var events []Progress
	build(t, fourDocs(), Options{OnProgress: func(p Progress) { events = append(events, p) }})

	require.NotEmpty(t, events)
	sawParsing := false
	for _, p := range events {
		switch p.Phase {
		case PhaseScanning:
			assert.False(t, sawParsing, "scanning event after parsing started")
			assert.Zero(t, p.Total)
		case PhaseParsing:
			sawParsing = true
		default:
			t.Fatalf("unexpected phase %q", p.Phase)
		}
	}
	assert.Equal(t, PhaseScanning, events[0].Phase)
	assert.Equal(t, 1, events[0].Current)

	last := events[len(events)-1]
	assert.Equal(t, 2, last.InternalLinksFound)
}

func TestBuildYieldsEveryBatch(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i := range 12 {
		files[fmt.Sprintf("%s/doc%02d.md", root, i)] = "text"
	}
	yields := 0
	g := build(t, source.NewMemory(files), Options{Yielder: YieldFunc(func() { yields++ })})

	assert.Equal(t, 12, g.LoadedDocuments)
	assert.Equal(t, 12/YieldEvery, yields)
}

func TestBuildCancelledAtYieldPoint(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i := range 8 {
		files[fmt.Sprintf("%s/doc%d.md", root, i)] = "text"
	}
	ctx, cancel := context.WithCancel(context.Background())
	_, err := Build(ctx, source.NewMemory(files), Options{
		RootPath: root,
		Yielder:  YieldFunc(cancel),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRootUnreadable(t *testing.T) {
	t.Parallel()

	fsys := fourDocs()
	cause := errors.New("permission denied")
	fsys.FailDir(root, cause)

	_, err := Build(context.Background(), fsys, Options{RootPath: root})
	require.Error(t, err)
	assert.True(t, dgerrors.Is(err, dgerrors.ErrCodeRootUnreadable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), root)
}

func TestOptionsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		code dgerrors.Code
	}{
		{"EmptyRoot", Options{}, dgerrors.ErrCodeInvalidPath},
		{"NegativeMax", Options{RootPath: root, MaxNodes: -1}, dgerrors.ErrCodeInvalidInput},
		{"NegativeOffset", Options{RootPath: root, Offset: -1}, dgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			assert.Equal(t, tt.code, dgerrors.GetCode(err))
		})
	}

	opts := Options{RootPath: root}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.NotNil(t, opts.Yielder)
	assert.NotNil(t, opts.Logger)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	// "é" is two bytes; cutting inside it backs off to the rune start.
	assert.Equal(t, "a", truncate("aé", 2))
}

package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

func sample() ([]layout.Node, []graph.Edge) {
	nodes := layout.FromGraph([]graph.Node{
		graph.NewDocumentNode("index.md", graph.Document{Title: "Home", WordCount: 12, Size: "120 B"}),
		graph.NewDocumentNode("guide.md", graph.Document{Title: "Guide", BrokenLinks: []string{"gone.md"}}),
		graph.NewExternalNode(graph.ExternalLink{Domain: "go.dev", LinkCount: 3}),
	})
	edges := []graph.Edge{
		{Source: "index.md", Target: "guide.md", Type: graph.EdgeInternal},
		{Source: "index.md", Target: "external:go.dev", Type: graph.EdgeExternal},
		{Source: "index.md", Target: "missing.md", Type: graph.EdgeInternal},
	}
	return nodes, edges
}

func TestToDOT_Basic(t *testing.T) {
	nodes, edges := sample()
	dot := ToDOT(nodes, edges, Options{})

	for _, want := range []string{
		"digraph G",
		`"index.md" [label="Home"`,
		`"external:go.dev" [label="go.dev"`,
		`"index.md" -> "guide.md";`,
		`"index.md" -> "external:go.dev" [style=dashed, color=grey];`,
		"rankdir=TB",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "missing.md") {
		t.Error("ToDOT() should skip edges to absent nodes")
	}
	if strings.Contains(dot, "pos=") {
		t.Error("ToDOT() unpositioned output should not pin nodes")
	}
}

func TestToDOT_Positioned(t *testing.T) {
	nodes, edges := sample()
	nodes[0].X, nodes[0].Y = 10, 20

	dot := ToDOT(nodes, edges, Options{Positioned: true})

	if !strings.Contains(dot, "inputscale=72") {
		t.Error("ToDOT() positioned output missing inputscale")
	}
	// center of a 180x60 box at (10,20), y flipped
	if !strings.Contains(dot, `pos="100.00,-50.00!"`) {
		t.Errorf("ToDOT() positioned output missing pinned position:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	doc := graph.NewDocumentNode("a.md", graph.Document{Title: "A", WordCount: 5, Size: "1.0 KB"})
	ext := graph.NewExternalNode(graph.ExternalLink{Domain: "example.com", LinkCount: 2})

	tests := []struct {
		name     string
		node     graph.Node
		detailed bool
		want     string
	}{
		{"document simple", doc, false, "A"},
		{"document detailed", doc, true, "A\n5 words, 1.0 KB"},
		{"external simple", ext, false, "example.com"},
		{"external detailed", ext, true, "example.com\n2 links"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	nodes, _ := sample()

	doc := strings.Join(fmtAttrs(nodes[0], "Home"), " ")
	if strings.Contains(doc, "dashed") {
		t.Error("fmtAttrs() document should not be dashed")
	}
	if !strings.Contains(doc, "width=2.50") || !strings.Contains(doc, "height=0.83") {
		t.Errorf("fmtAttrs() document size in inches wrong: %s", doc)
	}

	broken := strings.Join(fmtAttrs(nodes[1], "Guide"), " ")
	if !strings.Contains(broken, "color=red") {
		t.Error("fmtAttrs() document with broken links should be outlined red")
	}

	ext := strings.Join(fmtAttrs(nodes[2], "go.dev"), " ")
	if !strings.Contains(ext, "dashed") || !strings.Contains(ext, "lightgrey") {
		t.Errorf("fmtAttrs() external node should be dashed and grey: %s", ext)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	nodes, edges := sample()
	svg, err := RenderSVG(context.Background(), ToDOT(nodes, edges, Options{}), Options{})
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`, Options{})
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

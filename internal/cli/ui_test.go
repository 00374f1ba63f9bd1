package cli

import (
	"testing"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

func TestGraphStatsSummary(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			graph.NewDocumentNode("index.md", graph.Document{Title: "Home", BrokenLinks: []string{"runbooks.md"}}),
			graph.NewDocumentNode("guide.md", graph.Document{Title: "Guide"}),
			graph.NewExternalNode(graph.ExternalLink{Domain: "go.dev"}),
		},
		Edges: []graph.Edge{
			{Source: "index.md", Target: "guide.md", Type: graph.EdgeInternal},
			{Source: "index.md", Target: graph.ExternalID("go.dev"), Type: graph.EdgeExternal},
		},
	}

	tests := []struct {
		name  string
		stats graphStats
		want  string
	}{
		{"from graph", statsOfGraph(g), "2 documents · 1 site · 2 links · 1 broken link"},
		{"from layout", statsOfLayout(layout.FromGraph(g.Nodes), g.Edges[:1]), "2 documents · 1 site · 1 link · 1 broken link"},
		{"isolated document", graphStats{Documents: 1}, "1 document"},
		{"empty", graphStats{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.summary(); got != tt.want {
				t.Errorf("summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

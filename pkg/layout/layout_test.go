package layout

import (
	"testing"

	"github.com/matzehuels/docgraph/pkg/graph"
)

func TestFromGraphSizes(t *testing.T) {
	nodes := FromGraph([]graph.Node{
		graph.NewDocumentNode("a.md", graph.Document{Title: "A"}),
		graph.NewExternalNode(graph.ExternalLink{Domain: "x.org"}),
	})
	if nodes[0].Width <= nodes[1].Width || nodes[0].Height <= nodes[1].Height {
		t.Errorf("document box %vx%v should exceed external box %vx%v",
			nodes[0].Width, nodes[0].Height, nodes[1].Width, nodes[1].Height)
	}
	for _, n := range nodes {
		if n.HasPosition {
			t.Errorf("%s: fresh node should have no position", n.ID)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  Rect
	}{
		{"Empty", nil, Rect{}},
		{"Single", []Node{{X: 10, Y: 20, Width: 5, Height: 5}}, Rect{10, 20, 15, 25}},
		{"Spread", []Node{{X: -10, Y: 0, Width: 10, Height: 10}, {X: 50, Y: 40, Width: 20, Height: 10}}, Rect{-10, 0, 70, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.nodes); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConnectedEdges(t *testing.T) {
	nodes := []Node{{Node: graph.Node{ID: "a"}}, {Node: graph.Node{ID: "b"}}}
	edges := []graph.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "gone"}}
	got := ConnectedEdges(nodes, edges)
	if len(got) != 1 || got[0].Target != "b" {
		t.Errorf("ConnectedEdges = %v", got)
	}
}

func TestContainsAndCenter(t *testing.T) {
	n := Node{X: 0, Y: 0, Width: 100, Height: 50}
	if c := n.Center(); c != (Point{50, 25}) {
		t.Errorf("Center = %v", c)
	}
	if !n.Contains(Point{100, 50}) || n.Contains(Point{101, 10}) {
		t.Error("Contains boundary mismatch")
	}
	if r := (Rect{0, 0, 10, 10}).Pad(5); r.Width() != 20 || r.Height() != 20 {
		t.Errorf("Pad = %+v", r)
	}
}

package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func sampleGraph() *Graph {
	readme := NewDocumentNode("README.md", Document{Title: "Readme", Size: "1.0 KB"})
	guide := NewDocumentNode("docs/guide.md", Document{Title: "Guide", BrokenLinks: []string{"docs/missing.md"}})
	ext := NewExternalNode(ExternalLink{Domain: "go.dev", LinkCount: 2, URLs: []string{"https://go.dev/a", "https://go.dev/b"}})
	return &Graph{
		BuildID:         "b1",
		RootPath:        "/tmp/vault",
		Nodes:           []Node{readme, guide, ext},
		Edges:           []Edge{{Source: readme.ID, Target: guide.ID, Type: EdgeInternal}, {Source: guide.ID, Target: ext.ID, Type: EdgeExternal}},
		TotalDocuments:  2,
		LoadedDocuments: 2,
		External: ExternalData{
			Nodes:       []Node{ext},
			Edges:       []Edge{{Source: guide.ID, Target: ext.ID, Type: EdgeExternal}},
			LinkCount:   2,
			DomainCount: 1,
		},
	}
}

func TestNodeHelpers(t *testing.T) {
	tests := []struct {
		name      string
		node      Node
		wantDoc   bool
		wantExt   bool
		wantLabel string
		wantID    string
	}{
		{"Document", NewDocumentNode("a/b.md", Document{Title: "B"}), true, false, "B", "a/b.md"},
		{"DocumentBackslash", NewDocumentNode(`a\c.md`, Document{Title: "C"}), true, false, "C", "a/c.md"},
		{"External", NewExternalNode(ExternalLink{Domain: "x.org"}), false, true, "x.org", "external:x.org"},
		{"KindMismatch", Node{ID: "odd", Kind: KindExternal, Document: &Document{}}, false, false, "odd", "odd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDocumentNode(tt.node); got != tt.wantDoc {
				t.Errorf("IsDocumentNode = %v, want %v", got, tt.wantDoc)
			}
			if got := IsExternalLinkNode(tt.node); got != tt.wantExt {
				t.Errorf("IsExternalLinkNode = %v, want %v", got, tt.wantExt)
			}
			if got := tt.node.Label(); got != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got, tt.wantLabel)
			}
			if tt.node.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", tt.node.ID, tt.wantID)
			}
		})
	}
}

func TestWithExternal(t *testing.T) {
	g := sampleGraph()

	without := g.WithExternal(false)
	if len(without.Nodes) != 2 || len(without.Edges) != 1 {
		t.Fatalf("without external: %d nodes %d edges, want 2 and 1", len(without.Nodes), len(without.Edges))
	}
	for _, n := range without.Nodes {
		if IsExternalLinkNode(n) {
			t.Errorf("unexpected external node %s", n.ID)
		}
	}

	with := without.WithExternal(true)
	if len(with.Nodes) != 3 || len(with.Edges) != 2 {
		t.Errorf("with external: %d nodes %d edges, want 3 and 2", len(with.Nodes), len(with.Edges))
	}
	// Toggling twice must not duplicate external nodes.
	again := with.WithExternal(true)
	if len(again.Nodes) != 3 {
		t.Errorf("repeated toggle: %d nodes, want 3", len(again.Nodes))
	}
	if len(g.Nodes) != 3 {
		t.Errorf("original graph mutated: %d nodes", len(g.Nodes))
	}
}

func TestRoundTripFile(t *testing.T) {
	g := sampleGraph()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Fatalf("got %d nodes %d edges", len(got.Nodes), len(got.Edges))
	}
	n, ok := got.NodeByID("docs/guide.md")
	if !ok || !IsDocumentNode(n) {
		t.Fatalf("guide node missing or wrong kind: %+v", n)
	}
	if len(n.Document.BrokenLinks) != 1 || n.Document.BrokenLinks[0] != "docs/missing.md" {
		t.Errorf("BrokenLinks = %v", n.Document.BrokenLinks)
	}
	if got.External.DomainCount != 1 {
		t.Errorf("DomainCount = %d, want 1", got.External.DomainCount)
	}
}

func TestMarshalOmitsEmptyBrokenLinks(t *testing.T) {
	g := &Graph{Nodes: []Node{NewDocumentNode("a.md", Document{Title: "A"})}, TotalDocuments: 1, LoadedDocuments: 1}
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if strings.Contains(string(data), "broken_links") {
		t.Errorf("broken_links should be omitted:\n%s", data)
	}
}

func TestReadGraphRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"Malformed", `{"nodes": [`, "decode"},
		{"DanglingEdge", `{"nodes":[{"id":"a.md","kind":"document","document":{"title":"A","path":"a.md"}}],"edges":[{"source":"a.md","target":"b.md","type":"internal"}]}`, "unknown node"},
		{"DuplicateID", `{"nodes":[{"id":"a","kind":"document","document":{}},{"id":"a","kind":"document","document":{}}]}`, "duplicate"},
		{"KindMismatch", `{"nodes":[{"id":"a","kind":"external","document":{}}]}`, "payload"},
		{"Counts", `{"nodes":[],"total_documents":1,"loaded_documents":2}`, "exceed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestContentBytesIgnoresBuildMetadata(t *testing.T) {
	a, b := sampleGraph(), sampleGraph()
	b.BuildID = "other"
	b.RootPath = "/elsewhere"
	ca, err := ContentBytes(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, _ := ContentBytes(b)
	if !bytes.Equal(ca, cb) {
		t.Error("content bytes differ for graphs with identical structure")
	}
	b.Nodes[0].Document.Title = "Changed"
	cb, _ = ContentBytes(b)
	if bytes.Equal(ca, cb) {
		t.Error("content bytes equal after a title change")
	}
}

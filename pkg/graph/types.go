package graph

import (
	"strings"
	"time"
)

// =============================================================================
// Constants
// =============================================================================

// NodeKind discriminates the payload carried by a Node.
type NodeKind string

// Node kinds.
const (
	KindDocument NodeKind = "document"
	KindExternal NodeKind = "external"
)

// EdgeType tags an edge as a document-to-document or document-to-domain link.
type EdgeType string

// Edge types.
const (
	EdgeInternal EdgeType = "internal"
	EdgeExternal EdgeType = "external"
)

// ExternalIDPrefix prefixes the id of every external-link node.
const ExternalIDPrefix = "external:"

// =============================================================================
// Node - tagged union of document and external-link payloads
// =============================================================================

// Node is a graph vertex. Exactly one of Document or External is set,
// matching Kind.
type Node struct {
	ID       string        `json:"id"`
	Kind     NodeKind      `json:"kind"`
	Document *Document     `json:"document,omitempty"`
	External *ExternalLink `json:"external,omitempty"`
}

// Document describes one parsed source file.
type Document struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	LineCount   int      `json:"line_count"`
	WordCount   int      `json:"word_count"`
	Size        string   `json:"size"`
	Path        string   `json:"path"`
	BrokenLinks []string `json:"broken_links,omitempty"`
	LargeFile   bool     `json:"large_file,omitempty"`
}

// ExternalLink aggregates every link to one domain.
type ExternalLink struct {
	Domain    string   `json:"domain"`
	LinkCount int      `json:"link_count"`
	URLs      []string `json:"urls"`
}

// IsDocumentNode reports whether n carries a document payload.
func IsDocumentNode(n Node) bool { return n.Kind == KindDocument && n.Document != nil }

// IsExternalLinkNode reports whether n carries an external-link payload.
func IsExternalLinkNode(n Node) bool { return n.Kind == KindExternal && n.External != nil }

// Label returns the display label: the document title or the domain.
func (n Node) Label() string {
	switch {
	case IsDocumentNode(n):
		return n.Document.Title
	case IsExternalLinkNode(n):
		return n.External.Domain
	default:
		return n.ID
	}
}

// DocumentID derives a node id from a relative document path. The id is the
// slash-separated path without a leading slash, so it is stable and
// collision-free within one build.
func DocumentID(relPath string) string {
	return strings.TrimPrefix(strings.ReplaceAll(relPath, "\\", "/"), "/")
}

// ExternalID derives the node id for a domain.
func ExternalID(domain string) string { return ExternalIDPrefix + domain }

// NewDocumentNode builds a document node for relPath.
func NewDocumentNode(relPath string, doc Document) Node {
	doc.Path = relPath
	return Node{ID: DocumentID(relPath), Kind: KindDocument, Document: &doc}
}

// NewExternalNode builds an external-link node.
func NewExternalNode(ext ExternalLink) Node {
	return Node{ID: ExternalID(ext.Domain), Kind: KindExternal, External: &ext}
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed link between two loaded nodes.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// =============================================================================
// Graph - build result
// =============================================================================

// Graph is the result of one build pass.
//
// Nodes and Edges contain external-link nodes only when the build asked for
// them; External always holds the full external data so the display flag can
// be toggled without rescanning.
type Graph struct {
	BuildID  string `json:"build_id,omitempty"`
	RootPath string `json:"root_path,omitempty"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	TotalDocuments  int  `json:"total_documents"`
	LoadedDocuments int  `json:"loaded_documents"`
	HasMore         bool `json:"has_more"`

	External ExternalData `json:"external"`

	BuiltAt  time.Time     `json:"built_at,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// ExternalData is the cached external-link portion of a build.
type ExternalData struct {
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
	LinkCount   int    `json:"link_count"`
	DomainCount int    `json:"domain_count"`
}

// DocumentNodes returns only the document nodes, in order.
func (g *Graph) DocumentNodes() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if IsDocumentNode(n) {
			out = append(out, n)
		}
	}
	return out
}

// NodeByID returns the node with id, if present.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// WithExternal returns a shallow copy of g whose Nodes and Edges include (or
// exclude) the cached external data. Documents are shared with g.
func (g *Graph) WithExternal(include bool) *Graph {
	out := *g
	out.Nodes = make([]Node, 0, len(g.Nodes)+len(g.External.Nodes))
	out.Edges = make([]Edge, 0, len(g.Edges)+len(g.External.Edges))

	for _, n := range g.Nodes {
		if !IsExternalLinkNode(n) {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if e.Type != EdgeExternal {
			out.Edges = append(out.Edges, e)
		}
	}
	if include {
		out.Nodes = append(out.Nodes, g.External.Nodes...)
		out.Edges = append(out.Edges, g.External.Edges...)
	}
	return &out
}

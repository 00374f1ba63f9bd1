package builder

import (
	"github.com/matzehuels/docgraph/pkg/docs"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// externalIndex aggregates external links per domain in first-seen order.
type externalIndex struct {
	order   []string
	domains map[string]*graph.ExternalLink
	seenURL map[string]map[string]bool
	edges   []graph.Edge
	edgeSet map[graph.Edge]bool
	links   int
}

func newExternalIndex() *externalIndex {
	return &externalIndex{
		domains: make(map[string]*graph.ExternalLink),
		seenURL: make(map[string]map[string]bool),
		edgeSet: make(map[graph.Edge]bool),
	}
}

// add records one link from the document with id source.
func (x *externalIndex) add(source string, link docs.ExternalLink) {
	d, ok := x.domains[link.Domain]
	if !ok {
		d = &graph.ExternalLink{Domain: link.Domain, URLs: []string{}}
		x.domains[link.Domain] = d
		x.seenURL[link.Domain] = make(map[string]bool)
		x.order = append(x.order, link.Domain)
	}
	d.LinkCount++
	x.links++
	if !x.seenURL[link.Domain][link.URL] {
		x.seenURL[link.Domain][link.URL] = true
		d.URLs = append(d.URLs, link.URL)
	}

	e := graph.Edge{Source: source, Target: graph.ExternalID(link.Domain), Type: graph.EdgeExternal}
	if !x.edgeSet[e] {
		x.edgeSet[e] = true
		x.edges = append(x.edges, e)
	}
}

func (x *externalIndex) data() graph.ExternalData {
	out := graph.ExternalData{
		Nodes:       make([]graph.Node, 0, len(x.order)),
		Edges:       x.edges,
		LinkCount:   x.links,
		DomainCount: len(x.order),
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}
	for _, domain := range x.order {
		out.Nodes = append(out.Nodes, graph.NewExternalNode(*x.domains[domain]))
	}
	return out
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds word count and size (documents) or link count
	// (external domains) under the label.
	Detailed bool

	// Positioned pins nodes at their layout coordinates.
	Positioned bool
}

// ToDOT converts laid-out nodes to Graphviz DOT. Edges whose endpoints are
// not among nodes are skipped.
func ToDOT(nodes []layout.Node, edges []graph.Edge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	if opts.Positioned {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	} else {
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("\n")

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
		attrs := fmtAttrs(n, fmtLabel(n.Node, opts.Detailed))
		if opts.Positioned {
			c := n.Center()
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !present[e.Source] || !present[e.Target] {
			continue
		}
		if e.Type == graph.EdgeExternal {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.Label()
	if !detailed {
		return label
	}
	switch {
	case graph.IsDocumentNode(n):
		return fmt.Sprintf("%s\n%d words, %s", label, n.Document.WordCount, n.Document.Size)
	case graph.IsExternalLinkNode(n):
		return fmt.Sprintf("%s\n%d links", label, n.External.LinkCount)
	}
	return label
}

func fmtAttrs(n layout.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Width > 0 && n.Height > 0 {
		attrs = append(attrs,
			"width="+num(n.Width/72),
			"height="+num(n.Height/72))
	}
	if graph.IsExternalLinkNode(n.Node) {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if graph.IsDocumentNode(n.Node) && len(n.Document.BrokenLinks) > 0 {
		attrs = append(attrs, "color=red")
	}
	return attrs
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz. Positioned graphs are
// laid out by neato so pinned positions are honored.
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Positioned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

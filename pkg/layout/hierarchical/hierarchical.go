// Package hierarchical assigns layered positions with Graphviz dot.
//
// Nodes keep their box sizes (dot is told fixedsize), edges between loaded
// nodes are ranked, and external edges span at least two ranks so domains
// sit one tier below the documents that cite them. Disconnected nodes are
// placed by dot like any other component.
//
// dot reports node centers in points with y growing up; [Layout] converts
// them to top-left pixel coordinates with y growing down.
package hierarchical

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// Rank directions.
const (
	TopToBottom = "TB"
	LeftToRight = "LR"
)

// Defaults in pixels.
const (
	DefaultNodeSep = 40.0
	DefaultRankSep = 80.0
)

const (
	pointsPerInch  = 72.0
	plainFormat    = graphviz.Format("plain")
	externalMinLen = 2
	internalMinLen = 1
)

// Config controls rank direction and spacing.
type Config struct {
	RankDir string  // TB (default) or LR
	NodeSep float64 // gap between nodes in a rank, pixels
	RankSep float64 // gap between ranks, pixels
}

// ValidateAndSetDefaults fills zero fields and rejects unknown directions.
func (c *Config) ValidateAndSetDefaults() error {
	switch strings.ToUpper(c.RankDir) {
	case "":
		c.RankDir = TopToBottom
	case TopToBottom, LeftToRight:
		c.RankDir = strings.ToUpper(c.RankDir)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "rank direction must be TB or LR, got %q", c.RankDir)
	}
	if c.NodeSep <= 0 {
		c.NodeSep = DefaultNodeSep
	}
	if c.RankSep <= 0 {
		c.RankSep = DefaultRankSep
	}
	return nil
}

// Layout returns a copy of nodes positioned by dot.
func Layout(ctx context.Context, nodes []layout.Node, edges []graph.Edge, cfg Config) ([]layout.Node, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := layout.Clone(nodes)
	if len(out) == 0 {
		return out, nil
	}

	dot := ToDOT(out, edges, cfg)
	plain, err := render(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "graphviz layout")
	}

	centers, err := parsePlain(plain)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "read graphviz output")
	}

	for i := range out {
		c, ok := centers[dotName(i)]
		if !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "graphviz dropped node %s", out[i].ID)
		}
		out[i].X = c.X - out[i].Width/2
		out[i].Y = c.Y - out[i].Height/2
		out[i].HasPosition = true
	}
	return out, nil
}

// ToDOT builds the dot source used for layout. Nodes are named by index so
// arbitrary ids need no escaping; edges with a missing endpoint are dropped.
func ToDOT(nodes []layout.Node, edges []graph.Edge, cfg Config) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", cfg.RankDir)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(cfg.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(cfg.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	for i, n := range nodes {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", dotName(i), inches(n.Width), inches(n.Height))
	}

	buf.WriteString("\n")
	idx := layout.Index(nodes)
	for _, e := range edges {
		src, okS := idx[e.Source]
		dst, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		minLen := internalMinLen
		if e.Type == graph.EdgeExternal {
			minLen = externalMinLen
		}
		fmt.Fprintf(&buf, "  %s -> %s [minlen=%d];\n", dotName(src), dotName(dst), minLen)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotName(i int) string { return "n" + strconv.Itoa(i) }

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

func render(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// parsePlain reads node centers from dot's "plain" output, converting
// inches with y up to pixels with y down.
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
func parsePlain(data []byte) (map[string]layout.Point, error) {
	var height float64
	seenGraph := false
	centers := map[string]layout.Point{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("short graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("graph height: %w", err)
			}
			height, seenGraph = h, true
		case "node":
			if !seenGraph {
				return nil, fmt.Errorf("node before graph line")
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("short node line %q", sc.Text())
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("node %s: bad coordinates", fields[1])
			}
			centers[strings.Trim(fields[1], `"`)] = layout.Point{
				X: x * pointsPerInch,
				Y: (height - y) * pointsPerInch,
			}
		case "stop":
			return centers, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenGraph {
		return nil, fmt.Errorf("missing graph line")
	}
	return centers, nil
}

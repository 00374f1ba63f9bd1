// Package radial lays a document graph out around one focal document.
//
// The center document sits at the canvas midpoint, scaled up. Documents
// reachable from it are grouped by breadth-first distance; each tier is
// sorted by label and split into a left and a right column, tier d sitting
// d column widths from the center. External domains within reach form one
// row beneath everything else. Identical input always yields identical
// positions: labels are the only tie-break.
//
// The package also carries the interaction rules that depend on this
// geometry: arrow-key focus movement ([Move]), viewport following
// ([EnsureVisible]), single and double activation ([Activator]) and hit
// testing ([HitTest], [HitTestOpen]).
package radial

import (
	"sort"
	"strings"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// Geometry, in pixels.
const (
	CenterScale       = 1.5
	ColumnSpacing     = 300.0
	RowGap            = 24.0
	NodeWidth         = 180.0
	NodeHeight        = 56.0
	DescribedHeight   = 84.0
	ExternalWidth     = 140.0
	ExternalHeight    = 40.0
	ExternalGap       = 24.0
	ClusterGap        = 80.0
	ExternalLift      = 60.0
	BoundsPadding     = 60.0
	DefaultMaxDepth   = 2
	DefaultCanvasSize = 1200.0
)

// DepthLimit is the largest MaxDepth callers should request. Layout itself
// only does work for the depths the search actually reaches.
const DepthLimit = 64

// Side says which column group a node belongs to.
type Side int

const (
	SideCenter Side = iota
	SideLeft
	SideRight
	SideExternal
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideExternal:
		return "external"
	default:
		return "center"
	}
}

// Node is a positioned node with its place in the radial structure.
type Node struct {
	layout.Node

	Depth     int      `json:"depth"`
	Side      Side     `json:"side"`
	IsCenter  bool     `json:"is_center,omitempty"`
	Neighbors []string `json:"neighbors,omitempty"`
}

// Column returns a signed column index: 0 for the center, -d for the left
// column of tier d, +d for the right one. External nodes report 0; use Side
// to tell them from the center.
func (n Node) Column() int {
	switch n.Side {
	case SideLeft:
		return -n.Depth
	case SideRight:
		return n.Depth
	default:
		return 0
	}
}

// Options selects the center and the neighborhood to show.
type Options struct {
	// Center is the path of the focal document. A leading slash is ignored.
	Center string

	// MaxDepth bounds the breadth-first distance from the center. Zero
	// means DefaultMaxDepth.
	MaxDepth int

	ShowExternal bool

	CanvasWidth  float64
	CanvasHeight float64
}

func (o *Options) setDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = DefaultCanvasSize
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = DefaultCanvasSize
	}
}

// Result is a computed radial layout. When the center was not found Nodes
// and Edges are empty and Bounds covers the canvas.
type Result struct {
	Center string       `json:"center,omitempty"`
	Nodes  []Node       `json:"nodes"`
	Edges  []graph.Edge `json:"edges"`
	Bounds layout.Rect  `json:"bounds"`
}

// Node returns the node with id.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Empty reports whether the layout has no nodes.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// Layout positions the neighborhood of opts.Center. Input slices are not
// modified.
func Layout(nodes []layout.Node, edges []graph.Edge, opts Options) Result {
	opts.setDefaults()

	center, ok := resolveCenter(nodes, opts.Center)
	if !ok {
		return Result{
			Nodes:  []Node{},
			Edges:  []graph.Edge{},
			Bounds: layout.Rect{MaxX: opts.CanvasWidth, MaxY: opts.CanvasHeight},
		}
	}

	adj := adjacency(edges)
	depths := bfs(nodes, adj, nodes[center].ID, opts.MaxDepth)

	deepest := 0
	for _, d := range depths {
		deepest = max(deepest, d)
	}

	var (
		tiers     = make([][]Node, deepest+1)
		externals []Node
	)
	for _, n := range nodes {
		d, reached := depths[n.ID]
		if !reached {
			continue
		}
		rn := Node{Node: n, Depth: d}
		if graph.IsExternalLinkNode(n.Node) {
			if opts.ShowExternal {
				rn.Side = SideExternal
				externals = append(externals, rn)
			}
			continue
		}
		tiers[d] = append(tiers[d], rn)
	}

	cx := opts.CanvasWidth / 2
	cy := opts.CanvasHeight / 2
	if len(externals) > 0 {
		cy -= ExternalLift
	}

	placed := make([]Node, 0, len(depths))
	placed = append(placed, placeCenter(tiers[0][0], cx, cy))

	for d := 1; d <= deepest; d++ {
		tier := tiers[d]
		sortByLabel(tier)
		mid := (len(tier) + 1) / 2
		placed = append(placed, placeColumn(tier[:mid], SideLeft, cx-float64(d)*ColumnSpacing, cy)...)
		placed = append(placed, placeColumn(tier[mid:], SideRight, cx+float64(d)*ColumnSpacing, cy)...)
	}

	if len(externals) > 0 {
		sortByLabel(externals)
		placed = append(placed, placeRow(externals, cx, lowest(placed)+ClusterGap)...)
	}

	keep := make(map[string]bool, len(placed))
	for _, n := range placed {
		keep[n.ID] = true
	}
	kept := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if keep[e.Source] && keep[e.Target] {
			kept = append(kept, e)
		}
	}
	for i := range placed {
		placed[i].Neighbors = neighborsIn(adj[placed[i].ID], keep)
	}

	boxes := make([]layout.Node, len(placed))
	for i, n := range placed {
		boxes[i] = n.Node
	}
	return Result{
		Center: nodes[center].ID,
		Nodes:  placed,
		Edges:  kept,
		Bounds: layout.Bounds(boxes).Pad(BoundsPadding),
	}
}

// resolveCenter finds the document whose id, or failing that whose stored
// path, matches want after leading-slash normalization.
func resolveCenter(nodes []layout.Node, want string) (int, bool) {
	id := graph.DocumentID(want)
	if id == "" {
		return 0, false
	}
	for i, n := range nodes {
		if graph.IsDocumentNode(n.Node) && n.ID == id {
			return i, true
		}
	}
	for i, n := range nodes {
		if graph.IsDocumentNode(n.Node) && graph.DocumentID(n.Document.Path) == id {
			return i, true
		}
	}
	return 0, false
}

// adjacency builds an undirected neighbor map.
func adjacency(edges []graph.Edge) map[string][]string {
	adj := map[string][]string{}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	return adj
}

// bfs returns the minimum distance of every node within maxDepth of start.
// External nodes are reached but not expanded, so two documents citing the
// same domain are not neighbors through it.
func bfs(nodes []layout.Node, adj map[string][]string, start string, maxDepth int) map[string]int {
	known := make(map[string]bool, len(nodes))
	external := make(map[string]bool)
	for _, n := range nodes {
		known[n.ID] = true
		if graph.IsExternalLinkNode(n.Node) {
			external[n.ID] = true
		}
	}

	depths := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		d := depths[id]
		if d == maxDepth || external[id] {
			continue
		}
		for _, next := range adj[id] {
			if _, seen := depths[next]; seen || !known[next] {
				continue
			}
			depths[next] = d + 1
			queue = append(queue, next)
		}
	}
	return depths
}

func sortByLabel(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		li, lj := strings.ToLower(nodes[i].Label()), strings.ToLower(nodes[j].Label())
		if li != lj {
			return li < lj
		}
		return nodes[i].ID < nodes[j].ID
	})
}

func documentHeight(n Node) float64 {
	if graph.IsDocumentNode(n.Node.Node) && n.Document.Description != "" {
		return DescribedHeight
	}
	return NodeHeight
}

func placeCenter(n Node, cx, cy float64) Node {
	n.IsCenter = true
	n.Side = SideCenter
	n.Width = NodeWidth * CenterScale
	n.Height = documentHeight(n) * CenterScale
	n.X = cx - n.Width/2
	n.Y = cy - n.Height/2
	n.HasPosition = true
	return n
}

// placeColumn stacks nodes vertically around cy with their centers on x.
func placeColumn(nodes []Node, side Side, x, cy float64) []Node {
	if len(nodes) == 0 {
		return nil
	}
	total := RowGap * float64(len(nodes)-1)
	for _, n := range nodes {
		total += documentHeight(n)
	}

	out := make([]Node, len(nodes))
	y := cy - total/2
	for i, n := range nodes {
		n.Side = side
		n.Width = NodeWidth
		n.Height = documentHeight(n)
		n.X = x - n.Width/2
		n.Y = y
		n.HasPosition = true
		y += n.Height + RowGap
		out[i] = n
	}
	return out
}

// placeRow lays nodes left to right, centered on cx, tops at y.
func placeRow(nodes []Node, cx, y float64) []Node {
	total := ExternalGap * float64(len(nodes)-1)
	total += ExternalWidth * float64(len(nodes))

	out := make([]Node, len(nodes))
	x := cx - total/2
	for i, n := range nodes {
		n.Width = ExternalWidth
		n.Height = ExternalHeight
		n.X = x
		n.Y = y
		n.HasPosition = true
		x += n.Width + ExternalGap
		out[i] = n
	}
	return out
}

func lowest(nodes []Node) float64 {
	bottom := nodes[0].Y + nodes[0].Height
	for _, n := range nodes[1:] {
		bottom = max(bottom, n.Y+n.Height)
	}
	return bottom
}

func neighborsIn(ids []string, keep map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		if keep[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

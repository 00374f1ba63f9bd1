// Package layout holds the types shared by the layout engines.
//
// Every engine takes a slice of [Node] plus the graph's edges and returns a
// new slice with X and Y populated; inputs are never mutated. X and Y are
// the top-left corner of the node's box, in pixels, with y growing down.
//
// Engines:
//   - [github.com/matzehuels/docgraph/pkg/layout/force]: physics simulation
//   - [github.com/matzehuels/docgraph/pkg/layout/hierarchical]: Graphviz dot ranks
//   - [github.com/matzehuels/docgraph/pkg/layout/radial]: focus-centered columns
package layout

import (
	"math"

	"github.com/matzehuels/docgraph/pkg/graph"
)

// Default node footprints in pixels.
const (
	DocumentWidth  = 180.0
	DocumentHeight = 60.0
	ExternalWidth  = 140.0
	ExternalHeight = 40.0
)

// Engine names.
const (
	EngineForce        = "force"
	EngineHierarchical = "hierarchical"
	EngineRadial       = "radial"
)

// Engines lists every engine name.
var Engines = []string{EngineForce, EngineHierarchical, EngineRadial}

// Node is a graph node with a position and a box size.
type Node struct {
	graph.Node

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// HasPosition marks X and Y as meaningful. Engines that accept hints
	// only read positions flagged this way.
	HasPosition bool `json:"has_position,omitempty"`
}

// Center returns the center point of the node's box.
func (n Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Contains reports whether p lies inside the node's box.
func (n Node) Contains(p Point) bool {
	return p.X >= n.X && p.X <= n.X+n.Width && p.Y >= n.Y && p.Y <= n.Y+n.Height
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Pad grows r by p on every side.
func (r Rect) Pad(p float64) Rect {
	return Rect{MinX: r.MinX - p, MinY: r.MinY - p, MaxX: r.MaxX + p, MaxY: r.MaxY + p}
}

// Size returns the default footprint for a graph node.
func Size(n graph.Node) (w, h float64) {
	if graph.IsExternalLinkNode(n) {
		return ExternalWidth, ExternalHeight
	}
	return DocumentWidth, DocumentHeight
}

// FromGraph wraps graph nodes with their default sizes and no position.
func FromGraph(nodes []graph.Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		w, h := Size(n)
		out[i] = Node{Node: n, Width: w, Height: h}
	}
	return out
}

// Clone returns a copy of nodes. Node payloads are shared.
func Clone(nodes []Node) []Node {
	return append([]Node(nil), nodes...)
}

// Index maps node ids to their slice positions.
func Index(nodes []Node) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}
	return idx
}

// Bounds returns the bounding box of all node boxes. An empty slice yields a
// zero Rect.
func Bounds(nodes []Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range nodes {
		r.MinX = math.Min(r.MinX, n.X)
		r.MinY = math.Min(r.MinY, n.Y)
		r.MaxX = math.Max(r.MaxX, n.X+n.Width)
		r.MaxY = math.Max(r.MaxY, n.Y+n.Height)
	}
	return r
}

// ConnectedEdges returns the edges whose endpoints are both in nodes.
func ConnectedEdges(nodes []Node, edges []graph.Edge) []graph.Edge {
	idx := Index(nodes)
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if okS && okT {
			out = append(out, e)
		}
	}
	return out
}

package radial

import (
	"math"
	"sort"

	"github.com/matzehuels/docgraph/pkg/layout"
)

// Direction is an arrow-key direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Move returns the id of the node focus moves to from focused.
//
// Up and Down step to the nearest node above or below in the same column.
// Moving down out of the lowest document reaches the external row, and
// moving up from the row returns to the nearest document. Left and Right
// jump to the nearest non-empty column in that direction, picking the node
// closest in vertical position regardless of tier. Within the external row
// Left and Right step along the row.
//
// With no valid focus Move returns the center; when no move is possible it
// returns focused unchanged.
func Move(r Result, focused string, dir Direction) string {
	cur, ok := r.Node(focused)
	if !ok {
		return r.Center
	}

	if cur.Side == SideExternal {
		return moveInRow(r, cur, dir)
	}

	switch dir {
	case Up, Down:
		if next, ok := nearestInColumn(r, cur, dir); ok {
			return next.ID
		}
		if dir == Down {
			if next, ok := nearestExternal(r, cur); ok {
				return next.ID
			}
		}
	case Left, Right:
		if next, ok := nearestInNextColumn(r, cur, dir); ok {
			return next.ID
		}
	}
	return focused
}

func nearestInColumn(r Result, cur Node, dir Direction) (Node, bool) {
	c := cur.Center()
	best, bestDist := Node{}, math.Inf(1)
	for _, n := range r.Nodes {
		if n.ID == cur.ID || n.Side != cur.Side || n.Column() != cur.Column() {
			continue
		}
		dy := n.Center().Y - c.Y
		if (dir == Up && dy >= 0) || (dir == Down && dy <= 0) {
			continue
		}
		if d := math.Abs(dy); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func nearestInNextColumn(r Result, cur Node, dir Direction) (Node, bool) {
	cols := map[int][]Node{}
	for _, n := range r.Nodes {
		if n.Side != SideExternal {
			cols[n.Column()] = append(cols[n.Column()], n)
		}
	}
	keys := make([]int, 0, len(cols))
	for k := range cols {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	target, found := 0, false
	for _, k := range keys {
		if dir == Left && k < cur.Column() {
			target, found = k, true // keep the largest below
		}
		if dir == Right && k > cur.Column() && !found {
			target, found = k, true
		}
	}
	if !found {
		return Node{}, false
	}

	cy := cur.Center().Y
	best, bestDist := Node{}, math.Inf(1)
	for _, n := range cols[target] {
		if d := math.Abs(n.Center().Y - cy); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, true
}

func nearestExternal(r Result, cur Node) (Node, bool) {
	cx := cur.Center().X
	best, bestDist := Node{}, math.Inf(1)
	for _, n := range r.Nodes {
		if n.Side != SideExternal {
			continue
		}
		if d := math.Abs(n.Center().X - cx); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func moveInRow(r Result, cur Node, dir Direction) string {
	c := cur.Center()
	best, bestDist := cur.ID, math.Inf(1)
	for _, n := range r.Nodes {
		if n.ID == cur.ID {
			continue
		}
		nc := n.Center()
		var d float64
		switch dir {
		case Left, Right:
			if n.Side != SideExternal {
				continue
			}
			dx := nc.X - c.X
			if (dir == Left && dx >= 0) || (dir == Right && dx <= 0) {
				continue
			}
			d = math.Abs(dx)
		case Up:
			if n.Side == SideExternal {
				continue
			}
			d = math.Hypot(nc.X-c.X, nc.Y-c.Y)
		default:
			continue
		}
		if d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best
}

// EdgePadding is the margin EnsureVisible keeps between a focused node and
// the viewport edge.
const EdgePadding = 40.0

// Viewport is the visible window onto layout coordinates.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// EnsureVisible pans v the least amount that brings n inside it with padding
// to spare. A node larger than the viewport is aligned to its top-left.
func EnsureVisible(v Viewport, n layout.Node, padding float64) Viewport {
	v.X = follow(v.X, v.Width, n.X, n.Width, padding)
	v.Y = follow(v.Y, v.Height, n.Y, n.Height, padding)
	return v
}

func follow(offset, span, pos, size, pad float64) float64 {
	if pos+size+pad > offset+span {
		offset = pos + size + pad - span
	}
	if pos-pad < offset {
		offset = pos - pad
	}
	return offset
}

package radial

import (
	"time"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// DoubleActivateWindow is how close two activations of the same node must
// be to count as a double activation.
const DoubleActivateWindow = 400 * time.Millisecond

// Open affordance geometry: a square inset from the node's top-right corner.
const (
	OpenSize  = 16.0
	OpenInset = 6.0
)

// Action is what an activation asks the host to do.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionRecenter
)

// Activator turns a stream of activations into select and recenter actions.
// The zero value is ready to use.
type Activator struct {
	Window time.Duration
	Now    func() time.Time

	lastID string
	lastAt time.Time
}

// Activate records an activation of n. A second activation of the same
// document within the window requests a recenter; anything else selects.
func (a *Activator) Activate(n Node) Action {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	window := a.Window
	if window == 0 {
		window = DoubleActivateWindow
	}

	double := n.ID == a.lastID && now.Sub(a.lastAt) <= window
	if double && graph.IsDocumentNode(n.Node.Node) && !n.IsCenter {
		a.lastID = ""
		return ActionRecenter
	}
	a.lastID, a.lastAt = n.ID, now
	return ActionSelect
}

// HitTest returns the topmost node whose box contains p. Later nodes draw
// over earlier ones.
func HitTest(r Result, p layout.Point) (Node, bool) {
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		if r.Nodes[i].Contains(p) {
			return r.Nodes[i], true
		}
	}
	return Node{}, false
}

// OpenRect returns the open affordance box of a document node.
func OpenRect(n Node) layout.Rect {
	return layout.Rect{
		MinX: n.X + n.Width - OpenInset - OpenSize,
		MinY: n.Y + OpenInset,
		MaxX: n.X + n.Width - OpenInset,
		MaxY: n.Y + OpenInset + OpenSize,
	}
}

// HitTestOpen returns the document whose open affordance contains p.
func HitTestOpen(r Result, p layout.Point) (Node, bool) {
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		n := r.Nodes[i]
		if !graph.IsDocumentNode(n.Node.Node) {
			continue
		}
		box := OpenRect(n)
		if p.X >= box.MinX && p.X <= box.MaxX && p.Y >= box.MinY && p.Y <= box.MaxY {
			return n, true
		}
	}
	return Node{}, false
}

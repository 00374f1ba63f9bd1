package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/force"
	"github.com/matzehuels/docgraph/pkg/layout/hierarchical"
	"github.com/matzehuels/docgraph/pkg/layout/radial"
)

// Layout is a graph positioned by one engine.
type Layout struct {
	Engine string        `json:"engine"`
	Nodes  []layout.Node `json:"nodes"`
	Edges  []graph.Edge  `json:"edges"`
	Bounds layout.Rect   `json:"bounds"`

	// Radial holds the depth and side of every node when Engine is radial.
	Radial *radial.Result `json:"radial,omitempty"`
}

// MarshalLayout serializes a layout to JSON.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout parses a layout produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}

// ComputeLayout positions g with the engine named in opts. Options must
// already be validated. The graph is not modified.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (*Layout, error) {
	view := g.WithExternal(opts.IncludeExternal)
	return computeLayout(ctx, view, layout.FromGraph(view.Nodes), opts)
}

// computeLayout runs the engine on nodes, which may carry position hints.
func computeLayout(ctx context.Context, g *graph.Graph, nodes []layout.Node, opts Options) (*Layout, error) {
	switch opts.Engine {
	case layout.EngineForce:
		cfg := force.DefaultConfig()
		cfg.Center = layout.Point{X: opts.Width / 2, Y: opts.Height / 2}
		cfg.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		out := force.Layout(nodes, g.Edges, cfg)
		return positioned(opts.Engine, out, g.Edges), nil

	case layout.EngineHierarchical:
		out, err := hierarchical.Layout(ctx, nodes, g.Edges, opts.hierarchicalConfig())
		if err != nil {
			return nil, err
		}
		return positioned(opts.Engine, out, g.Edges), nil

	case layout.EngineRadial:
		center := opts.Center
		if center == "" {
			center = DefaultCenter(g)
		}
		res := radial.Layout(nodes, g.Edges, radial.Options{
			Center:       center,
			MaxDepth:     opts.MaxDepth,
			ShowExternal: opts.IncludeExternal,
			CanvasWidth:  opts.Width,
			CanvasHeight: opts.Height,
		})
		out := make([]layout.Node, len(res.Nodes))
		for i, n := range res.Nodes {
			out[i] = n.Node
		}
		return &Layout{
			Engine: opts.Engine,
			Nodes:  out,
			Edges:  res.Edges,
			Bounds: res.Bounds,
			Radial: &res,
		}, nil
	}
	return nil, ValidateEngine(opts.Engine)
}

func positioned(engine string, nodes []layout.Node, edges []graph.Edge) *Layout {
	return &Layout{
		Engine: engine,
		Nodes:  nodes,
		Edges:  layout.ConnectedEdges(nodes, edges),
		Bounds: layout.Bounds(nodes),
	}
}

// Package nodelink renders document graphs as node-link diagrams.
//
// # Overview
//
// Documents appear as rounded boxes and external domains as dashed grey
// boxes, connected by arrows. External edges are dashed.
//
// # Usage
//
// Convert laid-out nodes to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(nodes, edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{})
//
// # Positioned output
//
// With Options.Positioned set, every node is pinned at its layout position
// (pos="x,y!") and the SVG is produced by neato, so force and radial layouts
// render exactly where they were placed. Without it Graphviz dot ranks the
// graph itself.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion lives in the parent render package.
package nodelink

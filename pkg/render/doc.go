// Package render converts rendered document graphs between output formats.
//
// The [nodelink] subpackage turns a laid-out graph into Graphviz DOT and SVG.
// [ToPDF] and [ToPNG] convert that SVG with the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot, opts)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/docgraph/pkg/render/nodelink
package render

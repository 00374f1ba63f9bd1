package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/docgraph/pkg/render"
	"github.com/matzehuels/docgraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. Nodes are
// drawn at their layout positions.
func Render(ctx context.Context, l *Layout, opts Options) (map[string][]byte, error) {
	nlOpts := nodelink.Options{Detailed: opts.Detailed, Positioned: true}
	dot := nodelink.ToDOT(l.Nodes, l.Edges, nlOpts)

	artifacts := make(map[string][]byte, len(opts.Formats))

	// SVG feeds PNG and PDF, so render it at most once.
	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot, nlOpts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = MarshalLayout(l)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, DefaultPNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

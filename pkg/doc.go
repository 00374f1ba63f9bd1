// Package pkg provides the core libraries for docgraph document-graph mapping.
//
// # Overview
//
// docgraph turns a folder of Markdown notes into a graph of the links between
// them and lays that graph out for display. The pkg directory is organized
// into four main areas:
//
//  1. Domain logic ([scan], [docs], [builder], [graph], [layout])
//  2. Infrastructure ([cache], [positions], [source], [config], [observability])
//  3. Orchestration ([pipeline]: build → layout → render)
//  4. Surfaces ([render], [server], [watch])
//
// # Architecture
//
// The typical data flow through docgraph:
//
//	Markdown tree on disk
//	         ↓
//	    [scan] package (find documents, skip hidden and build dirs)
//	         ↓
//	    [docs] package (front matter, links, word counts)
//	         ↓
//	    [builder] package (resolve links into a [graph.Graph])
//	         ↓
//	    [layout] engines (force, hierarchical, radial)
//	         ↓
//	    [render] package (Graphviz SVG, PNG, PDF, DOT)
//
// # Quick Start
//
// Build the graph of a notes folder and lay it out as a mind map:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/docgraph/pkg/builder"
//	    "github.com/matzehuels/docgraph/pkg/layout"
//	    "github.com/matzehuels/docgraph/pkg/layout/radial"
//	    "github.com/matzehuels/docgraph/pkg/source"
//	)
//
//	// 1. Build the graph
//	g, _ := builder.Build(context.Background(), source.NewOS(), builder.Options{
//	    RootPath: "~/notes",
//	})
//
//	// 2. Lay out the neighborhood of index.md
//	r := radial.Layout(layout.FromGraph(g.Nodes), g.Edges, radial.Options{
//	    Center:   "index.md",
//	    MaxDepth: 2,
//	})
//
// Or run the whole pipeline, with caching, through a runner:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    RootPath: "~/notes",
//	    Engine:   "radial",
//	    Formats:  []string{"svg"},
//	})
//
// # Main Packages
//
// ## Domain Logic
//
// [scan] - Recursive discovery of Markdown files with hidden-directory and
// build-folder skipping.
//
// [docs] - Parsing of a single document: YAML front matter, titles, wiki and
// Markdown links, word and line counts.
//
// [builder] - Assembles scanned and parsed documents into a [graph.Graph],
// resolving relative links, grouping external links by domain and paging
// large trees with MaxNodes and Offset.
//
// [layout] - Shared node geometry plus three engines:
//
//   - [layout/force]: Spring simulation seeded from saved positions
//   - [layout/hierarchical]: Layered layout via Graphviz dot
//   - [layout/radial]: Mind map around a center document, with keyboard
//     navigation, hit testing and viewport following
//
// ## Infrastructure
//
// [cache] - Layout and artifact cache with file, Redis and null backends.
//
// [positions] - Remembered force-layout positions keyed by root.
//
// [source] - Filesystem abstraction with OS and in-memory implementations.
//
// [config] - TOML configuration file loading.
//
// [observability] - Hooks for build, layout, render, cache and HTTP events.
//
// ## Surfaces
//
// [pipeline] - Build → layout → render used by the CLI, server and watcher.
//
// [render] - Graphviz rendering and SVG to PNG/PDF conversion.
//
// [server] - HTTP API for graphs, layouts and saved positions.
//
// [watch] - Debounced filesystem watching for live rebuilds.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/layout/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [scan]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/scan
// [docs]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/docs
// [builder]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/builder
// [graph]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/graph
// [graph.Graph]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/graph#Graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/layout/force
// [layout/hierarchical]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/layout/hierarchical
// [layout/radial]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/layout/radial
// [cache]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/cache
// [positions]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/positions
// [source]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/source
// [config]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/server
// [watch]: https://pkg.go.dev/github.com/matzehuels/docgraph/pkg/watch
package pkg

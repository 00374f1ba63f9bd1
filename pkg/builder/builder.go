// Package builder assembles a document graph from a directory tree.
//
// A build scans the whole tree once, then parses a (possibly paginated) slice
// of the discovered files in order, one at a time, yielding every
// [YieldEvery] files. Internal links become edges only when both endpoints
// were parsed in this build; links to files that exist but were not loaded are
// dropped silently, and links to files that exist nowhere are recorded on the
// node as broken.
//
// External links are aggregated per domain for every parsed file whether or
// not the caller asked for them, so the display can be toggled later with
// [graph.Graph.WithExternal] without rescanning.
package builder

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/docgraph/pkg/docs"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/scan"
	"github.com/matzehuels/docgraph/pkg/source"
)

// parsed is one successfully read file.
type parsed struct {
	rel   string
	stats docs.Stats
	links docs.Links
	large bool
}

// Build scans opts.RootPath on fsys and returns the assembled graph.
//
// The only fatal failure is an unreadable root, reported as
// errors.ErrCodeRootUnreadable. Unreadable files are skipped. A cancelled
// context stops the build at the next yield point.
func Build(ctx context.Context, fsys source.FileSystem, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := opts.Logger

	scanner := scan.New(fsys, logger)
	scanner.OnDirectory = func(visited int, dir string) {
		opts.report(Progress{Phase: PhaseScanning, Current: visited, CurrentFile: dir})
	}
	candidates, err := scanner.Scan(opts.RootPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("scan complete", "root", opts.RootPath, "documents", len(candidates))

	selected := selectPage(candidates, opts)

	var (
		files         []parsed
		internalFound int
		externalFound int
	)
	for i, rel := range selected {
		if p, ok := parseFile(fsys, opts.RootPath, rel, logger); ok {
			files = append(files, p)
			internalFound += len(p.links.Internal)
			externalFound += len(p.links.External)
		}

		opts.report(Progress{
			Phase:              PhaseParsing,
			Current:            i + 1,
			Total:              len(selected),
			CurrentFile:        rel,
			InternalLinksFound: internalFound,
			ExternalLinksFound: externalFound,
		})

		if (i+1)%YieldEvery == 0 {
			opts.Yielder.Yield()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	g := assemble(candidates, files, opts.IncludeExternalLinks)
	g.BuildID = uuid.NewString()
	g.RootPath = opts.RootPath
	g.TotalDocuments = len(candidates)
	g.LoadedDocuments = len(files)
	g.HasMore = opts.HasLimit() && opts.Offset+len(files) < len(candidates)
	g.BuiltAt = start
	g.Duration = time.Since(start)

	logger.Debug("build complete",
		"loaded", g.LoadedDocuments,
		"total", g.TotalDocuments,
		"edges", len(g.Edges),
		"domains", g.External.DomainCount,
		"duration", g.Duration)
	return g, nil
}

func (o Options) report(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}

// selectPage returns the [offset, offset+maxNodes) window of candidates, or
// all of them when no limit was set.
func selectPage(candidates []string, opts Options) []string {
	if !opts.HasLimit() {
		return candidates
	}
	lo := min(opts.Offset, len(candidates))
	hi := lo + min(opts.MaxNodes, len(candidates)-lo)
	return candidates[lo:hi]
}

// parseFile stats, reads and parses one file. Any failure skips the file.
func parseFile(fsys source.FileSystem, root, rel string, logger *log.Logger) (parsed, bool) {
	full := fsys.Join(root, rel)

	info, err := fsys.Stat(full)
	if err != nil {
		logger.Debug("skipping file", "path", rel, "err", err)
		return parsed{}, false
	}
	large := info.Size > LargeFileThreshold

	data, err := fsys.ReadFile(full)
	if err != nil {
		logger.Debug("skipping file", "path", rel, "err", err)
		return parsed{}, false
	}

	text := string(data)
	if large {
		text = truncate(text, ParseLimit)
	}

	links := docs.ParseLinks(text, rel)
	return parsed{
		rel:   rel,
		stats: docs.ComputeStatsWithMeta(text, rel, info.Size, links.FrontMatter),
		links: links,
		large: large,
	}, true
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// assemble turns parsed files into nodes and edges.
func assemble(candidates []string, files []parsed, includeExternal bool) *graph.Graph {
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c] = true
	}
	loaded := make(map[string]bool, len(files))
	for _, f := range files {
		loaded[f.rel] = true
	}

	g := &graph.Graph{
		Nodes: make([]graph.Node, 0, len(files)),
		Edges: []graph.Edge{},
	}
	ext := newExternalIndex()

	for _, f := range files {
		doc := graph.Document{
			Title:       f.stats.Title,
			Description: f.stats.Description,
			LineCount:   f.stats.LineCount,
			WordCount:   f.stats.WordCount,
			Size:        f.stats.Size,
			LargeFile:   f.large,
		}
		node := graph.NewDocumentNode(f.rel, doc)

		for _, target := range f.links.Internal {
			switch {
			case !known[target]:
				node.Document.BrokenLinks = append(node.Document.BrokenLinks, target)
			case loaded[target]:
				g.Edges = append(g.Edges, graph.Edge{
					Source: node.ID,
					Target: graph.DocumentID(target),
					Type:   graph.EdgeInternal,
				})
			}
		}
		g.Nodes = append(g.Nodes, node)

		for _, link := range f.links.External {
			ext.add(node.ID, link)
		}
	}

	g.External = ext.data()
	if includeExternal {
		g.Nodes = append(g.Nodes, g.External.Nodes...)
		g.Edges = append(g.Edges, g.External.Edges...)
	}
	return g
}

// Package pipeline runs the build → layout → render pipeline for docgraph.
//
// The CLI, the HTTP server and the watcher all go through a [Runner], so
// caching, position memory and defaults behave the same everywhere.
//
// # Stages
//
//  1. Build: scan a document tree and assemble the link graph
//  2. Layout: position nodes with the force, hierarchical or radial engine
//  3. Render: export the positioned graph as SVG, PNG, PDF, DOT or JSON
//
// Builds are never cached; they read the live tree. Hierarchical and radial
// layouts are deterministic and cached by graph content and options. Force
// layouts are seeded from, and saved back to, the runner's position store.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    RootPath: "~/notes",
//	    Engine:   "radial",
//	    Center:   "index.md",
//	    Formats:  []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/builder"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/hierarchical"
	"github.com/matzehuels/docgraph/pkg/layout/radial"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultEngine is the layout engine used when none is named.
	DefaultEngine = layout.EngineForce

	// DefaultWidth and DefaultHeight size the canvas in pixels.
	DefaultWidth  = radial.DefaultCanvasSize
	DefaultHeight = radial.DefaultCanvasSize

	// DefaultSeed makes force layouts reproducible between runs.
	DefaultSeed = uint64(42)

	// DefaultPNGScale renders PNGs at 2x.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	RootPath        string `json:"root_path"`
	IncludeExternal bool   `json:"include_external,omitempty"`
	MaxNodes        int    `json:"max_nodes,omitempty"`
	Offset          int    `json:"offset,omitempty"`

	// Layout options
	Engine   string  `json:"engine,omitempty"`
	RankDir  string  `json:"rank_dir,omitempty"`
	NodeSep  float64 `json:"node_sep,omitempty"`
	RankSep  float64 `json:"rank_sep,omitempty"`
	Center   string  `json:"center,omitempty"`
	MaxDepth int     `json:"max_depth,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Seed     uint64  `json:"seed,omitempty"`

	// ResetPositions discards remembered force positions before layout.
	ResetPositions bool `json:"reset_positions,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh skips cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	OnProgress func(builder.Progress) `json:"-"`
	Logger     *log.Logger            `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *graph.Graph
	GraphHash string
	Layout    *Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEngine checks that an engine name is known.
func ValidateEngine(engine string) error {
	if !slices.Contains(layout.Engines, engine) {
		return errors.New(errors.ErrCodeInvalidEngine, "invalid engine: %q (must be one of: %s)",
			engine, strings.Join(layout.Engines, ", "))
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the fields the build stage needs.
func (o *Options) ValidateForBuild() error {
	if err := errors.ValidateRootPath(o.RootPath); err != nil {
		return err
	}
	if o.MaxNodes < 0 || o.Offset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max nodes and offset must not be negative")
	}
	o.setLogger()
	return nil
}

// ValidateForLayout applies layout defaults and checks the engine.
func (o *Options) ValidateForLayout() error {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	o.Engine = strings.ToLower(o.Engine)
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Engine == layout.EngineHierarchical {
		cfg := o.hierarchicalConfig()
		if err := cfg.ValidateAndSetDefaults(); err != nil {
			return err
		}
		o.RankDir, o.NodeSep, o.RankSep = cfg.RankDir, cfg.NodeSep, cfg.RankSep
	}
	if o.MaxDepth < 0 || o.MaxDepth > radial.DepthLimit {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must be between 0 and %d, got %d", radial.DepthLimit, o.MaxDepth)
	}
	if o.Engine == layout.EngineRadial && o.MaxDepth == 0 {
		o.MaxDepth = radial.DefaultMaxDepth
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// BuildOptions returns the builder options for this run.
func (o *Options) BuildOptions() builder.Options {
	return builder.Options{
		RootPath:             o.RootPath,
		IncludeExternalLinks: o.IncludeExternal,
		MaxNodes:             o.MaxNodes,
		Offset:               o.Offset,
		OnProgress:           o.OnProgress,
		Logger:               o.Logger,
	}
}

func (o *Options) hierarchicalConfig() hierarchical.Config {
	return hierarchical.Config{RankDir: o.RankDir, NodeSep: o.NodeSep, RankSep: o.RankSep}
}

// LayoutKeyOpts returns cache key options for layout computation. Only the
// fields the engine reads are included.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{Engine: o.Engine, ShowExternal: o.IncludeExternal}
	switch o.Engine {
	case layout.EngineHierarchical:
		k.RankDir, k.NodeSep, k.RankSep = o.RankDir, o.NodeSep, o.RankSep
	case layout.EngineRadial:
		k.Center, k.MaxDepth = o.Center, o.MaxDepth
		k.Width, k.Height = o.Width, o.Height
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if o.Detailed {
		format += "+detailed"
	}
	return cache.ArtifactKeyOpts{Format: format}
}

// DefaultCenter picks a radial center when none is given: a root-level
// index.md or README.md if present, otherwise the first document.
func DefaultCenter(g *graph.Graph) string {
	docs := g.DocumentNodes()
	for _, name := range []string{"index.md", "readme.md"} {
		for _, n := range docs {
			if !strings.Contains(n.ID, "/") && strings.EqualFold(path.Base(n.ID), name) {
				return n.ID
			}
		}
	}
	if len(docs) > 0 {
		return docs[0].ID
	}
	return ""
}

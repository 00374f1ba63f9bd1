// Package cli implements the docgraph command-line interface.
//
// The commands cover the whole document-graph workflow: building the link
// graph of a Markdown tree, laying it out with one of the three engines,
// rendering it to SVG, PNG, PDF or DOT, exploring it interactively in the
// terminal, and serving it over HTTP. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - build: Scan a folder and write the document graph as JSON
//   - layout: Compute node positions with the force, hierarchical or radial engine
//   - render: Generate SVG, PNG, PDF, DOT or layout JSON
//   - explore: Navigate the mind-map layout in the terminal
//   - watch: Re-render whenever documents change
//   - serve: Expose graph, layouts and saved positions over HTTP
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// enables the pipeline and cache hooks.
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/docgraph/config.toml, or the file
// given with --config. Flags override config values.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 42 documents (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

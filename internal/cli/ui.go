package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // center document, spinner, numbers
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors, broken links
	colorBlue   = lipgloss.Color("75")  // open affordance, suggested commands
	colorWhite  = lipgloss.Color("255") // document titles, values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // external sites, secondary text
)

var (
	// StyleTitle is for the explorer header.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleValue is for document titles and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess is for confirmations.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning is for warnings and empty states.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleBroken  = lipgloss.NewStyle().Foreground(colorRed)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Graph summaries
// =============================================================================

// graphStats counts what a build or layout contains.
type graphStats struct {
	Documents int
	Sites     int // external-link nodes, one per domain
	Links     int
	Broken    int // unresolved internal links across all documents
}

func statsOfGraph(g *graph.Graph) graphStats {
	s := graphStats{Links: len(g.Edges)}
	for _, n := range g.Nodes {
		s.add(n)
	}
	return s
}

func statsOfLayout(nodes []layout.Node, edges []graph.Edge) graphStats {
	s := graphStats{Links: len(edges)}
	for _, n := range nodes {
		s.add(n.Node)
	}
	return s
}

func (s *graphStats) add(n graph.Node) {
	switch {
	case graph.IsDocumentNode(n):
		s.Documents++
		s.Broken += len(n.Document.BrokenLinks)
	case graph.IsExternalLinkNode(n):
		s.Sites++
	}
}

// summary renders the non-zero counts, e.g. "4 documents · 1 site · 5 links".
// Broken links are highlighted.
func (s graphStats) summary() string {
	var parts []string
	add := func(n int, one, many string, style lipgloss.Style) {
		if n == 0 {
			return
		}
		word := many
		if n == 1 {
			word = one
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, word)))
	}
	add(s.Documents, "document", "documents", StyleDim)
	add(s.Sites, "site", "sites", StyleDim)
	add(s.Links, "link", "links", StyleDim)
	add(s.Broken, "broken link", "broken links", styleBroken)
	return strings.Join(parts, StyleDim.Render(" · "))
}

// printStats prints the graph summary, the elapsed time and whether the
// result came from the cache.
func printStats(s graphStats, elapsed time.Duration, cached bool) {
	line := s.summary()
	if elapsed > 0 {
		line += StyleDim.Render(" · " + elapsed.Round(time.Millisecond).String())
	}
	if cached {
		line += StyleDim.Render(" · ") + styleCached.Render("cached")
	}
	fmt.Println("  " + line)
}

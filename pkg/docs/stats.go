package docs

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#\r]*$`)

// descriptionKeys lists front-matter keys consulted for a description, in order.
var descriptionKeys = []string{
	"description", "overview", "abstract", "summary", "synopsis", "intro",
	"introduction", "about", "tldr", "excerpt", "blurb", "brief", "preamble",
}

// Stats holds display metadata for a document.
type Stats struct {
	Title       string
	Description string // empty when none of descriptionKeys holds a string
	LineCount   int
	WordCount   int
	Size        string
}

// ComputeStats derives display metadata from a document's text. size is the
// byte size reported by the filesystem, which may exceed len(text) when the
// text was truncated before parsing.
func ComputeStats(text, docPath string, size int64) Stats {
	return ComputeStatsWithMeta(text, docPath, size, ParseFrontMatter(text))
}

// ComputeStatsWithMeta is ComputeStats with an already-parsed front matter map,
// so callers that ran ParseLinks don't parse the block twice.
func ComputeStatsWithMeta(text, docPath string, size int64, meta map[string]any) Stats {
	return Stats{
		Title:       extractTitle(text, docPath, meta),
		Description: extractDescription(meta),
		LineCount:   CountLines(text),
		WordCount:   len(strings.Fields(text)),
		Size:        FormatSize(size),
	}
}

func extractTitle(text, docPath string, meta map[string]any) string {
	if title, ok := meta["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if m := headingRe.FindStringSubmatch(stripFrontMatter(text)); m != nil {
		return strings.TrimSpace(m[1])
	}
	base := path.Base(docPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func extractDescription(meta map[string]any) string {
	for _, key := range descriptionKeys {
		if s, ok := meta[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// CountLines returns the number of newline-delimited lines. Blank documents
// have zero lines and a trailing newline does not start a new line.
func CountLines(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Count(text, "\n") + 1
}

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatSize renders a byte count for display: "512 B", "1.5 KB", "2.0 MB".
// Negative sizes render as "0 B".
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		if bytes < 0 {
			bytes = 0
		}
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

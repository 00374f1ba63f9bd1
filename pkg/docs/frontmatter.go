package docs

import (
	"regexp"
	"strconv"
	"strings"
)

// frontMatterDelimiter opens and closes the metadata block.
const frontMatterDelimiter = "---"

var numericRe = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// ParseFrontMatter parses the metadata block at the start of text.
//
// The block must begin on the first line with "---" and end at the next line
// that is exactly "---". Lines without a colon and lines starting with "#" are
// ignored. A document without a block (or with an unterminated one) yields an
// empty, non-nil map.
func ParseFrontMatter(text string) map[string]any {
	meta := map[string]any{}

	block, _, ok := splitFrontMatter(text)
	if !ok {
		return meta
	}

	for _, line := range block {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = parseScalar(strings.TrimSpace(value))
	}
	return meta
}

// splitFrontMatter separates the metadata block lines from the document body.
func splitFrontMatter(text string) (block []string, body string, ok bool) {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	if len(lines) < 2 || strings.TrimRight(lines[0], " \t") != frontMatterDelimiter {
		return nil, text, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontMatterDelimiter {
			return lines[1:i], strings.Join(lines[i+1:], "\n"), true
		}
	}
	return nil, text, false
}

// stripFrontMatter returns text without its leading metadata block, so that
// "# comment" lines inside the block are not mistaken for headings.
func stripFrontMatter(text string) string {
	_, body, _ := splitFrontMatter(text)
	return body
}

// parseScalar converts a raw value. Quoted values are always strings.
func parseScalar(v string) any {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}

	switch v {
	case "true":
		return true
	case "false":
		return false
	}

	if numericRe.MatchString(v) {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

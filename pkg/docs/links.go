package docs

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// DocumentExt is the extension every internal link target resolves to.
const DocumentExt = ".md"

var (
	// [[target]] or [[target|display]]
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|[^\]]*)?\]\]`)

	// [text](target) or [text](target "title")
	mdLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+["'][^)]*["'])?\s*\)`)

	externalRe = regexp.MustCompile(`(?i)^https?://`)
	schemeRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	hostRe     = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://(?:[^@/]*@)?([^/:?#]+)`)
)

// imageExts are wiki-embed targets that are never document references.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".bmp": true, ".ico": true, ".tif": true, ".tiff": true,
	".avif": true,
}

// ExternalLink is an http(s) URL referenced by a document.
type ExternalLink struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// Links is the result of parsing one document.
type Links struct {
	// Internal holds resolved, deduplicated relative paths ending in DocumentExt.
	Internal []string
	// External holds links deduplicated by exact URL.
	External []ExternalLink
	// FrontMatter is the parsed metadata block (never nil).
	FrontMatter map[string]any
}

// ParseLinks extracts internal links, external links and front matter from
// text. docPath is the document's own slash-separated path relative to the
// scan root; internal targets are resolved against its directory.
func ParseLinks(text, docPath string) Links {
	out := Links{FrontMatter: ParseFrontMatter(text)}

	dir := path.Dir(strings.TrimPrefix(docPath, "/"))
	seenInternal := map[string]bool{}
	seenExternal := map[string]bool{}

	addInternal := func(p string) {
		if p == "" || seenInternal[p] {
			return
		}
		seenInternal[p] = true
		out.Internal = append(out.Internal, p)
	}

	for _, m := range wikiLinkRe.FindAllStringSubmatch(text, -1) {
		target := strings.TrimSpace(m[1])
		if imageExts[strings.ToLower(path.Ext(target))] {
			continue
		}
		addInternal(resolveTarget(target, dir, true))
	}

	for _, m := range mdLinkRe.FindAllStringSubmatch(text, -1) {
		target := strings.TrimSpace(m[2])
		switch {
		case target == "", strings.HasPrefix(target, "#"):
			continue
		case externalRe.MatchString(target):
			if seenExternal[target] {
				continue
			}
			seenExternal[target] = true
			out.External = append(out.External, ExternalLink{URL: target, Domain: ExtractDomain(target)})
		case schemeRe.MatchString(target):
			// mailto:, tel:, ftp: and friends are neither internal nor external.
			continue
		default:
			addInternal(resolveTarget(target, dir, false))
		}
	}

	return out
}

// resolveTarget turns a raw link target into a root-relative document path.
// Wiki targets always name a document, so any other dotted suffix is part of
// the name. Markdown targets with a foreign extension are not documents and
// yield "".
func resolveTarget(target, dir string, wiki bool) string {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}
	target = strings.TrimSpace(target)
	for strings.HasPrefix(target, "./") {
		target = target[2:]
	}
	if target == "" {
		return ""
	}

	switch ext := strings.ToLower(path.Ext(target)); {
	case ext == DocumentExt:
	case ext == "" || wiki:
		target += DocumentExt
	default:
		return ""
	}

	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(dir, target))
}

// ExtractDomain returns the host of rawURL with a leading "www." removed.
// Unparseable input falls back to a regex; if that fails too the original
// string is returned.
func ExtractDomain(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return stripWWW(strings.ToLower(u.Hostname()))
	}
	if m := hostRe.FindStringSubmatch(rawURL); m != nil {
		return stripWWW(strings.ToLower(m[1]))
	}
	return rawURL
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

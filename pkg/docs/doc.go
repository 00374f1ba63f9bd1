// Package docs parses individual Markdown documents.
//
// Everything in this package is a pure function over a document's text: no
// filesystem access, no shared state. The graph builder calls [ParseLinks] and
// [ComputeStats] once per file.
//
// # Links
//
// [ParseLinks] recognizes two internal-link syntaxes and resolves every target
// relative to the directory of the referencing document:
//
//	[[other-note]]            -> dir/other-note.md
//	[[other-note|Display]]    -> dir/other-note.md (display text ignored)
//	[text](../guide/intro.md) -> guide/intro.md
//	[site](https://go.dev/x)  -> external link, domain "go.dev"
//
// Wiki targets that name an image are embeds and are skipped. Anchor-only
// targets (#section) and mailto: links are ignored entirely.
//
// # Front Matter
//
// [ParseFrontMatter] reads a flat "key: value" block delimited by "---" lines
// at the very start of a document. Values become bool, int, float64 or string.
//
// # Stats
//
// [ComputeStats] derives the title, optional description, line and word counts
// and a human-readable size used for node labels.
package docs

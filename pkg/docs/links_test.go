package docs

import (
	"reflect"
	"testing"
)

func TestParseLinksInternal(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		docPath string
		want    []string
	}{
		{
			name:    "wiki link",
			text:    "See [[beta]] for more.",
			docPath: "alpha.md",
			want:    []string{"beta.md"},
		},
		{
			name:    "wiki link with display text",
			text:    "See [[notes/beta|the beta note]].",
			docPath: "alpha.md",
			want:    []string{"notes/beta.md"},
		},
		{
			name:    "wiki image embed skipped",
			text:    "![[diagram.png]] and [[logo.SVG]] and [[real]]",
			docPath: "a.md",
			want:    []string{"real.md"},
		},
		{
			name:    "wiki link with dotted name",
			text:    "See [[Release 1.0]] and [[v2.3 notes]] and [[guide.md]].",
			docPath: "index.md",
			want:    []string{"Release 1.0.md", "v2.3 notes.md", "guide.md"},
		},
		{
			name:    "relative to referencing directory",
			text:    "[c](c.md) [up](../top.md)",
			docPath: "guide/b.md",
			want:    []string{"guide/c.md", "top.md"},
		},
		{
			name:    "dot slash stripped",
			text:    "[x](./sub/x.md)",
			docPath: "dir/a.md",
			want:    []string{"dir/sub/x.md"},
		},
		{
			name:    "percent decoding",
			text:    "[x](my%20note.md)",
			docPath: "a.md",
			want:    []string{"my note.md"},
		},
		{
			name:    "missing extension assumed",
			text:    "[x](other)",
			docPath: "a.md",
			want:    []string{"other.md"},
		},
		{
			name:    "fragment dropped",
			text:    "[x](other.md#section) [[other#Heading]]",
			docPath: "a.md",
			want:    []string{"other.md"},
		},
		{
			name:    "deduplicated by resolved path",
			text:    "[[b]] [b](b.md) [b](./b.md)",
			docPath: "a.md",
			want:    []string{"b.md"},
		},
		{
			name:    "anchor and mailto ignored",
			text:    "[top](#top) [mail](mailto:me@example.com)",
			docPath: "a.md",
			want:    nil,
		},
		{
			name:    "non document extension ignored",
			text:    "[pic](img/pic.png) [data](data.csv)",
			docPath: "a.md",
			want:    nil,
		},
		{
			name:    "root relative",
			text:    "[x](/ref/x.md)",
			docPath: "deep/dir/a.md",
			want:    []string{"ref/x.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLinks(tt.text, tt.docPath)
			if !reflect.DeepEqual(got.Internal, tt.want) {
				t.Errorf("Internal = %#v, want %#v", got.Internal, tt.want)
			}
		})
	}
}

func TestParseLinksExternal(t *testing.T) {
	text := `
[Go](https://go.dev/doc)
[Go again](https://go.dev/doc)
[Blog](https://go.dev/blog)
[Example](http://www.example.com/page?x=1)
`
	got := ParseLinks(text, "a.md")

	want := []ExternalLink{
		{URL: "https://go.dev/doc", Domain: "go.dev"},
		{URL: "https://go.dev/blog", Domain: "go.dev"},
		{URL: "http://www.example.com/page?x=1", Domain: "example.com"},
	}
	if !reflect.DeepEqual(got.External, want) {
		t.Errorf("External = %#v, want %#v", got.External, want)
	}
	if len(got.Internal) != 0 {
		t.Errorf("Internal = %v, want none", got.Internal)
	}
}

func TestParseLinksFrontMatter(t *testing.T) {
	got := ParseLinks("---\ntitle: Hello\n---\n[[x]]", "a.md")
	if got.FrontMatter["title"] != "Hello" {
		t.Errorf("FrontMatter[title] = %v, want Hello", got.FrontMatter["title"])
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/a", "example.com"},
		{"https://Docs.Example.com:8443/x", "docs.example.com"},
		{"http://user@host.io/path", "host.io"},
		{"https://bad host.com/%zz", "bad host.com"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExtractDomain(tt.in); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

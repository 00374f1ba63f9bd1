package docs

import (
	"reflect"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "no block",
			text: "# Title\nbody",
			want: map[string]any{},
		},
		{
			name: "typed values",
			text: "---\ntitle: \"Quoted: Title\"\ndraft: true\npublished: false\nweight: 3\nratio: 0.5\nname: plain value\n---\nbody",
			want: map[string]any{
				"title":     "Quoted: Title",
				"draft":     true,
				"published": false,
				"weight":    3,
				"ratio":     0.5,
				"name":      "plain value",
			},
		},
		{
			name: "single quotes keep strings",
			text: "---\nflag: 'true'\ncount: '12'\n---\n",
			want: map[string]any{"flag": "true", "count": "12"},
		},
		{
			name: "comments and colonless lines ignored",
			text: "---\n# a comment\njust text\nkey: value\n---\n",
			want: map[string]any{"key": "value"},
		},
		{
			name: "value containing colon",
			text: "---\nurl: https://example.com\n---\n",
			want: map[string]any{"url": "https://example.com"},
		},
		{
			name: "unterminated block",
			text: "---\ntitle: x\nno closing",
			want: map[string]any{},
		},
		{
			name: "block must start document",
			text: "\n---\ntitle: x\n---\n",
			want: map[string]any{},
		},
		{
			name: "crlf line endings",
			text: "---\r\ntitle: Windows\r\n---\r\nbody",
			want: map[string]any{"title": "Windows"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFrontMatter(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFrontMatter() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

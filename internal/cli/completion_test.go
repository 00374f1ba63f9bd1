package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"dot", "json", "pdf", "png", "svg"}},
		{"p", []string{"pdf", "png"}},
		{"svg,p", []string{"svg,pdf", "svg,png"}},
		{"svg,png,", []string{"svg,png,dot", "svg,png,json", "svg,png,pdf"}},
		{"gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, _ := completeFormats(nil, nil, tt.toComplete)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
		})
	}
}

func TestCompleteCenterListsDocuments(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"index.md", "guides/deploy.md", "guides/review.md", "notes.txt", ".obsidian/cache.md"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, directive := completeCenter(nil, []string{root}, "guides/")
	if want := []string{"guides/deploy.md", "guides/review.md"}; !reflect.DeepEqual(got, want) {
		t.Errorf("completeCenter = %v, want %v", got, want)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}

	if got, _ := completeCenter(nil, []string{filepath.Join(root, "missing")}, ""); got != nil {
		t.Errorf("missing root completed %v", got)
	}
}

func TestRegisterCompletionsWiresFlags(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	for _, name := range []string{"layout", "render", "explore"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatal(err)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s: root argument has no completion", name)
		}
	}

	layoutCmd, _, _ := root.Find([]string{"layout"})
	for _, flag := range []string{"engine", "rank-dir", "center"} {
		if _, ok := layoutCmd.GetFlagCompletionFunc(flag); !ok {
			t.Errorf("layout --%s has no completion", flag)
		}
	}
}

func TestCompletionScript(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "docgraph") {
		t.Error("bash script does not mention docgraph")
	}
}

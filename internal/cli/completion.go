package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/layout"
	"github.com/matzehuels/docgraph/pkg/layout/hierarchical"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/scan"
	"github.com/matzehuels/docgraph/pkg/source"
)

// completionCommand writes a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for docgraph.

Besides commands and flags, the scripts complete engine names, output
formats, rank directions, and --center documents read from the root folder
on the command line.

  $ source <(docgraph completion bash)
  $ docgraph completion zsh > "${fpath[1]}/_docgraph"
  $ docgraph completion fish > ~/.config/fish/completions/docgraph.fish
  PS> docgraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerCompletions attaches value completion to every command below root
// that takes a document folder or names an engine, format or center.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if strings.Contains(cmd.Use, "[root]") {
			cmd.ValidArgsFunction = completeRootDir
		}
		fixed := map[string][]string{
			"engine":   layout.Engines,
			"rank-dir": {hierarchical.TopToBottom, hierarchical.LeftToRight},
		}
		for name, values := range fixed {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
			}
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
		if cmd.Flags().Lookup("center") != nil {
			_ = cmd.RegisterFlagCompletionFunc("center", completeCenter)
		}
	}
}

func completeRootDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeFormats completes the last entry of a comma-separated format list,
// leaving out formats already chosen.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	chosen := strings.Split(toComplete, ",")
	prefix := strings.Join(chosen[:len(chosen)-1], ",")
	if prefix != "" {
		prefix += ","
	}
	partial := chosen[len(chosen)-1]

	var out []string
	for _, f := range sortedFormats() {
		if strings.HasPrefix(f, partial) && !slices.Contains(chosen[:len(chosen)-1], f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func sortedFormats() []string {
	out := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// completeCenter offers the documents under the root argument.
func completeCenter(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	root := rootArg(args)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	docs, err := scan.New(source.NewOS(), nil).Scan(root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, d := range docs {
		if strings.HasPrefix(d, toComplete) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, cobra.ShellCompDirectiveNoFileComp
}

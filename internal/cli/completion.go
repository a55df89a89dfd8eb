package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lobbymap/pkg/render/nodelink"
	"github.com/matzehuels/lobbymap/pkg/source"
)

// shells maps each supported shell to its script generator.
var shells = map[string]func(cmd *cobra.Command) error{
	"bash": func(cmd *cobra.Command) error {
		return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
	},
	"zsh": func(cmd *cobra.Command) error {
		return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
	},
	"fish": func(cmd *cobra.Command) error {
		return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
	},
	"powershell": func(cmd *cobra.Command) error {
		return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

// completionCommand creates the completion command. Besides command names,
// the scripts complete level and image flags to matching file types, --mod
// to the mods installed under --game and dot's --format to its formats.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion (bash|zsh|fish|powershell)",
		Short: "Generate shell completion scripts",
		Long: `Completion prints a shell completion script for lobbymap.

Level files complete to .bin, .yaml and .xml, screenshots to .png and graph
files to .json. Once --game is given, --mod completes to the mods found in
its Mods directory.`,
		Example: `  source <(lobbymap completion bash)
  lobbymap completion zsh > "${fpath[1]}/_lobbymap"
  lobbymap completion fish > ~/.config/fish/completions/lobbymap.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd)
		},
	}

	return cmd
}

// fileFlags restricts completion of each named flag to files with the given
// extensions.
func fileFlags(cmd *cobra.Command, exts []string, flags ...string) {
	for _, name := range flags {
		_ = cmd.MarkFlagFilename(name, exts...)
	}
}

var (
	levelExts = []string{"bin", "yaml", "yml", "xml"}
	imageExts = []string{"png"}
	graphExts = []string{"json"}
)

// completeMods completes --mod from the installation named by --game.
func completeMods(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	game, _ := cmd.Flags().GetString("game")
	if game == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := source.Installation{Path: game}.ModNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(nodelink.FormatDOT),
		string(nodelink.FormatSVG),
		string(nodelink.FormatPNG),
	}, cobra.ShellCompDirectiveNoFileComp
}

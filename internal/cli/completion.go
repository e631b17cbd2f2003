package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikilist/pkg/catalog"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for wikilist to stdout.

  bash:        source <(wikilist completion bash)
  zsh:         wikilist completion zsh > "${fpath[1]}/_wikilist"
  fish:        wikilist completion fish > ~/.config/fish/completions/wikilist.fish
  powershell:  wikilist completion powershell | Out-String | Invoke-Expression

Open a new shell afterwards. Catalog list names complete for build.`,
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

// completeListNames offers catalog list names for the first argument.
func (c *CLI) completeListNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, l := range c.completionCatalog().Lists {
		names = append(names, l.Name+"\t"+l.HeaderTitle())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completionCatalog loads the configured catalog. Completion runs without
// the root's pre-run hook, so the configuration is loaded here.
func (c *CLI) completionCatalog() *catalog.Catalog {
	if err := c.loadConfig(); err == nil {
		if cat, err := c.loadCatalog(""); err == nil {
			return cat
		}
	}
	return catalog.Builtin()
}

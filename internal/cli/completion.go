package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand exposes cobra's built-in completion generators.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate a shell completion script",
		Long: `Generate a completion script for drawbridge and print it to stdout.

Typical installs:

  bash:        drawbridge completion bash > /etc/bash_completion.d/drawbridge
  zsh:         drawbridge completion zsh > "${fpath[1]}/_drawbridge"
  fish:        drawbridge completion fish > ~/.config/fish/completions/drawbridge.fish
  powershell:  drawbridge completion powershell >> $PROFILE

Restart the shell (or source the script) afterwards.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zonesmith.

To load completions:

Bash:
  $ source <(zonesmith completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ zonesmith completion bash > /etc/bash_completion.d/zonesmith
  # macOS:
  $ zonesmith completion bash > $(brew --prefix)/etc/bash_completion.d/zonesmith

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ zonesmith completion zsh > "${fpath[1]}/_zonesmith"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ zonesmith completion fish | source

  # To load completions for each session, execute once:
  $ zonesmith completion fish > ~/.config/fish/completions/zonesmith.fish

PowerShell:
  PS> zonesmith completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> zonesmith completion powershell > zonesmith.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

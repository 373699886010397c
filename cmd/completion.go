package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchore/reprotar/internal"
	"github.com/anchore/reprotar/internal/stringutil"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate a shell completion script",
	Long: stringutil.Tprintf(`To load completions:

Bash:

$ source <({{.appName}} completion bash)

# To load completions for each session, execute once:
Linux:
  $ {{.appName}} completion bash > /etc/bash_completion.d/{{.appName}}
MacOS:
  $ {{.appName}} completion bash > /usr/local/etc/bash_completion.d/{{.appName}}

Zsh:

# If shell completion is not already enabled in your environment you will need
# to enable it.  You can execute the following once:

$ echo "autoload -U compinit; compinit" >> ~/.zshrc

# To load completions for each session, execute once:
$ {{.appName}} completion zsh > "${fpath[1]}/_{{.appName}}"

Fish:

$ {{.appName}} completion fish | source
`, map[string]interface{}{
		"appName": internal.ApplicationName,
	}),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

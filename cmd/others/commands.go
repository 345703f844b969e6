package others

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Actions defines host-side helpers and cross-cutting commands.
type Actions interface {
	OSTypes(cmd *cobra.Command, args []string) error
	Menu(cmd *cobra.Command, args []string) error
	Pick(cmd *cobra.Command, args []string) error
	Version(cmd *cobra.Command, args []string) error
}

// Commands builds the ostypes, menu, pick, version and completion commands.
func Commands(h Actions) []*cobra.Command {
	ostypesCmd := &cobra.Command{
		Use:   "ostypes",
		Short: "List guest OS types known to VirtualBox",
		Args:  cobra.NoArgs,
		RunE:  h.OSTypes,
	}
	ostypesCmd.Flags().String("regex", ".*", "only list types whose ID or description matches (case-insensitive)")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Generate a fluxbox menu with one entry per VM",
		Args:  cobra.NoArgs,
		RunE:  h.Menu,
	}
	menuCmd.Flags().StringP("output", "o", "", "write the menu to this file instead of stdout")
	menuCmd.Flags().String("launcher", "", "command each entry runs, followed by the VM UUID (default: <ui_binary> --startvm)")

	return []*cobra.Command{
		ostypesCmd,
		menuCmd,
		{
			Use:   "pick",
			Short: "Choose a VM from a numbered list and open it in the UI",
			Args:  cobra.NoArgs,
			RunE:  h.Pick,
		},
		{
			Use:   "version",
			Short: "Show version, git revision, and build timestamp",
			RunE:  h.Version,
		},
		{
			Use:       "completion [bash|zsh|fish|powershell]",
			Short:     "Generate shell completion script",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
			RunE: func(cmd *cobra.Command, args []string) error {
				root := cmd.Root()
				out := cmd.OutOrStdout()
				switch args[0] {
				case "bash":
					return root.GenBashCompletion(out)
				case "zsh":
					return root.GenZshCompletion(out)
				case "fish":
					return root.GenFishCompletion(out, true)
				case "powershell":
					return root.GenPowerShellCompletionWithDesc(out)
				default:
					return fmt.Errorf("unsupported shell: %s", args[0])
				}
			},
		},
	}
}

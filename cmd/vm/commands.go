package vm

import (
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
)

// Actions defines VM lifecycle operations.
type Actions interface {
	List(cmd *cobra.Command, args []string) error
	Info(cmd *cobra.Command, args []string) error
	Create(cmd *cobra.Command, args []string) error
	Import(cmd *cobra.Command, args []string) error
	Clone(cmd *cobra.Command, args []string) error
	Delete(cmd *cobra.Command, args []string) error
	Start(cmd *cobra.Command, args []string) error
	Stop(cmd *cobra.Command, args []string) error
	StopAll(cmd *cobra.Command, args []string) error
	Suspend(cmd *cobra.Command, args []string) error
	SuspendAll(cmd *cobra.Command, args []string) error
	Mount(cmd *cobra.Command, args []string) error
	Unmount(cmd *cobra.Command, args []string) error
}

// Commands builds the VM command set.
func Commands(h Actions) []*cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered VMs",
		Args:    cobra.NoArgs,
		RunE:    h.List,
	}
	listCmd.Flags().String("regex", ".*", "only list VMs whose name matches (case-insensitive)")
	listCmd.Flags().Bool("state", false, "query and show the state of each VM")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show machine-readable VM info",
		Args:  cobra.NoArgs,
		RunE:  h.Info,
	}
	cmdcore.AddTargetFlags(infoCmd)
	infoCmd.Flags().Bool("json", false, "print as JSON")
	infoCmd.Flags().StringSlice("key", nil, "only show these keys (repeatable)")

	createCmd := &cobra.Command{
		Use:   "create --name NAME [flags]",
		Short: "Create and register a new VM",
		Args:  cobra.NoArgs,
		RunE:  h.Create,
	}
	createCmd.Flags().StringP("name", "n", "", "VM name")
	createCmd.Flags().String("ostype", "", "guest OS type (see ostypes); detected from --iso when empty")
	createCmd.Flags().String("memory", "", "memory size (default from config, e.g. 1G)")
	createCmd.Flags().Int("cpus", 0, "CPUs (default from config)")
	createCmd.Flags().Int("vram", 0, "video memory in MiB (default from config)")
	createCmd.Flags().String("disk", "", "disk size (default from config, e.g. 32G)")
	createCmd.Flags().String("iso", "", "installer ISO to insert")
	createCmd.Flags().String("bridge", "", "host interface for bridged networking (default NAT)")
	createCmd.Flags().String("shared-folder", "", "host directory to share with the guest")
	createCmd.Flags().String("shared-name", "", "share name (default: directory basename)")
	_ = createCmd.MarkFlagRequired("name")

	importCmd := &cobra.Command{
		Use:   "import --file OVA [--new-name NAME]",
		Short: "Import an OVF/OVA appliance",
		Args:  cobra.NoArgs,
		RunE:  h.Import,
	}
	importCmd.Flags().String("file", "", "appliance file")
	importCmd.Flags().String("new-name", "", "name for the imported VM")
	_ = importCmd.MarkFlagRequired("file")

	cloneCmd := &cobra.Command{
		Use:   "clone --new-name NAME",
		Short: "Clone a VM",
		Args:  cobra.NoArgs,
		RunE:  h.Clone,
	}
	cmdcore.AddTargetFlags(cloneCmd)
	cloneCmd.Flags().String("new-name", "", "name of the clone")
	cloneCmd.Flags().String("snapshot", "", "clone from this snapshot")
	cloneCmd.Flags().Bool("linked", false, "create a linked clone (needs --snapshot)")
	_ = cloneCmd.MarkFlagRequired("new-name")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Unregister a VM and delete its files",
		Args:    cobra.NoArgs,
		RunE:    h.Delete,
	}
	cmdcore.AddTargetFlags(deleteCmd)
	deleteCmd.Flags().Bool("force", false, "power off a running VM first")

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start VM(s)",
		Args:  cobra.NoArgs,
		RunE:  h.Start,
	}
	cmdcore.AddTargetFlags(startCmd)
	startCmd.Flags().String("type", "headless", "frontend: headless, gui, separate or sdl")

	mountCmd := &cobra.Command{
		Use:   "mount --iso FILE",
		Short: "Insert an ISO into a DVD drive",
		Args:  cobra.NoArgs,
		RunE:  h.Mount,
	}
	cmdcore.AddTargetFlags(mountCmd)
	mountCmd.Flags().String("iso", "", "ISO file")
	addSlotFlags(mountCmd)
	_ = mountCmd.MarkFlagRequired("iso")

	unmountCmd := &cobra.Command{
		Use:   "unmount",
		Short: "Eject the medium from a DVD drive",
		Args:  cobra.NoArgs,
		RunE:  h.Unmount,
	}
	cmdcore.AddTargetFlags(unmountCmd)
	addSlotFlags(unmountCmd)

	return []*cobra.Command{
		listCmd,
		infoCmd,
		createCmd,
		importCmd,
		cloneCmd,
		deleteCmd,
		startCmd,
		powerCmd("stop", "Power off running VM(s)", h.Stop, true),
		powerCmd("stopall", "Power off every running VM", h.StopAll, false),
		powerCmd("suspend", "Save the state of running VM(s)", h.Suspend, true),
		powerCmd("suspendall", "Save the state of every running VM", h.SuspendAll, false),
		mountCmd,
		unmountCmd,
	}
}

func powerCmd(use, short string, run func(*cobra.Command, []string) error, targeted bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	if targeted {
		cmdcore.AddTargetFlags(cmd)
	}
	cmd.Flags().Bool("wait", false, "wait until each VM has left the running state")
	return cmd
}

func addSlotFlags(cmd *cobra.Command) {
	cmd.Flags().String("controller", "IDE", "storage controller name")
	cmd.Flags().Int("port", 1, "controller port")
	cmd.Flags().Int("device", 0, "device on the port")
}

package snapshot

import (
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
)

// Actions defines snapshot operations.
type Actions interface {
	Snapshot(cmd *cobra.Command, args []string) error
	Restore(cmd *cobra.Command, args []string) error
}

// Commands builds the snapshot command set.
func Commands(h Actions) []*cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a snapshot, replacing any snapshot with the same name",
		Args:  cobra.NoArgs,
		RunE:  h.Snapshot,
	}
	cmdcore.AddTargetFlags(snapshotCmd)
	snapshotCmd.Flags().String("snapshot-name", "base", "snapshot name")
	snapshotCmd.Flags().String("description", "", "snapshot description")
	snapshotCmd.Flags().Bool("no-delete", false, "keep an existing snapshot with the same name")
	snapshotCmd.Flags().Bool("no-live", false, "skip the live attempt")

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a snapshot, powering the VM off first",
		Args:  cobra.NoArgs,
		RunE:  h.Restore,
	}
	cmdcore.AddTargetFlags(restoreCmd)
	restoreCmd.Flags().String("snapshot-name", "", "snapshot to restore")
	restoreCmd.Flags().Bool("current", false, "restore the current snapshot")
	restoreCmd.MarkFlagsMutuallyExclusive("snapshot-name", "current")
	restoreCmd.MarkFlagsOneRequired("snapshot-name", "current")

	return []*cobra.Command{snapshotCmd, restoreCmd}
}

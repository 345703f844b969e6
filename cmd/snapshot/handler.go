package snapshot

import (
	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
	"github.com/projecteru2/vboxctl/lifecycle"
)

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) Snapshot(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	var opts lifecycle.SnapshotOptions
	opts.Name, _ = cmd.Flags().GetString("snapshot-name")
	opts.Description, _ = cmd.Flags().GetString("description")
	opts.SkipDelete, _ = cmd.Flags().GetBool("no-delete")
	opts.SkipLive, _ = cmd.Flags().GetBool("no-live")
	logger := log.WithFunc("cmd.snapshot")

	return env.Locked(ctx, "snapshot", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Snapshot", false)
		if err != nil {
			return err
		}
		vm := sel.One()
		rep, err := env.Manager.Snapshot(ctx, vm, opts)
		if err != nil {
			return err
		}
		if rep.FallbackUsed {
			logger.Infof(ctx, "snapshot %q of %s taken without --live", opts.Name, vm.Name)
		} else {
			logger.Infof(ctx, "snapshot %q of %s taken", opts.Name, vm.Name)
		}
		return nil
	})
}

func (h Handler) Restore(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	var opts lifecycle.RestoreOptions
	opts.Name, _ = cmd.Flags().GetString("snapshot-name")

	return env.Locked(ctx, "restore", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Restore", false)
		if err != nil {
			return err
		}
		vm := sel.One()
		if err := env.Manager.Restore(ctx, vm, opts); err != nil {
			return err
		}
		log.WithFunc("cmd.restore").Infof(ctx, "restored %s", vm.Name)
		return nil
	})
}

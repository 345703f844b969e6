package lifecycle

import (
	"context"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

// SnapshotOptions controls take-with-fallback.
type SnapshotOptions struct {
	Name        string
	Description string
	// SkipDelete keeps an existing snapshot with the same name.
	SkipDelete bool
	// SkipLive goes straight to a non-live snapshot.
	SkipLive bool
}

// SnapshotReport records which steps ran and how each ended.
type SnapshotReport struct {
	DeleteAttempted bool
	Deleted         bool
	LiveAttempted   bool
	LiveFailed      bool
	// FallbackUsed is true when a non-live snapshot was taken after a
	// failed live attempt.
	FallbackUsed bool
}

// Snapshot takes snapshot opts.Name of vm. It first deletes an existing
// snapshot of that name (failure ignored), then tries a live snapshot and
// falls back to a regular one. Only failure of the last attempt, or a fatal
// failure at any step, is returned.
func (m *Manager) Snapshot(ctx context.Context, vm types.VM, opts SnapshotOptions) (SnapshotReport, error) {
	logger := log.WithFunc("lifecycle.Snapshot")
	var rep SnapshotReport
	if opts.Name == "" {
		return rep, fmt.Errorf("%w: snapshot name is empty", ErrInvalid)
	}

	if !opts.SkipDelete {
		rep.DeleteAttempted = true
		res := m.exec.Run(ctx, vbox.SnapshotDelete(vm.ID, opts.Name))
		switch res.Kind {
		case vbox.KindOK:
			rep.Deleted = true
		case vbox.KindRecoverable:
			logger.Infof(ctx, "could not delete snapshot %q of %s, it probably didn't exist: %v", opts.Name, vm.Name, res.Err)
		default:
			return rep, failure("delete snapshot of", vm, res)
		}
	}

	if !opts.SkipLive {
		rep.LiveAttempted = true
		res := m.exec.Run(ctx, vbox.SnapshotTake(vm.ID, opts.Name, opts.Description, true))
		switch res.Kind {
		case vbox.KindOK:
			return rep, nil
		case vbox.KindRecoverable:
			rep.LiveFailed = true
			logger.Warnf(ctx, "live snapshot of %s failed, trying a regular snapshot: %v", vm.Name, res.Err)
		default:
			return rep, failure("snapshot", vm, res)
		}
	}

	rep.FallbackUsed = rep.LiveAttempted
	if res := m.exec.Run(ctx, vbox.SnapshotTake(vm.ID, opts.Name, opts.Description, false)); !res.OK() {
		return rep, failure("snapshot", vm, res)
	}
	return rep, nil
}

// RestoreOptions selects the snapshot to restore. An empty Name restores
// the current snapshot.
type RestoreOptions struct {
	Name string
}

// Restore brings vm back to a snapshot. A running VM is powered off first
// and a saved state is discarded, since VirtualBox refuses to restore over
// either.
func (m *Manager) Restore(ctx context.Context, vm types.VM, opts RestoreOptions) error {
	state, err := m.client.State(ctx, vm.ID)
	if err != nil {
		return fmt.Errorf("query state of %s: %w", vm.Name, err)
	}

	switch state {
	case types.VMStateRunning, types.VMStatePaused:
		if state == types.VMStatePaused {
			if res := m.exec.Run(ctx, vbox.ControlVM(vm.ID, vbox.PowerOff)); !res.OK() {
				return failure("poweroff", vm, res)
			}
		} else {
			out, err := m.Stop(ctx, vm, true)
			if err != nil {
				return err
			}
			if !out.Settled {
				return fmt.Errorf("%w: %s did not power off in time (state %s)", ErrRunning, vm.Name, out.After)
			}
		}
	case types.VMStateSaved:
		if res := m.exec.Run(ctx, vbox.DiscardState(vm.ID)); !res.OK() {
			return failure("discard state of", vm, res)
		}
	}

	restore := vbox.SnapshotRestoreCurrent(vm.ID)
	if opts.Name != "" {
		restore = vbox.SnapshotRestore(vm.ID, opts.Name)
	}
	if res := m.exec.Run(ctx, restore); !res.OK() {
		return failure("restore", vm, res)
	}
	return nil
}

package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/utils"
	"github.com/projecteru2/vboxctl/vbox"
)

// PowerOutcome records what the power state machine did for one VM.
type PowerOutcome struct {
	VM     types.VM
	Before types.VMState
	After  types.VMState
	// Issued is true when controlvm was run.
	Issued bool
	// Settled is true when a requested wait observed the VM leave the
	// running state before the timeout.
	Settled bool
}

// Stop powers vm off if it is running.
func (m *Manager) Stop(ctx context.Context, vm types.VM, wait bool) (PowerOutcome, error) {
	return m.Power(ctx, vm, vbox.PowerOff, wait)
}

// Suspend saves the state of vm if it is running.
func (m *Manager) Suspend(ctx context.Context, vm types.VM, wait bool) (PowerOutcome, error) {
	return m.Power(ctx, vm, vbox.SaveState, wait)
}

// Power queries the state of vm; when it is running, issues exactly one
// controlvm action and, if wait is set, polls until the VM is no longer
// running or the stop timeout passes. Any other state is a no-op.
//
// The wait is best effort: a timeout is logged, not returned, and callers
// must check Settled before assuming the guest is down.
func (m *Manager) Power(ctx context.Context, vm types.VM, action vbox.PowerAction, wait bool) (PowerOutcome, error) {
	logger := log.WithFunc("lifecycle.Power")

	state, err := m.client.State(ctx, vm.ID)
	if err != nil {
		return PowerOutcome{VM: vm}, fmt.Errorf("query state of %s: %w", vm.Name, err)
	}
	out := PowerOutcome{VM: vm, Before: state, After: state}
	if state != types.VMStateRunning {
		logger.Infof(ctx, "%s is %s, nothing to do", vm.Name, state)
		return out, nil
	}

	res := m.exec.Run(ctx, vbox.ControlVM(vm.ID, action))
	if !res.OK() {
		return out, failure(string(action), vm, res)
	}
	out.Issued = true
	if !wait {
		return out, nil
	}

	after, settled, err := m.waitSettled(ctx, vm)
	out.After, out.Settled = after, settled
	return out, err
}

// waitSettled polls the state of vm until it leaves running and the
// transitional states. Only cancellation or a missing tool is an error.
func (m *Manager) waitSettled(ctx context.Context, vm types.VM) (types.VMState, bool, error) {
	logger := log.WithFunc("lifecycle.waitSettled")
	last := types.VMStateRunning
	err := utils.WaitFor(ctx, m.conf.StopTimeout(), m.conf.PollInterval(), func() (bool, error) {
		s, err := m.client.State(ctx, vm.ID)
		if err != nil {
			return false, err
		}
		last = s
		return !transitional(s), nil
	})
	switch {
	case err == nil:
		return last, true, nil
	case ctx.Err() != nil:
		return last, false, ctx.Err()
	case vbox.Classify(err) == vbox.KindFatal && !errors.Is(err, utils.ErrWaitTimeout):
		return last, false, err
	default:
		logger.Warnf(ctx, "%s still %s: %v", vm.Name, last, err)
		return last, false, nil
	}
}

func transitional(s types.VMState) bool {
	switch s {
	case types.VMStateRunning, types.VMStateStopping, types.VMStateSaving:
		return true
	}
	return false
}

// PowerAll applies Power to every VM in order. Failures of individual VMs
// are collected and the loop continues; a missing tool stops it at once.
// The returned outcomes cover every VM that was handled successfully.
func (m *Manager) PowerAll(ctx context.Context, vms []types.VM, action vbox.PowerAction, wait bool) ([]PowerOutcome, error) {
	var outcomes []PowerOutcome
	err := forEachVM(ctx, vms, string(action), func(ctx context.Context, vm types.VM) error {
		o, err := m.Power(ctx, vm, action, wait)
		if err != nil {
			return err
		}
		outcomes = append(outcomes, o)
		return nil
	})
	return outcomes, err
}

// Start boots every VM that is not already running, with the given
// frontend type (headless, gui, separate).
func (m *Manager) Start(ctx context.Context, vms []types.VM, typ string) ([]types.VM, error) {
	logger := log.WithFunc("lifecycle.Start")
	var started []types.VM
	err := forEachVM(ctx, vms, "start", func(ctx context.Context, vm types.VM) error {
		state, err := m.client.State(ctx, vm.ID)
		if err != nil {
			return err
		}
		if state == types.VMStateRunning {
			logger.Infof(ctx, "%s is already running", vm.Name)
			return nil
		}
		if res := m.exec.Run(ctx, vbox.StartVM(vm.ID, typ)); !res.OK() {
			return res.Err
		}
		started = append(started, vm)
		return nil
	})
	return started, err
}

// LaunchUI starts the configured UI binary for vm detached from this
// process. The child is not waited on.
func (m *Manager) LaunchUI(ctx context.Context, vm types.VM) (int, error) {
	pid, err := utils.StartDetached(m.conf.UIBinary, "--startvm", vm.ID)
	if err != nil {
		return 0, fmt.Errorf("launch UI for %s: %w", vm.Name, err)
	}
	log.WithFunc("lifecycle.LaunchUI").Infof(ctx, "launched %s for %s (pid %d)", m.conf.UIBinary, vm.Name, pid)
	return pid, nil
}

// forEachVM runs fn for each VM. Recoverable failures are logged and
// collected; fatal ones abort the loop.
func forEachVM(ctx context.Context, vms []types.VM, op string, fn func(context.Context, types.VM) error) error {
	logger := log.WithFunc("lifecycle." + op)
	var errs []error
	for _, vm := range vms {
		err := fn(ctx, vm)
		if err == nil {
			continue
		}
		if vbox.Classify(err) == vbox.KindFatal {
			return errors.Join(append(errs, fmt.Errorf("%s %s: %w", op, vm.Name, err))...)
		}
		logger.Warnf(ctx, "%s %s: %v", op, vm.Name, err)
		errs = append(errs, fmt.Errorf("%s %s: %w", op, vm.Name, err))
	}
	return errors.Join(errs...)
}

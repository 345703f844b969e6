package lifecycle

import (
	"context"
	"fmt"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

// Delete unregisters vm and deletes its files. A running or paused VM is
// refused unless force is set, in which case it is powered off first.
func (m *Manager) Delete(ctx context.Context, vm types.VM, force bool) error {
	state, err := m.client.State(ctx, vm.ID)
	if err != nil {
		return fmt.Errorf("query state of %s: %w", vm.Name, err)
	}
	switch state {
	case types.VMStateRunning, types.VMStatePaused:
		if !force {
			return fmt.Errorf("%w: %s is %s (use --force to power it off first)", ErrRunning, vm.Name, state)
		}
		if res := m.exec.Run(ctx, vbox.ControlVM(vm.ID, vbox.PowerOff)); !res.OK() {
			return failure("poweroff", vm, res)
		}
		if _, settled, err := m.waitSettled(ctx, vm); err != nil {
			return err
		} else if !settled {
			return fmt.Errorf("%w: %s did not power off in time", ErrRunning, vm.Name)
		}
	}
	if res := m.exec.Run(ctx, vbox.UnregisterVM(vm.ID)); !res.OK() {
		return failure("delete", vm, res)
	}
	return nil
}

// Mount inserts the ISO at a.Medium into the DVD slot a of vm.
func (m *Manager) Mount(ctx context.Context, vm types.VM, a vbox.Attachment) error {
	if err := requireFile("ISO", a.Medium); err != nil {
		return err
	}
	a.Type = "dvddrive"
	if res := m.exec.Run(ctx, vbox.StorageAttach(vm.ID, a)); !res.OK() {
		return failure("mount on", vm, res)
	}
	return nil
}

// Unmount ejects the DVD in slot a of vm.
func (m *Manager) Unmount(ctx context.Context, vm types.VM, a vbox.Attachment) error {
	a.Type = "dvddrive"
	a.Medium = vbox.EmptyDrive
	if res := m.exec.Run(ctx, vbox.StorageAttach(vm.ID, a)); !res.OK() {
		return failure("unmount from", vm, res)
	}
	return nil
}

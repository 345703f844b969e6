package vbox

import (
	"context"
	"fmt"

	"github.com/projecteru2/vboxctl/types"
)

// Client issues read-only queries against VBoxManage. Queries are not echoed
// to the operator; only Executor sequences are.
type Client struct {
	runner Runner
}

// NewClient returns a Client backed by runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// Directory runs `list vms` once and builds the validated directory.
func (c *Client) Directory(ctx context.Context) (*Directory, error) {
	out, err := c.runner.Run(ctx, ListVMs())
	if err != nil {
		return nil, fmt.Errorf("list vms: %w", err)
	}
	return ParseDirectory(out)
}

// Info returns the machine-readable properties of vm (name or UUID).
func (c *Client) Info(ctx context.Context, vm string) (*types.MachineInfo, error) {
	out, err := c.runner.Run(ctx, ShowVMInfo(vm))
	if err != nil {
		return nil, fmt.Errorf("showvminfo %s: %w", vm, err)
	}
	return ParseMachineInfo(out), nil
}

// State returns the live VMState of vm.
func (c *Client) State(ctx context.Context, vm string) (types.VMState, error) {
	info, err := c.Info(ctx, vm)
	if err != nil {
		return types.VMStateUnknown, err
	}
	return info.State(), nil
}

// Statuses queries the state of each VM in order.
func (c *Client) Statuses(ctx context.Context, vms []types.VM) ([]types.VMStatus, error) {
	out := make([]types.VMStatus, 0, len(vms))
	for _, vm := range vms {
		state, err := c.State(ctx, vm.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.VMStatus{VM: vm, State: state})
	}
	return out, nil
}

// OSTypes returns the guest OS types VirtualBox knows about.
func (c *Client) OSTypes(ctx context.Context) ([]types.OSType, error) {
	out, err := c.runner.Run(ctx, ListOSTypes())
	if err != nil {
		return nil, fmt.Errorf("list ostypes: %w", err)
	}
	return ParseOSTypes(out), nil
}

// DetectOSType asks `unattended detect` which OS type an installer ISO holds.
// An empty string with nil error means nothing was detected.
func (c *Client) DetectOSType(ctx context.Context, iso string) (string, error) {
	out, err := c.runner.Run(ctx, UnattendedDetect(iso))
	if err != nil {
		return "", fmt.Errorf("unattended detect %s: %w", iso, err)
	}
	id, _ := ParseMachineInfo(out).Get("OSTypeId")
	return id, nil
}

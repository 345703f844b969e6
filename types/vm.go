package types

// VMState is the VirtualBox machine state as reported by
// `showvminfo --machinereadable` (the VMState key).
type VMState string

const (
	VMStateRunning  VMState = "running"
	VMStatePoweroff VMState = "poweroff"
	VMStateSaved    VMState = "saved"
	VMStatePaused   VMState = "paused"
	VMStateAborted  VMState = "aborted"
	VMStateStarting VMState = "starting"
	VMStateStopping VMState = "stopping"
	VMStateSaving   VMState = "saving"
	VMStateUnknown  VMState = "unknown"
)

// VM is the identity of a registered machine: its display name and UUID.
type VM struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// VMStatus pairs an identity with its live state, used for listings and
// confirmation tables.
type VMStatus struct {
	VM
	State VMState `json:"state"`
}

// VMConfig describes the resources requested for a new VM.
type VMConfig struct {
	Name       string `json:"name"`
	OSType     string `json:"os_type"`
	CPU        int    `json:"cpu"`
	Memory     int64  `json:"memory"` // bytes
	VRAM       int    `json:"vram"`   // MiB
	Disk       int64  `json:"disk"`   // bytes
	BaseFolder string `json:"base_folder"`
	DiskFile   string `json:"disk_file"`

	ISO    string `json:"iso,omitempty"`
	Bridge string `json:"bridge,omitempty"`

	SharedFolder string `json:"shared_folder,omitempty"`
	SharedName   string `json:"shared_name,omitempty"`
}

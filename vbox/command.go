package vbox

import (
	"strconv"
	"strings"
)

// PowerAction is the controlvm verb used to take a running VM down.
type PowerAction string

const (
	PowerOff  PowerAction = "poweroff"
	SaveState PowerAction = "savestate"
)

// Command is one VBoxManage invocation as an argument vector. Arguments are
// never passed through a shell.
type Command struct {
	Args []string
}

// Verb returns the VBoxManage subcommand, e.g. "createvm".
func (c Command) Verb() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the arguments shell-quoted, for display only.
func (c Command) String() string {
	return quoteArgs(c.Args)
}

func cmd(args ...string) Command { return Command{Args: args} }

func ListVMs() Command     { return cmd("list", "vms") }
func ListOSTypes() Command { return cmd("list", "ostypes") }

func ShowVMInfo(vm string) Command {
	return cmd("showvminfo", vm, "--machinereadable")
}

// CreateVM registers a new VM. baseFolder may be empty to use the
// VirtualBox default machine folder.
func CreateVM(name, osType, baseFolder string) Command {
	args := []string{"createvm", "--name", name, "--ostype", osType, "--register"}
	if baseFolder != "" {
		args = append(args, "--basefolder", baseFolder)
	}
	return cmd(args...)
}

// ModifyVM sets flag/value pairs on vm, e.g. ModifyVM(n, "--memory", "1024").
func ModifyVM(vm string, settings ...string) Command {
	return cmd(append([]string{"modifyvm", vm}, settings...)...)
}

func StorageCtl(vm, name, bus, controller string) Command {
	args := []string{"storagectl", vm, "--name", name, "--add", bus}
	if controller != "" {
		args = append(args, "--controller", controller)
	}
	return cmd(args...)
}

func CreateHD(filename string, sizeMB int64) Command {
	return cmd("createhd", "--filename", filename, "--size", strconv.FormatInt(sizeMB, 10))
}

// Attachment addresses one slot of a storage controller.
type Attachment struct {
	Controller string
	Port       int
	Device     int
	Type       string // hdd, dvddrive
	Medium     string // file path, "emptydrive" or "none"
}

// EmptyDrive is the medium that ejects a DVD drive.
const EmptyDrive = "emptydrive"

func StorageAttach(vm string, a Attachment) Command {
	return cmd("storageattach", vm,
		"--storagectl", a.Controller,
		"--port", strconv.Itoa(a.Port),
		"--device", strconv.Itoa(a.Device),
		"--type", a.Type,
		"--medium", a.Medium)
}

func SharedFolderAdd(vm, name, hostPath string) Command {
	return cmd("sharedfolder", "add", vm, "--name", name, "--hostpath", hostPath, "--automount")
}

func SnapshotTake(vm, name, description string, live bool) Command {
	args := []string{"snapshot", vm, "take", name}
	if description != "" {
		args = append(args, "--description", description)
	}
	if live {
		args = append(args, "--live")
	}
	return cmd(args...)
}

func SnapshotDelete(vm, name string) Command  { return cmd("snapshot", vm, "delete", name) }
func SnapshotRestore(vm, name string) Command { return cmd("snapshot", vm, "restore", name) }
func SnapshotRestoreCurrent(vm string) Command {
	return cmd("snapshot", vm, "restorecurrent")
}

func ControlVM(vm string, action PowerAction) Command {
	return cmd("controlvm", vm, string(action))
}

func StartVM(vm, typ string) Command { return cmd("startvm", vm, "--type", typ) }

func DiscardState(vm string) Command { return cmd("discardstate", vm) }

// UnregisterVM unregisters vm and deletes all its files.
func UnregisterVM(vm string) Command { return cmd("unregistervm", vm, "--delete") }

// CloneOptions controls clonevm.
type CloneOptions struct {
	Name     string
	Snapshot string
	Linked   bool
}

func CloneVM(vm string, o CloneOptions) Command {
	args := []string{"clonevm", vm, "--name", o.Name, "--register"}
	if o.Snapshot != "" {
		args = append(args, "--snapshot", o.Snapshot)
	}
	if o.Linked {
		args = append(args, "--options", "link")
	}
	return cmd(args...)
}

// Import imports an appliance; vmName renames the first virtual system when set.
func Import(file, vmName string) Command {
	args := []string{"import", file}
	if vmName != "" {
		args = append(args, "--vsys", "0", "--vmname", vmName)
	}
	return cmd(args...)
}

func UnattendedDetect(iso string) Command {
	return cmd("unattended", "detect", "--iso", iso, "--machine-readable")
}

func quoteArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = shellQuote(a)
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

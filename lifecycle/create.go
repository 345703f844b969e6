package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/utils"
	"github.com/projecteru2/vboxctl/vbox"
)

const (
	sataController = "SATA"
	ideController  = "IDE"
	mib            = 1 << 20
)

// DiskPath is where the primary disk of cfg is created.
func DiskPath(cfg types.VMConfig) string {
	return filepath.Join(cfg.BaseFolder, cfg.Name, cfg.DiskFile)
}

// ProvisionPlan returns the ordered commands that create and configure a
// new VM. Commands address the VM by name: it has no UUID until createvm.
func ProvisionPlan(cfg types.VMConfig) []vbox.Command {
	name := cfg.Name
	disk := DiskPath(cfg)

	plan := []vbox.Command{
		vbox.CreateVM(name, cfg.OSType, cfg.BaseFolder),
		vbox.ModifyVM(name,
			"--memory", strconv.FormatInt(cfg.Memory/mib, 10),
			"--cpus", strconv.Itoa(cfg.CPU),
			"--vram", strconv.Itoa(cfg.VRAM),
			"--graphicscontroller", "vmsvga",
			"--ioapic", "on"),
	}
	if cfg.Bridge != "" {
		plan = append(plan, vbox.ModifyVM(name, "--nic1", "bridged", "--bridgeadapter1", cfg.Bridge))
	} else {
		plan = append(plan, vbox.ModifyVM(name, "--nic1", "nat"))
	}
	plan = append(plan,
		vbox.StorageCtl(name, sataController, "sata", "IntelAhci"),
		vbox.StorageCtl(name, ideController, "ide", ""),
		vbox.CreateHD(disk, cfg.Disk/mib),
		vbox.StorageAttach(name, vbox.Attachment{Controller: sataController, Type: "hdd", Medium: disk}),
	)
	if cfg.ISO != "" {
		plan = append(plan, vbox.StorageAttach(name, vbox.Attachment{Controller: ideController, Type: "dvddrive", Medium: cfg.ISO}))
	}
	if cfg.SharedFolder != "" {
		share := cfg.SharedName
		if share == "" {
			share = filepath.Base(cfg.SharedFolder)
		}
		plan = append(plan, vbox.SharedFolderAdd(name, share, cfg.SharedFolder))
	}
	return plan
}

// Create provisions a new VM. If any provisioning step fails, the partially
// created VM is unregistered and deleted by name, exactly once, and the
// original failure is returned. A rollback failure is only logged.
func (m *Manager) Create(ctx context.Context, dir *vbox.Directory, cfg types.VMConfig) error {
	logger := log.WithFunc("lifecycle.Create")
	if cfg.Name == "" {
		return fmt.Errorf("%w: missing --name", ErrInvalid)
	}
	if err := requireFreeName(dir, cfg.Name); err != nil {
		return err
	}
	if cfg.ISO != "" {
		if err := requireFile("ISO", cfg.ISO); err != nil {
			return err
		}
	}
	if cfg.SharedFolder != "" {
		if !utils.DirExists(cfg.SharedFolder) {
			return fmt.Errorf("%w: shared folder %s", ErrMissingFile, cfg.SharedFolder)
		}
	}
	if cfg.OSType == "" {
		ostype, err := m.detectOSType(ctx, cfg.ISO)
		if err != nil {
			return err
		}
		cfg.OSType = ostype
	}

	plan := ProvisionPlan(cfg)
	res := m.exec.Run(ctx, plan...)
	switch res.Kind {
	case vbox.KindOK:
		logger.Infof(ctx, "created %s (%s, %d commands)", cfg.Name, cfg.OSType, res.Done)
		return nil
	case vbox.KindFatal:
		return fmt.Errorf("create %s: %w", cfg.Name, res.Err)
	}

	logger.Warnf(ctx, "create %s failed at step %d/%d, rolling back", cfg.Name, res.Done+1, len(plan))
	if rb := m.exec.Run(ctx, vbox.UnregisterVM(cfg.Name)); !rb.OK() {
		logger.Warnf(ctx, "rollback of %s failed: %v", cfg.Name, rb.Err)
	}
	if i := diskStep(plan); i >= 0 && i < res.Done {
		m.removeOrphanDisk(ctx, DiskPath(cfg))
	}
	return fmt.Errorf("create %s: %w", cfg.Name, res.Err)
}

// detectOSType picks the OS type for a new VM: the one `unattended detect`
// reports for iso, else the configured default. Detection is best effort.
func (m *Manager) detectOSType(ctx context.Context, iso string) (string, error) {
	if iso == "" {
		return m.conf.DefaultOSType, nil
	}
	logger := log.WithFunc("lifecycle.detectOSType")
	id, err := m.client.DetectOSType(ctx, iso)
	switch {
	case err == nil && id != "":
		logger.Infof(ctx, "detected OS type %s from %s", id, iso)
		return id, nil
	case err == nil:
		logger.Infof(ctx, "no OS type detected from %s, using %s", iso, m.conf.DefaultOSType)
	case vbox.Classify(err) == vbox.KindRecoverable:
		logger.Infof(ctx, "OS type detection failed, using %s: %v", m.conf.DefaultOSType, err)
	default:
		return "", err
	}
	return m.conf.DefaultOSType, nil
}

// diskStep is the index of the createhd command in plan, or -1.
func diskStep(plan []vbox.Command) int {
	for i, c := range plan {
		if c.Verb() == "createhd" {
			return i
		}
	}
	return -1
}

// removeOrphanDisk deletes a disk image that this run's createhd made but
// unregistervm did not remove because it was never attached.
func (m *Manager) removeOrphanDisk(ctx context.Context, path string) {
	if err := os.Remove(path); err == nil {
		log.WithFunc("lifecycle.removeOrphanDisk").Infof(ctx, "removed %s", path)
	}
}

// Import imports an OVF/OVA appliance, optionally renaming it.
func (m *Manager) Import(ctx context.Context, dir *vbox.Directory, file, newName string) error {
	if err := requireFile("appliance", file); err != nil {
		return err
	}
	if newName != "" {
		if err := requireFreeName(dir, newName); err != nil {
			return err
		}
	}
	if res := m.exec.Run(ctx, vbox.Import(file, newName)); !res.OK() {
		return fmt.Errorf("import %s: %w", file, res.Err)
	}
	return nil
}

// Clone registers a full or linked clone of vm.
func (m *Manager) Clone(ctx context.Context, dir *vbox.Directory, vm types.VM, opts vbox.CloneOptions) error {
	if opts.Name == "" {
		return fmt.Errorf("%w: missing --new-name", ErrInvalid)
	}
	if opts.Linked && opts.Snapshot == "" {
		return fmt.Errorf("%w: a linked clone needs --snapshot", ErrInvalid)
	}
	if err := requireFreeName(dir, opts.Name); err != nil {
		return err
	}
	if res := m.exec.Run(ctx, vbox.CloneVM(vm.ID, opts)); !res.OK() {
		return failure("clone", vm, res)
	}
	return nil
}

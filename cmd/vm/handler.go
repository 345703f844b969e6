package vm

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
	"github.com/projecteru2/vboxctl/lifecycle"
	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

var startTypes = []string{"headless", "gui", "separate", "sdl"}

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) List(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	pattern, _ := cmd.Flags().GetString("regex")
	withState, _ := cmd.Flags().GetBool("state")

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("%w %q: %v", vbox.ErrBadPattern, pattern, err)
	}
	dir, err := env.Client.Directory(ctx)
	if err != nil {
		return err
	}
	vms := dir.Match(re)
	if len(vms) == 0 {
		_, _ = fmt.Fprintln(env.Out, "No VMs found.")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	if !withState {
		_, _ = fmt.Fprintln(w, "UUID\tNAME")
		for _, vm := range vms {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", vm.ID, vm.Name)
		}
		return w.Flush()
	}
	statuses, err := env.Client.Statuses(ctx, vms)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "UUID\tNAME\tSTATE")
	for _, s := range statuses {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.State)
	}
	return w.Flush()
}

func (h Handler) Info(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	keys, _ := cmd.Flags().GetStringSlice("key")

	sel, err := env.Resolve(ctx, cmd, cmdcore.Single)
	if err != nil {
		return err
	}
	info, err := env.Client.Info(ctx, sel.One().ID)
	if err != nil {
		return err
	}

	props := info.Map()
	if len(keys) > 0 {
		picked := make(map[string]string, len(keys))
		for _, k := range keys {
			if v, ok := props[k]; ok {
				picked[k] = v
			}
		}
		props = picked
	}

	if asJSON {
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(props)
	}
	sorted := make([]string, 0, len(props))
	for k := range props {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)
	for _, k := range sorted {
		_, _ = fmt.Fprintf(env.Out, "%s=%s\n", k, humanize(k, props[k]))
	}
	return nil
}

// humanize appends a readable size to the MiB-valued memory keys.
func humanize(key, value string) string {
	switch key {
	case "memory", "vram":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return fmt.Sprintf("%s (%s)", value, cmdcore.FormatMiB(n))
		}
	}
	return value
}

func (h Handler) Create(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	cfg, err := vmConfigFromFlags(cmd, env)
	if err != nil {
		return err
	}
	logger := log.WithFunc("cmd.create")

	return env.Locked(ctx, "create", func() error {
		dir, err := env.Client.Directory(ctx)
		if err != nil {
			return err
		}
		if err := env.Manager.Create(ctx, dir, cfg); err != nil {
			return err
		}
		if dir, err = env.Client.Directory(ctx); err == nil {
			if id, ok := dir.IDByName(cfg.Name); ok {
				logger.Infof(ctx, "VM created: %s {%s}", cfg.Name, id)
				logger.Infof(ctx, "start with: vboxctl start --uuid %s", id)
				return nil
			}
		}
		logger.Infof(ctx, "VM created: %s", cfg.Name)
		return nil
	})
}

// vmConfigFromFlags builds the VMConfig for create, filling unset flags from
// the config defaults.
func vmConfigFromFlags(cmd *cobra.Command, env *cmdcore.Env) (types.VMConfig, error) {
	conf := env.Conf
	name, _ := cmd.Flags().GetString("name")
	osType, _ := cmd.Flags().GetString("ostype")
	cpus, _ := cmd.Flags().GetInt("cpus")
	vram, _ := cmd.Flags().GetInt("vram")
	iso, _ := cmd.Flags().GetString("iso")
	bridge, _ := cmd.Flags().GetString("bridge")
	shared, _ := cmd.Flags().GetString("shared-folder")
	shareName, _ := cmd.Flags().GetString("shared-name")

	memory, err := cmdcore.SizeFlag(cmd, "memory", conf.DefaultMemory)
	if err != nil {
		return types.VMConfig{}, err
	}
	disk, err := cmdcore.SizeFlag(cmd, "disk", conf.DiskSize)
	if err != nil {
		return types.VMConfig{}, err
	}
	if cpus <= 0 {
		cpus = conf.DefaultCPUs
	}
	if vram <= 0 {
		vram = conf.DefaultVRAM
	}
	if bridge == "" {
		bridge = conf.Bridge
	}
	if iso, err = absPath(iso); err != nil {
		return types.VMConfig{}, err
	}
	if shared, err = absPath(shared); err != nil {
		return types.VMConfig{}, err
	}

	return types.VMConfig{
		Name:         name,
		OSType:       osType,
		CPU:          cpus,
		Memory:       memory,
		VRAM:         vram,
		Disk:         disk,
		BaseFolder:   conf.VMDir,
		DiskFile:     conf.DiskFile,
		ISO:          iso,
		Bridge:       bridge,
		SharedFolder: shared,
		SharedName:   shareName,
	}, nil
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

func (h Handler) Import(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	file, _ := cmd.Flags().GetString("file")
	newName, _ := cmd.Flags().GetString("new-name")
	if file, err = absPath(file); err != nil {
		return err
	}

	return env.Locked(ctx, "import", func() error {
		dir, err := env.Client.Directory(ctx)
		if err != nil {
			return err
		}
		if err := env.Manager.Import(ctx, dir, file, newName); err != nil {
			return err
		}
		log.WithFunc("cmd.import").Infof(ctx, "imported %s", file)
		return nil
	})
}

func (h Handler) Clone(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	var opts vbox.CloneOptions
	opts.Name, _ = cmd.Flags().GetString("new-name")
	opts.Snapshot, _ = cmd.Flags().GetString("snapshot")
	opts.Linked, _ = cmd.Flags().GetBool("linked")

	return env.Locked(ctx, "clone", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Clone", false)
		if err != nil {
			return err
		}
		vm := sel.One()
		if err := env.Manager.Clone(ctx, sel.Dir, vm, opts); err != nil {
			return err
		}
		log.WithFunc("cmd.clone").Infof(ctx, "cloned %s to %s", vm.Name, opts.Name)
		return nil
	})
}

func (h Handler) Delete(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	return env.Locked(ctx, "delete", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Delete", true)
		if err != nil {
			return err
		}
		vm := sel.One()
		if err := env.Manager.Delete(ctx, vm, force); err != nil {
			return err
		}
		log.WithFunc("cmd.delete").Infof(ctx, "deleted %s {%s}", vm.Name, vm.ID)
		return nil
	})
}

func (h Handler) Start(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	typ, _ := cmd.Flags().GetString("type")
	if !slices.Contains(startTypes, typ) {
		return fmt.Errorf("%w: --type must be one of %v", lifecycle.ErrInvalid, startTypes)
	}
	logger := log.WithFunc("cmd.start")

	return env.Locked(ctx, "start", func() error {
		mode := cmdcore.Multi
		if typ == "sdl" {
			mode = cmdcore.Single
		}
		sel, err := env.ResolveConfirmed(ctx, cmd, mode, "Start", false)
		if err != nil {
			return err
		}
		if typ == "sdl" {
			_, err := env.Manager.LaunchUI(ctx, sel.One())
			return err
		}
		started, err := env.Manager.Start(ctx, sel.Targets, typ)
		for _, vm := range started {
			logger.Infof(ctx, "started: %s", vm.Name)
		}
		return err
	})
}

func (h Handler) Stop(cmd *cobra.Command, _ []string) error {
	return h.power(cmd, vbox.PowerOff, cmdcore.Multi)
}

func (h Handler) StopAll(cmd *cobra.Command, _ []string) error {
	return h.power(cmd, vbox.PowerOff, cmdcore.All)
}

func (h Handler) Suspend(cmd *cobra.Command, _ []string) error {
	return h.power(cmd, vbox.SaveState, cmdcore.Multi)
}

func (h Handler) SuspendAll(cmd *cobra.Command, _ []string) error {
	return h.power(cmd, vbox.SaveState, cmdcore.All)
}

// power is the shared body of stop, suspend and their -all forms.
func (h Handler) power(cmd *cobra.Command, action vbox.PowerAction, mode cmdcore.TargetMode) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	wait, _ := cmd.Flags().GetBool("wait")
	logger := log.WithFunc("cmd." + cmd.Name())

	return env.Locked(ctx, cmd.Name(), func() error {
		verb := "Power off"
		if action == vbox.SaveState {
			verb = "Suspend"
		}
		sel, err := env.ResolveConfirmed(ctx, cmd, mode, verb, false)
		if err != nil {
			return err
		}
		outcomes, err := env.Manager.PowerAll(ctx, sel.Targets, action, wait)
		for _, o := range outcomes {
			switch {
			case !o.Issued:
				logger.Infof(ctx, "%s: already %s", o.VM.Name, o.Before)
			case wait && !o.Settled:
				logger.Warnf(ctx, "%s: %s issued, still %s", o.VM.Name, action, o.After)
			default:
				logger.Infof(ctx, "%s: %s -> %s", o.VM.Name, o.Before, o.After)
			}
		}
		return err
	})
}

func (h Handler) Mount(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	iso, _ := cmd.Flags().GetString("iso")
	if iso, err = absPath(iso); err != nil {
		return err
	}
	slot := slotFromFlags(cmd)
	slot.Medium = iso

	return env.Locked(ctx, "mount", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Mount on", false)
		if err != nil {
			return err
		}
		return env.Manager.Mount(ctx, sel.One(), slot)
	})
}

func (h Handler) Unmount(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	slot := slotFromFlags(cmd)

	return env.Locked(ctx, "unmount", func() error {
		sel, err := env.ResolveConfirmed(ctx, cmd, cmdcore.Single, "Unmount from", false)
		if err != nil {
			return err
		}
		return env.Manager.Unmount(ctx, sel.One(), slot)
	})
}

func slotFromFlags(cmd *cobra.Command) vbox.Attachment {
	controller, _ := cmd.Flags().GetString("controller")
	port, _ := cmd.Flags().GetInt("port")
	device, _ := cmd.Flags().GetInt("device")
	return vbox.Attachment{Controller: controller, Port: port, Device: device}
}

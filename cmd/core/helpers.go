package core

import (
	"context"
	"fmt"
	"io"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/projecteru2/vboxctl/config"
	"github.com/projecteru2/vboxctl/confirm"
	"github.com/projecteru2/vboxctl/lifecycle"
	"github.com/projecteru2/vboxctl/lock"
	"github.com/projecteru2/vboxctl/lock/flock"
	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

// BaseHandler provides shared config access for all command handlers.
type BaseHandler struct {
	ConfProvider func() *config.Config
	// RunnerProvider overrides how VBoxManage is invoked; nil runs the
	// configured binary.
	RunnerProvider func(*config.Config) vbox.Runner
}

// Init returns the command context and validated config in one call.
func (h BaseHandler) Init(cmd *cobra.Command) (context.Context, *config.Config, error) {
	conf, err := h.Conf()
	if err != nil {
		return nil, nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}
	return CommandContext(cmd), conf, nil
}

// Conf returns the config. All handlers call this first.
func (h BaseHandler) Conf() (*config.Config, error) {
	if h.ConfProvider == nil {
		return nil, fmt.Errorf("config provider is nil")
	}
	conf := h.ConfProvider()
	if conf == nil {
		return nil, fmt.Errorf("config not initialized")
	}
	return conf, nil
}

// Env returns the components one invocation works with.
func (h BaseHandler) Env(cmd *cobra.Command) (context.Context, *Env, error) {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return nil, nil, err
	}
	var runner vbox.Runner = vbox.NewExecRunner(conf.VBoxManage)
	if h.RunnerProvider != nil {
		runner = h.RunnerProvider(conf)
	}
	out := cmd.OutOrStdout()
	return ctx, &Env{
		Conf:    conf,
		Client:  vbox.NewClient(runner),
		Manager: lifecycle.New(conf, vbox.NewClient(runner), vbox.NewExecutor(runner, out, conf.VBoxManage)),
		In:      cmd.InOrStdin(),
		Out:     out,
	}, nil
}

// Env bundles the per-invocation client, lifecycle manager and operator I/O.
type Env struct {
	Conf    *config.Config
	Client  *vbox.Client
	Manager *lifecycle.Manager
	In      io.Reader
	Out     io.Writer
}

// Locked runs fn while holding the per-user operation lock. A lock held by
// another vboxctl process fails immediately.
func (e *Env) Locked(ctx context.Context, op string, fn func() error) error {
	return lock.TryWithLock(ctx, flock.New(e.Conf.LockFile), op, fn)
}

// Confirm shows targets with their live state and asks the operator to
// approve action.
func (e *Env) Confirm(ctx context.Context, action string, targets []types.VM) error {
	statuses, err := e.Client.Statuses(ctx, targets)
	if err != nil {
		return err
	}
	p := &confirm.Prompter{In: e.In, Out: e.Out, AssumeYes: e.Conf.AssumeYes}
	return p.Confirm(ctx, action, statuses)
}

// CommandContext returns command context, falling back to Background.
func CommandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// SizeFlag parses a human size flag ("1G", "512M") into bytes, falling
// back to def when the flag is empty. VBoxManage takes sizes in MiB, so
// anything below 1 MiB is rejected.
func SizeFlag(cmd *cobra.Command, name, def string) (int64, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		v = def
	}
	n, err := units.RAMInBytes(v)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, v, err)
	}
	if n < units.MiB {
		return 0, fmt.Errorf("invalid --%s %q: must be at least 1MiB", name, v)
	}
	return n, nil
}

// FormatMiB renders a MiB count the way go-units prints sizes.
func FormatMiB(mib int64) string {
	return units.BytesSize(float64(mib * units.MiB))
}

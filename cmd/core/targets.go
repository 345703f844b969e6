package core

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

// TargetMode says how many VMs a command acts on.
type TargetMode int

const (
	// Single commands need exactly one VM.
	Single TargetMode = iota
	// Multi commands accept every VM the selector matches.
	Multi
	// All commands act on every registered VM and take no selector.
	All
)

// Selection is a resolved target set and the directory it was resolved in.
type Selection struct {
	Dir *vbox.Directory
	vbox.Resolution
}

// One returns the single target of a Single selection.
func (s Selection) One() types.VM { return s.Targets[0] }

// AddTargetFlags adds --uuid, --name and --exact (alias --noregex).
func AddTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("uuid", "", "VM UUID")
	cmd.Flags().StringP("name", "n", "", "VM name, or a case-insensitive regex unless --exact")
	cmd.Flags().Bool("exact", false, "match --name literally")
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "noregex" {
			name = "exact"
		}
		return pflag.NormalizedName(name)
	})
}

// SelectorFromFlags reads the targeting flags added by AddTargetFlags.
func SelectorFromFlags(cmd *cobra.Command) vbox.Selector {
	id, _ := cmd.Flags().GetString("uuid")
	name, _ := cmd.Flags().GetString("name")
	exact, _ := cmd.Flags().GetBool("exact")
	return vbox.Selector{ID: id, Name: name, Exact: exact}
}

// Resolve lists registered VMs once and resolves the selector of cmd.
func (e *Env) Resolve(ctx context.Context, cmd *cobra.Command, mode TargetMode) (Selection, error) {
	dir, err := e.Client.Directory(ctx)
	if err != nil {
		return Selection{}, err
	}
	sel := vbox.Selector{All: true}
	if mode != All {
		sel = SelectorFromFlags(cmd)
	}
	res, err := dir.Resolve(sel, mode != Single)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Dir: dir, Resolution: res}, nil
}

// ResolveConfirmed resolves like Resolve and asks the operator to approve
// the set when it came from a pattern, holds more than one VM, or always
// is set.
func (e *Env) ResolveConfirmed(ctx context.Context, cmd *cobra.Command, mode TargetMode, action string, always bool) (Selection, error) {
	sel, err := e.Resolve(ctx, cmd, mode)
	if err != nil {
		return Selection{}, err
	}
	if always || mode == All || sel.NeedsConfirmation() {
		if err := e.Confirm(ctx, action, sel.Targets); err != nil {
			return Selection{}, err
		}
	}
	return sel, nil
}

package vbox

import (
	"fmt"
	"regexp"

	"github.com/projecteru2/vboxctl/types"
)

// Selector is the operator's description of which VM(s) to act on.
type Selector struct {
	ID    string
	Name  string
	Exact bool
	// All selects every VM in the directory; used by stopall/suspendall.
	All bool
}

// Resolution is the ordered target set a Selector resolved to.
type Resolution struct {
	Targets []types.VM
	// ViaPattern is set when Name was interpreted as a pattern.
	ViaPattern bool
}

// NeedsConfirmation reports whether the operator must approve the set
// before anything runs against it.
func (r Resolution) NeedsConfirmation() bool {
	return r.ViaPattern || len(r.Targets) > 1
}

// Resolve turns sel into a target set against d. multi says whether the
// calling operation accepts more than one target.
func (d *Directory) Resolve(sel Selector, multi bool) (Resolution, error) {
	switch {
	case sel.All:
		if sel.ID != "" || sel.Name != "" {
			return Resolution{}, ErrConflictingSelector
		}
		if d.Len() == 0 {
			return Resolution{}, fmt.Errorf("%w: no VMs registered", ErrNoMatch)
		}
		return Resolution{Targets: d.VMs()}, nil

	case sel.ID != "" && sel.Name != "":
		return Resolution{}, ErrConflictingSelector

	case sel.ID != "":
		name, ok := d.NameByID(sel.ID)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: no VM with uuid %s", ErrNotFound, sel.ID)
		}
		id, _ := d.IDByName(name)
		return Resolution{Targets: []types.VM{{Name: name, ID: id}}}, nil

	case sel.Name != "" && sel.Exact:
		id, ok := d.IDByName(sel.Name)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: no VM with name %s", ErrNotFound, sel.Name)
		}
		return Resolution{Targets: []types.VM{{Name: sel.Name, ID: id}}}, nil

	case sel.Name != "":
		re, err := regexp.Compile("(?i)" + sel.Name)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w %q: %v", ErrBadPattern, sel.Name, err)
		}
		matches := d.Match(re)
		if len(matches) == 0 {
			return Resolution{}, fmt.Errorf("%w %s", ErrNoMatch, sel.Name)
		}
		if len(matches) > 1 && !multi {
			names := make([]string, len(matches))
			for i, vm := range matches {
				names[i] = vm.Name
			}
			return Resolution{}, &AmbiguousError{Pattern: sel.Name, Names: names}
		}
		return Resolution{Targets: matches, ViaPattern: true}, nil

	default:
		return Resolution{}, ErrNoSelector
	}
}

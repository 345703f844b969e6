package vbox

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/projecteru2/vboxctl/types"
)

// UUIDPattern is the identifier shape VBoxManage prints: 32 hex digits
// grouped 8-4-4-4-12.
const UUIDPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var vmLine = regexp.MustCompile(`^"(.*)" \{(` + UUIDPattern + `)\}\s*$`)

// Directory is an immutable snapshot of the registered VMs, built from a
// single `list vms` query. Name and ID lookups are exact inverses.
type Directory struct {
	vms    []types.VM
	byName map[string]string
	byID   map[string]string
}

// ParseDirectory parses `VBoxManage list vms` output. Any malformed line or
// any duplicate name/UUID fails the whole directory.
func ParseDirectory(output string) (*Directory, error) {
	var vms []types.VM
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := vmLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrParse, line)
		}
		vms = append(vms, types.VM{Name: m[1], ID: m[2]})
	}
	return NewDirectory(vms)
}

// NewDirectory validates vms and builds the lookup maps. IDs are stored in
// canonical lower-case form.
func NewDirectory(vms []types.VM) (*Directory, error) {
	d := &Directory{
		vms:    make([]types.VM, 0, len(vms)),
		byName: make(map[string]string, len(vms)),
		byID:   make(map[string]string, len(vms)),
	}
	for _, vm := range vms {
		id, err := canonicalID(vm.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: VM %q: %v", ErrParse, vm.Name, err)
		}
		if prev, ok := d.byName[vm.Name]; ok {
			return nil, fmt.Errorf("%w: name %q used by %s and %s", ErrInconsistent, vm.Name, prev, id)
		}
		if prev, ok := d.byID[id]; ok {
			return nil, fmt.Errorf("%w: UUID %s used by %q and %q", ErrInconsistent, id, prev, vm.Name)
		}
		d.byName[vm.Name] = id
		d.byID[id] = vm.Name
		d.vms = append(d.vms, types.VM{Name: vm.Name, ID: id})
	}
	if len(d.byName) != len(d.byID) {
		return nil, ErrInconsistent
	}
	return d, nil
}

// Len returns the number of VMs.
func (d *Directory) Len() int { return len(d.vms) }

// VMs returns a copy of all entries in inventory order.
func (d *Directory) VMs() []types.VM {
	out := make([]types.VM, len(d.vms))
	copy(out, d.vms)
	return out
}

// IDByName looks a name up verbatim.
func (d *Directory) IDByName(name string) (string, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// NameByID looks an identifier up; case and surrounding braces are ignored.
func (d *Directory) NameByID(id string) (string, bool) {
	cid, err := canonicalID(strings.Trim(id, "{}"))
	if err != nil {
		return "", false
	}
	name, ok := d.byID[cid]
	return name, ok
}

// Match returns the entries whose names match re, in inventory order.
func (d *Directory) Match(re *regexp.Regexp) []types.VM {
	var out []types.VM
	for _, vm := range d.vms {
		if re.MatchString(vm.Name) {
			out = append(out, vm)
		}
	}
	return out
}

func canonicalID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

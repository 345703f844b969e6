package others

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/projecteru2/vboxctl/types"
)

var menuTemplate = template.Must(template.New("menu").Funcs(template.FuncMap{
	"label": menuLabel,
}).Parse(`[begin] (VirtualBox)
  [encoding] {UTF-8}
  [submenu] (VMs)
{{- range .VMs}}
    [exec] ({{label .Name}}) {{"{"}}{{$.Launcher}} {{.ID}}{{"}"}}
{{- end}}
  [end]
{{- if .Regen}}
  [separator]
  [exec] (re-gen menu) {{"{"}}{{.Regen}}{{"}"}}
{{- end}}
  [endencoding]
[end]
`))

// MenuData feeds the fluxbox menu template.
type MenuData struct {
	VMs []types.VM
	// Launcher is the command an entry runs; the VM UUID is appended.
	Launcher string
	// Regen, when set, adds an entry that regenerates the menu.
	Regen string
}

// RenderMenu writes a fluxbox menu with one [exec] entry per VM.
func RenderMenu(w io.Writer, data MenuData) error {
	return menuTemplate.Execute(w, data)
}

// menuLabel escapes the characters fluxbox treats as label delimiters.
func menuLabel(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

// PickVM prints vms as a numbered list and reads a 1-based choice from in.
// An answer that is not a listed number picks nothing.
func PickVM(in io.Reader, out io.Writer, vms []types.VM) (types.VM, bool, error) {
	for i, vm := range vms {
		_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, vm.Name)
	}
	_, _ = fmt.Fprint(out, "\nPlease select a VM to boot...\n\n> ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return types.VM{}, false, fmt.Errorf("read choice: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(vms) {
		return types.VM{}, false, nil
	}
	return vms[n-1], true, nil
}

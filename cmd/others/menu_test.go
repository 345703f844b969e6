package others

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/types"
)

var vms = []types.VM{
	{Name: "web-1", ID: "0f1c2d3e-4a5b-4c6d-8e7f-001122334455"},
	{Name: "Windows (test)", ID: "1a2b3c4d-5e6f-4a1b-9c2d-66778899aabb"},
}

func TestRenderMenu(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMenu(&buf, MenuData{VMs: vms, Launcher: "/usr/bin/VBoxSDL --startvm"}))
	assert.Equal(t, `[begin] (VirtualBox)
  [encoding] {UTF-8}
  [submenu] (VMs)
    [exec] (web-1) {/usr/bin/VBoxSDL --startvm 0f1c2d3e-4a5b-4c6d-8e7f-001122334455}
    [exec] (Windows \(test\)) {/usr/bin/VBoxSDL --startvm 1a2b3c4d-5e6f-4a1b-9c2d-66778899aabb}
  [end]
  [endencoding]
[end]
`, buf.String())
}

func TestRenderMenuRegenEntry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMenu(&buf, MenuData{Launcher: "x", Regen: "/usr/local/bin/vboxctl menu --output /home/u/.fluxbox/custom-menu"}))
	out := buf.String()
	assert.Contains(t, out, "  [submenu] (VMs)\n  [end]\n")
	assert.Contains(t, out, "  [separator]\n  [exec] (re-gen menu) {/usr/local/bin/vboxctl menu --output /home/u/.fluxbox/custom-menu}\n")
}

func TestPickVM(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
		ok   bool
	}{
		{"1\n", "web-1", true},
		{" 2 \n", "Windows (test)", true},
		{"2", "Windows (test)", true},
		{"0\n", "", false},
		{"3\n", "", false},
		{"web-1\n", "", false},
		{"", "", false},
	} {
		var out bytes.Buffer
		vm, ok, err := PickVM(strings.NewReader(tt.in), &out, vms)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, vm.Name, tt.in)
		assert.True(t, strings.HasPrefix(out.String(), "1. web-1\n2. Windows (test)\n"))
		assert.True(t, strings.HasSuffix(out.String(), "> "))
	}
}

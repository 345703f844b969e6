package vbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
)

const showVMInfo = `name="web-1"
groups="/"
ostype="Ubuntu (64-bit)"
UUID="0f1c2d3e-4a5b-4c6d-8e7f-001122334455"
memory=2048
vram=48
cpus=2
VMState="poweroff"
VMStateChangeTime="2024-05-01T10:00:00.000000000"
"SATA-0-0"="/home/op/VirtualBox VMs/web-1/hdd.vdi"
description="first line
second line"

natnet1="nat"
`

func TestParseMachineInfo(t *testing.T) {
	info := vbox.ParseMachineInfo(showVMInfo)

	v, ok := info.Get("memory")
	require.True(t, ok)
	assert.Equal(t, "2048", v)

	v, ok = info.Get("ostype")
	require.True(t, ok)
	assert.Equal(t, "Ubuntu (64-bit)", v)

	v, ok = info.Get("SATA-0-0")
	require.True(t, ok)
	assert.Equal(t, "/home/op/VirtualBox VMs/web-1/hdd.vdi", v)

	assert.Equal(t, types.VMStatePoweroff, info.State())
	assert.Equal(t, "name", info.Properties[0].Key)

	_, ok = info.Get("second line\"")
	assert.False(t, ok)
}

func TestParseMachineInfoNoState(t *testing.T) {
	assert.Equal(t, types.VMStateUnknown, vbox.ParseMachineInfo("").State())
}

func TestParseOSTypes(t *testing.T) {
	out := `ID:          Other
Description: Other/Unknown
Family ID:   Other
Family Desc: Other
64 bit:      false

ID:          Ubuntu_64
Description: Ubuntu (64-bit)
Family ID:   Linux
Family Desc: Linux
64 bit:      true
`
	got := vbox.ParseOSTypes(out)
	require.Len(t, got, 2)
	assert.Equal(t, types.OSType{ID: "Other", Description: "Other/Unknown", FamilyID: "Other", FamilyDescription: "Other"}, got[0])
	assert.Equal(t, "Ubuntu_64", got[1].ID)
	assert.True(t, got[1].Is64Bit)
}

func TestCommandString(t *testing.T) {
	c := vbox.StorageAttach("web 1", vbox.Attachment{Controller: "IDE", Port: 1, Type: "dvddrive", Medium: "/isos/it's.iso"})
	assert.Equal(t, `storageattach 'web 1' --storagectl IDE --port 1 --device 0 --type dvddrive --medium '/isos/it'\''s.iso'`, c.String())
}

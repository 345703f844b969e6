package lifecycle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/config"
	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
	"github.com/projecteru2/vboxctl/vbox/vboxtest"
)

const (
	id1 = "0f1c2d3e-4a5b-4c6d-8e7f-001122334455"
	id2 = "1a2b3c4d-5e6f-4a1b-9c2d-66778899aabb"
	id3 = "2b3c4d5e-6f70-4b2c-8d3e-ccddeeff0011"
)

var (
	web1 = types.VM{Name: "web-1", ID: id1}
	web2 = types.VM{Name: "web-2", ID: id2}
	db   = types.VM{Name: "db", ID: id3}
)

func newManager(t *testing.T, fake *vboxtest.FakeRunner) (*Manager, *bytes.Buffer) {
	t.Helper()
	conf := config.DefaultConfig()
	conf.VMDir = t.TempDir()
	conf.PollIntervalMillis = 1
	conf.StopTimeoutSeconds = 1
	var out bytes.Buffer
	return New(conf, vbox.NewClient(fake), vbox.NewExecutor(fake, &out, conf.VBoxManage)), &out
}

func state(s types.VMState) vboxtest.Response {
	return vboxtest.Response{Output: "name=\"x\"\nVMState=\"" + string(s) + "\"\n"}
}

func directory(t *testing.T, vms ...types.VM) *vbox.Directory {
	t.Helper()
	d, err := vbox.NewDirectory(vms)
	require.NoError(t, err)
	return d
}

package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
	"github.com/projecteru2/vboxctl/vbox/vboxtest"
)

func TestStopPoweredOffIsNoop(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", state(types.VMStatePoweroff))
	m, out := newManager(t, fake)

	o, err := m.Stop(context.Background(), web1, true)
	require.NoError(t, err)
	assert.False(t, o.Issued)
	assert.Equal(t, types.VMStatePoweroff, o.Before)
	assert.Empty(t, fake.CallsWithPrefix("controlvm"))
	assert.Len(t, fake.Calls(), 1)
	assert.Empty(t, out.String())
}

func TestStopRunningNoWait(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", state(types.VMStateRunning))
	m, _ := newManager(t, fake)

	o, err := m.Stop(context.Background(), web1, false)
	require.NoError(t, err)
	assert.True(t, o.Issued)
	assert.False(t, o.Settled)
	assert.Equal(t, []string{
		"showvminfo " + id1 + " --machinereadable",
		"controlvm " + id1 + " poweroff",
	}, fake.Calls())
}

func TestStopRunningWaitsUntilSettled(t *testing.T) {
	fake := vboxtest.New().
		Push("showvminfo", state(types.VMStateRunning)).
		Push("showvminfo", state(types.VMStateRunning)).
		Push("showvminfo", state(types.VMStateStopping)).
		On("showvminfo", state(types.VMStatePoweroff))
	m, _ := newManager(t, fake)

	o, err := m.Stop(context.Background(), web1, true)
	require.NoError(t, err)
	assert.True(t, o.Issued)
	assert.True(t, o.Settled)
	assert.Equal(t, types.VMStatePoweroff, o.After)
	assert.Len(t, fake.CallsWithPrefix("controlvm"), 1)
	assert.Len(t, fake.CallsWithPrefix("showvminfo"), 4)
}

func TestStopWaitTimeoutIsNotAnError(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", state(types.VMStateRunning))
	m, _ := newManager(t, fake)

	o, err := m.Stop(context.Background(), web1, true)
	require.NoError(t, err)
	assert.True(t, o.Issued)
	assert.False(t, o.Settled)
	assert.Equal(t, types.VMStateRunning, o.After)
	assert.Len(t, fake.CallsWithPrefix("controlvm"), 1)
}

func TestSuspendSavesState(t *testing.T) {
	fake := vboxtest.New().
		Push("showvminfo", state(types.VMStateRunning)).
		On("showvminfo", state(types.VMStateSaved))
	m, _ := newManager(t, fake)

	o, err := m.Suspend(context.Background(), web1, true)
	require.NoError(t, err)
	assert.True(t, o.Settled)
	assert.Equal(t, []string{"controlvm " + id1 + " savestate"}, fake.CallsWithPrefix("controlvm"))
}

func TestPowerFailureIsRecoverable(t *testing.T) {
	fake := vboxtest.New().
		On("showvminfo", state(types.VMStateRunning)).
		On("controlvm", vboxtest.Fail("VBOX_E_INVALID_VM_STATE"))
	m, _ := newManager(t, fake)

	_, err := m.Stop(context.Background(), web1, true)
	require.Error(t, err)
	assert.Equal(t, vbox.KindRecoverable, vbox.Classify(err))
	assert.Len(t, fake.CallsWithPrefix("showvminfo"), 1, "no wait after a failed poweroff")
}

func TestPowerAllBestEffort(t *testing.T) {
	fake := vboxtest.New().
		On("showvminfo", state(types.VMStateRunning)).
		On("showvminfo "+id2, vboxtest.Fail("VBOX_E_OBJECT_NOT_FOUND"))
	m, _ := newManager(t, fake)

	outcomes, err := m.PowerAll(context.Background(), []types.VM{web1, web2, db}, vbox.PowerOff, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web-2")
	require.Len(t, outcomes, 2)
	assert.Equal(t, web1, outcomes[0].VM)
	assert.Equal(t, db, outcomes[1].VM)
	assert.Equal(t, []string{"controlvm " + id1 + " poweroff", "controlvm " + id3 + " poweroff"}, fake.CallsWithPrefix("controlvm"))
}

func TestPowerAllStopsOnMissingTool(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", vboxtest.Missing())
	m, _ := newManager(t, fake)

	outcomes, err := m.PowerAll(context.Background(), []types.VM{web1, web2}, vbox.SaveState, false)
	assert.ErrorIs(t, err, vbox.ErrToolNotFound)
	assert.Empty(t, outcomes)
	assert.Len(t, fake.Calls(), 1)
}

func TestStartSkipsRunning(t *testing.T) {
	fake := vboxtest.New().
		On("showvminfo", state(types.VMStatePoweroff)).
		On("showvminfo "+id1, state(types.VMStateRunning))
	m, _ := newManager(t, fake)

	started, err := m.Start(context.Background(), []types.VM{web1, web2}, "headless")
	require.NoError(t, err)
	assert.Equal(t, []types.VM{web2}, started)
	assert.Equal(t, []string{"startvm " + id2 + " --type headless"}, fake.CallsWithPrefix("startvm"))
}

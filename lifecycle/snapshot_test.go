package lifecycle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/vbox"
	"github.com/projecteru2/vboxctl/vbox/vboxtest"
)

func TestSnapshotLiveFailsFallbackSucceeds(t *testing.T) {
	fake := vboxtest.New().
		On("snapshot "+id1+" delete", vboxtest.Fail("Could not find a snapshot named 'base'")).
		On("snapshot "+id1+" take base --live", vboxtest.Fail("live snapshot not supported"))
	m, out := newManager(t, fake)

	rep, err := m.Snapshot(context.Background(), web1, SnapshotOptions{Name: "base"})
	require.NoError(t, err)
	assert.Equal(t, SnapshotReport{
		DeleteAttempted: true,
		LiveAttempted:   true,
		LiveFailed:      true,
		FallbackUsed:    true,
	}, rep)
	assert.Equal(t, []string{
		"snapshot " + id1 + " delete base",
		"snapshot " + id1 + " take base --live",
		"snapshot " + id1 + " take base",
	}, fake.Calls())
	assert.Contains(t, out.String(), "take base --live\n")
	assert.Contains(t, out.String(), "take base\n")
}

func TestSnapshotLiveSucceeds(t *testing.T) {
	fake := vboxtest.New()
	m, _ := newManager(t, fake)

	rep, err := m.Snapshot(context.Background(), web1, SnapshotOptions{Name: "base install", Description: "fresh"})
	require.NoError(t, err)
	assert.True(t, rep.Deleted)
	assert.False(t, rep.FallbackUsed)
	assert.Equal(t, []string{
		"snapshot " + id1 + " delete base install",
		"snapshot " + id1 + " take base install --description fresh --live",
	}, fake.Calls())
}

func TestSnapshotSuppressedSteps(t *testing.T) {
	fake := vboxtest.New()
	m, _ := newManager(t, fake)

	rep, err := m.Snapshot(context.Background(), web1, SnapshotOptions{Name: "base", SkipDelete: true, SkipLive: true})
	require.NoError(t, err)
	assert.Equal(t, SnapshotReport{}, rep)
	assert.Equal(t, []string{"snapshot " + id1 + " take base"}, fake.Calls())
}

func TestSnapshotBothAttemptsFail(t *testing.T) {
	fake := vboxtest.New().On("snapshot "+id1+" take", vboxtest.Fail("disk full"))
	m, _ := newManager(t, fake)

	rep, err := m.Snapshot(context.Background(), web1, SnapshotOptions{Name: "base"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, rep.LiveFailed)
	assert.True(t, rep.FallbackUsed)
	assert.Len(t, fake.CallsWithPrefix("snapshot "+id1+" take"), 2)
}

func TestSnapshotFatalDeleteStops(t *testing.T) {
	fake := vboxtest.New().On("snapshot", vboxtest.Missing())
	m, _ := newManager(t, fake)

	_, err := m.Snapshot(context.Background(), web1, SnapshotOptions{Name: "base"})
	assert.ErrorIs(t, err, vbox.ErrToolNotFound)
	assert.Len(t, fake.Calls(), 1)
}

func TestSnapshotNeedsName(t *testing.T) {
	m, _ := newManager(t, vboxtest.New())
	_, err := m.Snapshot(context.Background(), web1, SnapshotOptions{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRestoreRunningPowersOffFirst(t *testing.T) {
	fake := vboxtest.New().
		Push("showvminfo", state(types.VMStateRunning)).
		Push("showvminfo", state(types.VMStateRunning)).
		On("showvminfo", state(types.VMStatePoweroff))
	m, _ := newManager(t, fake)

	require.NoError(t, m.Restore(context.Background(), web1, RestoreOptions{Name: "base"}))
	var mutating []string
	for _, c := range fake.Calls() {
		if !strings.HasPrefix(c, "showvminfo") {
			mutating = append(mutating, c)
		}
	}
	assert.Equal(t, []string{
		"controlvm " + id1 + " poweroff",
		"snapshot " + id1 + " restore base",
	}, mutating)
}

func TestRestoreSavedDiscardsState(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", state(types.VMStateSaved))
	m, _ := newManager(t, fake)

	require.NoError(t, m.Restore(context.Background(), web1, RestoreOptions{}))
	assert.Equal(t, []string{
		"showvminfo " + id1 + " --machinereadable",
		"discardstate " + id1,
		"snapshot " + id1 + " restorecurrent",
	}, fake.Calls())
}

func TestRestoreRefusesWhenStillRunning(t *testing.T) {
	fake := vboxtest.New().On("showvminfo", state(types.VMStateRunning))
	m, _ := newManager(t, fake)

	err := m.Restore(context.Background(), web1, RestoreOptions{Name: "base"})
	assert.ErrorIs(t, err, ErrRunning)
	assert.Empty(t, fake.CallsWithPrefix("snapshot"))
}

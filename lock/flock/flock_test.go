package flock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/lock"
)

func TestTryLockExcludesSecondHolder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "run", "vboxctl.lock")

	a, b := New(path), New(path)
	ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "flock is per open file description")

	require.NoError(t, a.Unlock(ctx))
	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Unlock(ctx))
}

func TestUnlockWithoutLock(t *testing.T) {
	assert.NoError(t, New(filepath.Join(t.TempDir(), "x.lock")).Unlock(context.Background()))
}

func TestTryWithLock(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vboxctl.lock")
	holder := New(path)

	ran := false
	err := lock.TryWithLock(ctx, New(path), path, func() error {
		ran = true
		ok, err := holder.TryLock(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	ok, err := holder.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	defer holder.Unlock(ctx) //nolint:errcheck
	err = lock.TryWithLock(ctx, New(path), path, func() error {
		t.Fatal("must not run")
		return nil
	})
	assert.True(t, errors.Is(err, lock.ErrHeld))
}

func TestTryWithLockPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	path := filepath.Join(t.TempDir(), "l")
	err := lock.TryWithLock(context.Background(), New(path), path, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	ok, err := New(path).TryLock(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "released after fn fails")
}

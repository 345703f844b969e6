package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/core/log"
)

// ErrHeld is returned by TryWithLock when another holder owns the lock.
var ErrHeld = errors.New("lock held by another vboxctl process")

// Locker provides non-blocking mutual exclusion.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// TryWithLock runs fn while holding l, failing fast with ErrHeld when the
// lock is taken.
func TryWithLock(ctx context.Context, l Locker, name string, fn func() error) error {
	ok, err := l.TryLock(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrHeld, name)
	}
	defer unlock(ctx, l)
	return fn()
}

func unlock(ctx context.Context, l Locker) {
	if err := l.Unlock(ctx); err != nil {
		log.WithFunc("lock.unlock").Warnf(ctx, "release: %v", err)
	}
}

package flock

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/projecteru2/vboxctl/lock"
	"github.com/projecteru2/vboxctl/utils"
)

// compile-time interface check.
var _ lock.Locker = (*Lock)(nil)

// Lock serialises mutating vboxctl invocations on one host via flock(2).
// vboxctl is single-threaded, so one Lock is only ever used by one goroutine;
// a fresh fd is opened per acquisition and closed on Unlock.
type Lock struct {
	path string
	// fl is the active flock fd, non-nil while the lock is held.
	fl *flock.Flock
}

// New creates a Lock for the given path. The file is created on first use.
func New(path string) *Lock {
	return &Lock{path: path}
}

// TryLock attempts a non-blocking acquisition.
// Returns (false, nil) if the lock is currently held by another process.
func (l *Lock) TryLock(_ context.Context) (bool, error) {
	if l.fl != nil {
		return false, fmt.Errorf("acquire flock %s: already held", l.path)
	}
	if err := utils.EnsureDirs(filepath.Dir(l.path)); err != nil {
		return false, fmt.Errorf("acquire flock %s: %w", l.path, err)
	}
	fl := flock.New(l.path)
	ok, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire flock %s: %w", l.path, err)
	}
	if ok {
		l.fl = fl
	}
	return ok, nil
}

// Unlock releases the lock. Unlocking a lock that is not held is a no-op.
func (l *Lock) Unlock(_ context.Context) error {
	if l.fl == nil {
		return nil
	}
	err := l.fl.Unlock()
	l.fl = nil
	if err != nil {
		return fmt.Errorf("release flock %s: %w", l.path, err)
	}
	return nil
}
